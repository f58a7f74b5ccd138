// Package curves builds the sampled polylines behind sliders. A SliderCurve
// answers point-at-t queries and keeps both an "original" and a "stacked"
// copy of its sample points so that stack resolution can translate the
// stacked copy without losing the original for later difficulty-object
// bookkeeping.
package curves

import "github.com/neomodnet/neomod-sub003/framework/math/vector"

// PointsSeparation is a nominal sampling step, in osu! pixels. The curve
// builders in this package do not read it: they sample with fixed
// subdivision counts instead.
const PointsSeparation = 20.0

type SliderCurve interface {
	// PointAt returns the stacked position at t in [0, 1].
	PointAt(t float64) vector.Vector2f
	// OriginalPointAt returns the pre-stack position at t in [0, 1].
	OriginalPointAt(t float64) vector.Vector2f
	// GetLength is the path's sampled length in osu! pixels.
	GetLength() float64
	// UpdateStackPosition translates every stacked sample point by offset,
	// optionally mirroring across the vertical when mirror is set.
	UpdateStackPosition(offset vector.Vector2f, mirror bool)
}

// baseCurve holds the sampled polyline shared by every curve type; concrete
// curves (Linear, Bezier, Circular, Catmull) only differ in how they build
// points, not in how pointAt/length/stack-translate work afterwards.
type baseCurve struct {
	original []vector.Vector2f
	stacked  []vector.Vector2f
	// cumulative[i] is the path length up to original[i].
	cumulative []float64
	length     float64
}

func newBaseCurve(points []vector.Vector2f) baseCurve {
	c := baseCurve{
		original:   points,
		cumulative: make([]float64, len(points)),
	}

	c.stacked = append([]vector.Vector2f(nil), points...)

	total := 0.0
	for i := 1; i < len(points); i++ {
		total += float64(points[i].Dst(points[i-1]))
		c.cumulative[i] = total
	}

	c.length = total

	return c
}

func (c *baseCurve) GetLength() float64 {
	return c.length
}

func (c *baseCurve) UpdateStackPosition(offset vector.Vector2f, mirror bool) {
	for i, p := range c.original {
		np := p.Add(offset)

		if mirror {
			np.Y = p.Y - offset.Y
		}

		c.stacked[i] = np
	}
}

func (c *baseCurve) pointAt(points []vector.Vector2f, t float64) vector.Vector2f {
	if len(points) == 0 {
		return vector.Vector2f{}
	}

	if len(points) == 1 {
		return points[0]
	}

	if t <= 0 {
		return points[0]
	}

	if t >= 1 {
		return points[len(points)-1]
	}

	target := t * c.length

	lo, hi := 0, len(c.cumulative)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if c.cumulative[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	if lo == 0 {
		return points[0]
	}

	segStart := c.cumulative[lo-1]
	segEnd := c.cumulative[lo]
	segLen := segEnd - segStart

	localT := 0.0
	if segLen > 1e-9 {
		localT = (target - segStart) / segLen
	}

	a, b := points[lo-1], points[lo]

	return vector.Vector2f{
		X: a.X + (b.X-a.X)*float32(localT),
		Y: a.Y + (b.Y-a.Y)*float32(localT),
	}
}

func (c *baseCurve) PointAt(t float64) vector.Vector2f {
	return c.pointAt(c.stacked, t)
}

func (c *baseCurve) OriginalPointAt(t float64) vector.Vector2f {
	return c.pointAt(c.original, t)
}
