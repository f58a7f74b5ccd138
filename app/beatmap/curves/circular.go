package curves

import (
	"math"

	"github.com/neomodnet/neomod-sub003/framework/math/vector"
)

const circularSubdivisions = 50

// NewCircular builds a "perfect circle" arc through exactly three control
// points. Degenerate (collinear) input falls back to a straight line, same
// as osu!'s own parser does.
func NewCircular(p0, p1, p2 vector.Vector2f) SliderCurve {
	a, b, c := p0.Copy64(), p1.Copy64(), p2.Copy64()

	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < 1e-6 {
		return NewLinear([]vector.Vector2f{p0, p2})
	}

	ux := ((a.X*a.X+a.Y*a.Y)*(b.Y-c.Y) + (b.X*b.X+b.Y*b.Y)*(c.Y-a.Y) + (c.X*c.X+c.Y*c.Y)*(a.Y-b.Y)) / d
	uy := ((a.X*a.X+a.Y*a.Y)*(c.X-b.X) + (b.X*b.X+b.Y*b.Y)*(a.X-c.X) + (c.X*c.X+c.Y*c.Y)*(b.X-a.X)) / d

	center := vector.Vector2d{X: ux, Y: uy}
	radius := center.Dst(a)

	angleA := math.Atan2(a.Y-center.Y, a.X-center.X)
	angleB := math.Atan2(b.Y-center.Y, b.X-center.X)
	angleC := math.Atan2(c.Y-center.Y, c.X-center.X)

	// Determine rotation direction (clockwise vs counter-clockwise) such
	// that sweeping from angleA to angleC passes through angleB.
	clockwise := isAngleBetweenCW(angleA, angleB, angleC)

	sweep := angleC - angleA
	for clockwise && sweep > 0 {
		sweep -= 2 * math.Pi
	}

	for !clockwise && sweep < 0 {
		sweep += 2 * math.Pi
	}

	points := make([]vector.Vector2f, 0, circularSubdivisions+1)

	for i := 0; i <= circularSubdivisions; i++ {
		t := float64(i) / float64(circularSubdivisions)
		angle := angleA + sweep*t

		points = append(points, vector.Vector2f{
			X: float32(center.X + radius*math.Cos(angle)),
			Y: float32(center.Y + radius*math.Sin(angle)),
		})
	}

	bc := newBaseCurve(points)

	return &circularCurve{bc}
}

func isAngleBetweenCW(a, b, c float64) bool {
	norm := func(x float64) float64 {
		for x < 0 {
			x += 2 * math.Pi
		}

		for x >= 2*math.Pi {
			x -= 2 * math.Pi
		}

		return x
	}

	a, b, c = norm(a), norm(b), norm(c)

	// Walking clockwise (decreasing angle) from a, do we hit b before c?
	distB := norm(a - b)
	distC := norm(a - c)

	return distB < distC
}

type circularCurve struct {
	baseCurve
}
