package curves

import "github.com/neomodnet/neomod-sub003/framework/math/vector"

// deCasteljau evaluates a single Bezier segment (of any degree) at t.
func deCasteljau(points []vector.Vector2f, t float64) vector.Vector2f {
	work := append([]vector.Vector2f(nil), points...)

	for len(work) > 1 {
		for i := 0; i < len(work)-1; i++ {
			work[i] = vector.Vector2f{
				X: work[i].X + float32(t)*(work[i+1].X-work[i].X),
				Y: work[i].Y + float32(t)*(work[i+1].Y-work[i].Y),
			}
		}

		work = work[:len(work)-1]
	}

	return work[0]
}

// splitAtDuplicates breaks a bezier control-point list into sub-curves at
// any repeated consecutive anchor (the osu! "red anchor" convention for
// chaining Bezier segments within a single slider).
func splitAtDuplicates(points []vector.Vector2f) [][]vector.Vector2f {
	var segments [][]vector.Vector2f

	start := 0

	for i := 1; i < len(points); i++ {
		if points[i] == points[i-1] {
			if i-start >= 2 {
				segments = append(segments, points[start:i])
			}

			start = i
		}
	}

	if len(points)-start >= 2 {
		segments = append(segments, points[start:])
	} else if len(segments) == 0 && len(points) >= 1 {
		segments = append(segments, points)
	}

	return segments
}

const bezierSubdivisions = 50

func flattenBezier(points []vector.Vector2f) []vector.Vector2f {
	segments := splitAtDuplicates(points)

	var flat []vector.Vector2f

	for _, seg := range segments {
		if len(seg) < 2 {
			continue
		}

		for i := 0; i <= bezierSubdivisions; i++ {
			t := float64(i) / float64(bezierSubdivisions)
			flat = append(flat, deCasteljau(seg, t))
		}
	}

	return flat
}

func NewBezier(points []vector.Vector2f) SliderCurve {
	flat := flattenBezier(points)
	if len(flat) < 2 {
		flat = padToTwo(points)
	}

	b := newBaseCurve(flat)

	return &bezierCurve{b}
}

type bezierCurve struct {
	baseCurve
}

func padToTwo(points []vector.Vector2f) []vector.Vector2f {
	if len(points) == 0 {
		return []vector.Vector2f{{}, {}}
	}

	if len(points) == 1 {
		return []vector.Vector2f{points[0], points[0]}
	}

	return points
}
