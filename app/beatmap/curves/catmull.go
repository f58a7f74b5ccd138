package curves

import "github.com/neomodnet/neomod-sub003/framework/math/vector"

const catmullSubdivisions = 25

func catmullPoint(p0, p1, p2, p3 vector.Vector2f, t float64) vector.Vector2f {
	t2 := t * t
	t3 := t2 * t

	f := func(a, b, c, d float32) float32 {
		return float32(0.5 * (float64(2*b) +
			float64(c-a)*t +
			float64(2*a-5*b+4*c-d)*t2 +
			float64(3*b-a-3*c+d)*t3))
	}

	return vector.Vector2f{
		X: f(p0.X, p1.X, p2.X, p3.X),
		Y: f(p0.Y, p1.Y, p2.Y, p3.Y),
	}
}

// NewCatmull builds a Catmull-Rom spline through every control point,
// duplicating the first/last points as virtual control handles.
func NewCatmull(points []vector.Vector2f) SliderCurve {
	if len(points) < 2 {
		points = padToTwo(points)
	}

	var flat []vector.Vector2f

	for i := 0; i < len(points)-1; i++ {
		p0 := points[maxInt(i-1, 0)]
		p1 := points[i]
		p2 := points[i+1]
		p3 := points[minInt(i+2, len(points)-1)]

		for j := 0; j <= catmullSubdivisions; j++ {
			t := float64(j) / float64(catmullSubdivisions)
			flat = append(flat, catmullPoint(p0, p1, p2, p3, t))
		}
	}

	bc := newBaseCurve(flat)

	return &catmullCurve{bc}
}

type catmullCurve struct {
	baseCurve
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}
