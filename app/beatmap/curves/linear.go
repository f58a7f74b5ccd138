package curves

import "github.com/neomodnet/neomod-sub003/framework/math/vector"

func NewLinear(points []vector.Vector2f) SliderCurve {
	pts := padToTwo(points)
	b := newBaseCurve(pts)

	return &linearCurve{b}
}

type linearCurve struct {
	baseCurve
}
