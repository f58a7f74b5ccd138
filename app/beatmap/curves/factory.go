package curves

import "github.com/neomodnet/neomod-sub003/framework/math/vector"

// NewSliderCurve dispatches on the curve-type letter (B/C/L/P; any other
// letter builds a Bezier) and wraps the result so GetLength reports
// pixelLength. The sampled polyline itself is neither trimmed nor extended:
// PointAt spans the whole control path whatever pixelLength is.
func NewSliderCurve(curveType byte, controlPoints []vector.Vector2f, pixelLength float64) SliderCurve {
	var curve SliderCurve

	switch curveType {
	case 'L':
		curve = NewLinear(controlPoints)
	case 'P':
		if len(controlPoints) == 3 {
			curve = NewCircular(controlPoints[0], controlPoints[1], controlPoints[2])
		} else {
			curve = NewBezier(controlPoints)
		}
	case 'C':
		curve = NewCatmull(controlPoints)
	case 'B':
		fallthrough
	default:
		curve = NewBezier(controlPoints)
	}

	return clampLength(curve, pixelLength)
}

// clampLength wraps a curve so GetLength() reports the beatmap's parsed
// pixelLength (the value every downstream tick/timing formula actually
// uses) while PointAt still walks the real sampled path parametrized over
// [0, 1], independent of absolute length.
func clampLength(curve SliderCurve, pixelLength float64) SliderCurve {
	return &lengthOverride{SliderCurve: curve, length: pixelLength}
}

type lengthOverride struct {
	SliderCurve
	length float64
}

func (l *lengthOverride) GetLength() float64 {
	return l.length
}
