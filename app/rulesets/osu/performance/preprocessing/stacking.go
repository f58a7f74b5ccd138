package preprocessing

import "github.com/neomodnet/neomod-sub003/framework/math/vector"

// stackDistance is the 3-pixel proximity threshold both stacking
// algorithms use to decide two objects overlap.
const stackDistance = 3.0

// brokenGamefieldRoundingAllowance reproduces a long-standing stable-client
// rounding quirk in the stack-offset-per-diameter conversion; kept under
// its historical name since that's genuinely what it is, not a
// meaningfully-named constant.
const brokenGamefieldRoundingAllowance = 1.00041

func headPos(o *DiffObject) vector.Vector2d {
	return o.OriginalPos
}

func tailPos(o *DiffObject) vector.Vector2d {
	if o.Kind != KindSlider || o.Slider == nil {
		return o.OriginalPos
	}

	o.Slider.BuildCurve()

	return o.Slider.EndPosition.Copy64()
}

// ResolveStacking applies the version-keyed stacking algorithm and then
// translates every stacked object's CurrentPos (and, for sliders, its
// curve) by the resulting per-object offset.
func ResolveStacking(objs []*DiffObject, circleRadius, approachTime, stackLeniency float64, version int) {
	if len(objs) == 0 {
		return
	}

	if version >= 6 {
		stackModern(objs, approachTime, stackLeniency)
	} else {
		stackLegacy(objs, approachTime, stackLeniency)
	}

	applyStackOffsets(objs, circleRadius)
}

// stackModern is peppy's post-v6 backward-scanning algorithm: chase a run
// of objects stacked on top of each other by walking backward in time from
// each unstacked object, matching the head-on-head and head-on-slider-tail
// cases.
func stackModern(objs []*DiffObject, approachTime, stackLeniency float64) {
	for i := len(objs) - 1; i >= 0; i-- {
		cur := objs[i]

		if cur.Kind == KindSpinner || cur.StackOffset != 0 {
			continue
		}

		sliderStack := int64(0)

		for n := i - 1; n >= 0; n-- {
			other := objs[n]

			if float64(cur.BaseTime)-approachTime*stackLeniency > float64(other.BaseEndTime) {
				break
			}

			if other.Kind == KindSlider && tailPos(other).Dst(headPos(cur)) < stackDistance {
				target := cur.StackOffset + 1

				for j := n + 1; j <= i; j++ {
					objs[j].StackOffset = target - sliderStack
				}

				sliderStack++

				continue
			}

			if headPos(other).Dst(headPos(cur)) < stackDistance {
				other.StackOffset = cur.StackOffset + 1
				cur = other

				continue
			}

			break
		}
	}
}

// stackLegacy is the pre-v6 forward-scanning algorithm. Matches via slider
// tails accumulate a separate, decrementing counter -- bumping notes down
// and right rather than up and left -- reproduced literally from the
// original client rather than derived from a cleaner invariant.
func stackLegacy(objs []*DiffObject, approachTime, stackLeniency float64) {
	for i := 0; i < len(objs); i++ {
		cur := objs[i]

		if cur.Kind == KindSpinner || cur.StackOffset != 0 {
			continue
		}

		stackBase := int64(0)
		sliderBump := int64(0)

		for j := i + 1; j < len(objs); j++ {
			other := objs[j]

			if float64(other.BaseTime)-float64(cur.BaseTime) > approachTime*stackLeniency {
				break
			}

			if other.Kind == KindSpinner {
				continue
			}

			if headPos(other).Dst(headPos(cur)) < stackDistance {
				stackBase++
				other.StackOffset = stackBase - sliderBump

				continue
			}

			if cur.Kind == KindSlider && headPos(other).Dst(tailPos(cur)) < stackDistance {
				sliderBump++
				other.StackOffset = stackBase - sliderBump
			}
		}
	}
}

// applyStackOffsets translates CurrentPos (and, for sliders with a
// materialized curve, the curve's stacked samples) by the per-object
// stack count.
func applyStackOffsets(objs []*DiffObject, circleRadius float64) {
	perStack := (circleRadius * 2) / 128 / brokenGamefieldRoundingAllowance * 6.4

	for _, o := range objs {
		if o.StackOffset == 0 {
			o.CurrentPos = o.OriginalPos
			continue
		}

		offset := vector.NewVec2d(-float64(o.StackOffset)*perStack, -float64(o.StackOffset)*perStack)
		o.CurrentPos = o.OriginalPos.Add(offset)

		if o.Kind == KindSlider && o.Slider != nil {
			o.Slider.BuildCurve()
			o.Slider.Curve.UpdateStackPosition(offset.Copy32(), false)
			o.Slider.StackedEndPosition = o.Slider.Curve.PointAt(1.0)
		}
	}
}
