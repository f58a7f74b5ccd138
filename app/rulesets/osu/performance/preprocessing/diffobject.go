// Package preprocessing builds the array of difficulty hit objects the
// strain engine walks: stacking resolution, speed rescaling, and the
// per-object geometry (jump/travel distance, angle, lazy slider-cursor
// tracking) feeding the strain skills.
package preprocessing

import (
	"math"

	"github.com/neomodnet/neomod-sub003/app/beatmap/objects"
	"github.com/neomodnet/neomod-sub003/framework/math/mutils"
	"github.com/neomodnet/neomod-sub003/framework/math/vector"
)

type Kind int

const (
	KindCircle Kind = iota
	KindSlider
	KindSpinner
)

// normalizedRadius is the reference circle radius every position is
// rescaled against, making strain values scale-invariant in CS.
const normalizedRadius = 50.0

// DiffObject is one entry of the sorted difficulty-object array.
type DiffObject struct {
	Source objects.IHitObject
	Kind   Kind

	OriginalPos vector.Vector2d
	CurrentPos  vector.Vector2d

	BaseTime, BaseEndTime int64
	Time, EndTime         float64

	// Slider-only fields.
	Slider                         *objects.Slider
	BaseSpanDuration, SpanDuration float64
	BaseScoringTimes, ScoringTimes []objects.SliderScoringTime
	Repeat                         int

	StackOffset int64

	LazyEndPos       vector.Vector2d
	LazyTravelDist   float64
	LazyTravelTime   float64
	LazyCalcFinished bool

	// Per-skill strain state.
	AimStrain           float64
	AimNoSlidersStrain  float64
	SpeedStrain         float64
	RawSpeedStrain      float64
	Rhythm              float64

	NormStart       vector.Vector2d
	JumpDistance    float64
	MinJumpDistance float64
	MinJumpTime     float64
	TravelDistance  float64
	TravelTime      float64
	// Angle is in [0, pi], or -1 when undefined (first two objects, or a
	// neighboring spinner).
	Angle            float64
	SmallCircleBonus float64

	DeltaTime float64

	Index int

	// CumulativeCombo is the running max-combo total through and including
	// this object.
	CumulativeCombo int64
}

func (o *DiffObject) StartTime() int64 { return o.Source.GetStartTime() }

// NewDiffObject builds the un-positioned shell for a primitive hit object;
// geometry fields are filled in by the second preprocessing pass once
// every object's (possibly stacked) position is final.
func NewDiffObject(o objects.IHitObject) *DiffObject {
	d := &DiffObject{Source: o}

	pos := o.GetPosition().Copy64()
	d.OriginalPos = pos
	d.CurrentPos = pos
	d.BaseTime = o.GetStartTime()
	d.BaseEndTime = o.GetEndTime()
	d.Time = float64(d.BaseTime)
	d.EndTime = float64(d.BaseEndTime)

	switch s := o.(type) {
	case *objects.Slider:
		d.Kind = KindSlider
		d.Slider = s
		d.Repeat = mutils.Max(s.Repeat, 1)
		d.BaseSpanDuration = s.SliderTimeWithoutRepeats
		d.SpanDuration = s.SliderTimeWithoutRepeats
		d.BaseScoringTimes = s.ScoringTimes
		d.ScoringTimes = s.ScoringTimes
		d.BaseEndTime = d.BaseTime + int64(s.SliderTime)
		d.EndTime = float64(d.BaseEndTime)
	case *objects.Spinner:
		d.Kind = KindSpinner
	default:
		d.Kind = KindCircle
	}

	return d
}

// normalize scales a position by 50/circleRadius so every skill computation
// operates in a CS-invariant space.
func normalize(p vector.Vector2d, circleRadius float64) vector.Vector2d {
	if circleRadius <= 0 {
		return p
	}

	return p.Scl(normalizedRadius / circleRadius)
}

// cursorEndPos returns the position the cursor is assumed to end up at
// after object o: the lazy slider-cursor end for sliders, or the object's
// own normalized position otherwise.
func cursorEndPos(o *DiffObject) vector.Vector2d {
	if o.Kind == KindSlider && o.LazyCalcFinished {
		return o.LazyEndPos
	}

	return o.NormStart
}

// smallCircleBonus implements the aim skill's small-circle multiplier.
func smallCircleBonus(circleRadius float64) float64 {
	return mutils.Max(1, 1+(30-circleRadius)/40)
}

// Preprocess fills in the per-object geometry: normalized
// position, jump/travel distance, angle, and (via slider cursor tracking)
// the lazy travel state for slider objects. objs must already be sorted
// and stacked/speed-rescaled.
func Preprocess(objs []*DiffObject, circleRadius float64) {
	bonus := smallCircleBonus(circleRadius)

	for i, o := range objs {
		o.Index = i
		o.NormStart = normalize(o.CurrentPos, circleRadius)
		o.SmallCircleBonus = bonus
		o.Angle = -1

		if i == 0 {
			o.MinJumpTime = 0
			continue
		}

		prev := objs[i-1]

		o.DeltaTime = mutils.Max(o.Time-prev.EndTime, 0)
		minJumpTime := mutils.Max(25, o.DeltaTime)

		prevCursor := cursorEndPos(prev)

		o.JumpDistance = o.NormStart.Dst(prevCursor)
		o.MinJumpDistance = o.JumpDistance
		o.MinJumpTime = minJumpTime

		if prev.Kind == KindSlider {
			buildLazySliderCursor(prev, circleRadius)

			repeatBonusExp := 1 + float64(prev.Repeat-1)/2.5
			o.TravelDistance = math.Pow(prev.LazyTravelDist, math.Pow(repeatBonusExp, 1/2.5))
			o.TravelTime = mutils.Max(25, prev.LazyTravelTime)

			maxSliderRadius := circleRadius * 2.4
			assumedSliderRadius := circleRadius * 1.8
			o.MinJumpDistance = mutils.Max(0, o.JumpDistance-(maxSliderRadius-assumedSliderRadius))
		}

		if i >= 2 {
			pprev := objs[i-2]

			if prev.Kind != KindSpinner && pprev.Kind != KindSpinner {
				v1 := pprev.NormStart.Sub(prev.NormStart)
				v2 := o.NormStart.Sub(cursorEndPos(prev))

				o.Angle = math.Abs(math.Atan2(v1.Det(v2), v1.Dot(v2)))
			}
		}

		// Sliding window of size 3: release the curve of the object three
		// back so memory stays bounded on maps with thousands of sliders.
		if i >= 3 {
			if s, ok := objs[i-3].Source.(*objects.Slider); ok {
				s.ReleaseCurve()
			}
		}
	}
}
