package preprocessing

import (
	"github.com/neomodnet/neomod-sub003/app/beatmap/objects"
	"github.com/neomodnet/neomod-sub003/framework/math/mutils"
)

const (
	lazyThresholdTickEnd = 90.0
	lazyThresholdRepeat  = 50.0
	lazyTailLenience     = 36.0
)

// buildLazySliderCursor walks a slider's scoring-time table and tracks the
// minimal cursor movement a player needs to make to keep following it.
// Idempotent: a second call on the same object is a no-op.
func buildLazySliderCursor(o *DiffObject, circleRadius float64) {
	if o.LazyCalcFinished || o.Slider == nil {
		return
	}

	s := o.Slider
	s.BuildCurve()

	totalDuration := o.SpanDuration * float64(o.Repeat)
	if totalDuration <= 0 {
		o.LazyEndPos = o.NormStart
		o.LazyTravelDist = 0
		o.LazyTravelTime = 25
		o.LazyCalcFinished = true

		return
	}

	head := o.NormStart
	cursor := head

	var travel float64

	var lastPoint = head

	for _, ev := range o.ScoringTimes {
		t := ev.Time / totalDuration
		if t < 0 {
			t = 0
		}

		if t > 1 {
			t = 1
		}

		point := normalize(s.PositionAt(t).Copy64(), circleRadius)
		lastPoint = point

		threshold := lazyThresholdTickEnd
		if ev.Type == objects.ScoringRepeat {
			threshold = lazyThresholdRepeat
		}

		diff := point.Sub(cursor)
		dist := diff.Len()

		if dist > threshold {
			pulled := point.Sub(diff.Nor().Scl(threshold))
			travel += pulled.Dst(cursor)
			cursor = pulled
		}
	}

	straightDist := lastPoint.Dst(head)
	if straightDist < travel {
		travel = straightDist
		cursor = lastPoint
	}

	o.LazyEndPos = cursor
	o.LazyTravelDist = travel
	o.LazyTravelTime = mutils.Max(totalDuration-lazyTailLenience, totalDuration/2)
	o.LazyCalcFinished = true
}
