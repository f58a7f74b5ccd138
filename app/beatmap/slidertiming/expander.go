// Package slidertiming implements the slider timing expander: given a
// parsed slider and the sorted timing-point array, it derives slider
// duration, tick layout and the scoring-time table the difficulty engine
// and gameplay judge both consume.
package slidertiming

import (
	"errors"

	"github.com/neomodnet/neomod-sub003/app/beatmap/objects"
	"github.com/neomodnet/neomod-sub003/framework/math/mutils"
)

// ErrTooManyTicks is returned when a pathological slider would generate
// more than maxScoringTimes scoring events (|repeat| * tickCount > 32768).
var ErrTooManyTicks = errors.New("slidertiming: too many scoring times")

const (
	maxTicksPerSlider = 2048
	maxScoringTimes   = 32768
	tailLenience      = 36.0
	// tickTailGapMS is the flat time gap a candidate tick must clear before
	// the tail to be kept; a tick landing closer than this to the slider's
	// end is dropped.
	tickTailGapMS = 10.0
)

// TimingInfo is the resolved (beatLength, velocity multiplier) pair at a
// given point in time.
type TimingInfo struct {
	BeatLengthBase float64
	BeatLength     float64
	Multiplier     float64
	IsNaN          bool
}

// InfoAt walks the sorted timing-point array and resolves the effective
// beat length at time t.
func InfoAt(timingPoints []objects.TimingPoint, t int64) TimingInfo {
	var lastRed, lastGreen *objects.TimingPoint

	for i := range timingPoints {
		tp := &timingPoints[i]
		if tp.Offset > t {
			break
		}

		if tp.Uninherited {
			lastRed = tp
		} else {
			lastGreen = tp
		}
	}

	if lastRed == nil && len(timingPoints) > 0 {
		lastRed = &timingPoints[0]
	}

	info := TimingInfo{Multiplier: 1}

	if lastRed != nil {
		info.BeatLengthBase = lastRed.MsPerBeat
		info.IsNaN = lastRed.IsNaN
	} else {
		info.BeatLengthBase = 500
	}

	if lastGreen != nil && lastRed != nil && lastGreen.Offset > lastRed.Offset {
		info.Multiplier = lastGreen.VelocityMultiplier()
		info.IsNaN = info.IsNaN || lastGreen.IsNaN
	}

	info.BeatLength = info.BeatLengthBase * info.Multiplier

	return info
}

// Expand computes SliderTime, SliderTimeWithoutRepeats, Ticks and
// ScoringTimes on s in place.
func Expand(s *objects.Slider, timingPoints []objects.TimingPoint, sliderMultiplier, sliderTickRate float64, version int) error {
	info := InfoAt(timingPoints, s.StartTime)

	s.SliderTimeWithoutRepeats = mutils.Max(1, info.BeatLength*s.PixelLength/(100*sliderMultiplier))
	s.SliderTime = s.SliderTimeWithoutRepeats * float64(mutils.Max(s.Repeat, 1))

	tickDistance := (100 * sliderMultiplier) / mutils.Max(sliderTickRate, 0.01)
	if version >= 8 {
		tickDistance *= info.Multiplier
	}

	tickDistance = mutils.Max(tickDistance, 1)

	ticks := buildTicks(s.PixelLength, tickDistance, s.SliderTimeWithoutRepeats)

	repeat := mutils.Max(s.Repeat, 1)
	if int64(repeat)*int64(len(ticks)) > maxScoringTimes || len(ticks) > maxTicksPerSlider {
		return ErrTooManyTicks
	}

	s.Ticks = ticks

	events := buildScoringTimes(s.SliderTimeWithoutRepeats, s.SliderTime, repeat, ticks)
	if len(events) > maxScoringTimes {
		return ErrTooManyTicks
	}

	s.ScoringTimes = events
	s.SortScoringTimes()

	return nil
}

// buildTicks lays out tick times (ms offsets from the slider head, within
// one span) from head to tail, capping at maxTicksPerSlider and skipping a
// tick that would land within tickTailGapMS of the tail.
func buildTicks(pixelLength, tickDistance, spanDuration float64) []float64 {
	if pixelLength <= 0 || tickDistance <= 0 {
		return nil
	}

	step := tickDistance / pixelLength
	if step <= 0 || step >= 1 {
		return nil
	}

	var ticks []float64

	for f := step; f < 1; f += step {
		t := f * spanDuration

		if spanDuration-t < tickTailGapMS {
			break
		}

		ticks = append(ticks, t)

		if len(ticks) >= maxTicksPerSlider {
			break
		}
	}

	return ticks
}

// buildScoringTimes emits the relative-to-slider-start scoring event table:
// a repeat event at every interior span boundary, a mirrored tick event per
// span, and one tail-lenient end event.
func buildScoringTimes(spanDuration, totalDuration float64, repeat int, ticks []float64) []objects.SliderScoringTime {
	events := make([]objects.SliderScoringTime, 0, (repeat-1)+repeat*len(ticks)+1)

	for span := 0; span < repeat; span++ {
		spanStart := float64(span) * spanDuration

		for _, tick := range ticks {
			tt := tick
			if span%2 == 1 {
				tt = spanDuration - tick
			}

			events = append(events, objects.SliderScoringTime{Type: objects.ScoringTick, Time: spanStart + tt})
		}

		if span > 0 {
			events = append(events, objects.SliderScoringTime{Type: objects.ScoringRepeat, Time: spanStart})
		}
	}

	end := mutils.Max(0.5*totalDuration, totalDuration-tailLenience)
	events = append(events, objects.SliderScoringTime{Type: objects.ScoringEnd, Time: end})

	return events
}
