package objects

import (
	"sort"

	"github.com/neomodnet/neomod-sub003/app/beatmap/curves"
	"github.com/neomodnet/neomod-sub003/framework/math/vector"
)

// ScoringEventType orders a slider's scoring-time table: ticks sort before
// repeats which sort before the end event when their times tie.
type ScoringEventType int

const (
	ScoringTick ScoringEventType = iota
	ScoringRepeat
	ScoringEnd
)

type SliderScoringTime struct {
	Type ScoringEventType
	Time float64
}

// Slider is a slider primitive. The parser builds Curve eagerly for maps
// with fewer than 5000 sliders; otherwise BuildCurve materializes it on
// demand when stacking or the difficulty preprocessor first needs it.
type Slider struct {
	BaseObject

	CurveType     byte
	ControlPoints []vector.Vector2f
	Repeat        int
	PixelLength   float64

	EdgeSamples []HitSample
	HoverSample HitSample

	SliderTime               float64
	SliderTimeWithoutRepeats float64

	Ticks        []float64 // ms offsets from slider start, ascending
	ScoringTimes []SliderScoringTime

	// ScorePoints mirrors the stable client's combo-bookkeeping idiom: one
	// entry per scoring event. SortScoringTimes points it at the same slice
	// as ScoringTimes, which is what the max-combo counts read.
	ScorePoints []SliderScoringTime

	Curve      curves.SliderCurve
	curveBuilt bool

	EndPosition        vector.Vector2f
	StackedEndPosition vector.Vector2f
}

func NewSlider() *Slider {
	return &Slider{}
}

// BuildCurve lazily materializes Curve from CurveType/ControlPoints/PixelLength.
// Safe to call repeatedly; a no-op once built.
func (s *Slider) BuildCurve() {
	if s.curveBuilt {
		return
	}

	s.Curve = curves.NewSliderCurve(s.CurveType, s.ControlPoints, s.PixelLength)
	s.curveBuilt = true

	s.EndPosition = s.Curve.OriginalPointAt(1.0)
	s.StackedEndPosition = s.Curve.PointAt(1.0)
}

// ReleaseCurve drops the sampled curve, keeping only the control points --
// part of the sliding-window memory discipline for large maps.
func (s *Slider) ReleaseCurve() {
	s.Curve = nil
	s.curveBuilt = false
}

func (s *Slider) CurveBuilt() bool {
	return s.curveBuilt
}

// PositionAt returns the stacked position of the cursor at a given
// fraction-of-total-distance-travelled t in [0, 1], accounting for repeats
// (ping-ponging back and forth across spans).
func (s *Slider) PositionAt(t float64) vector.Vector2f {
	if s.Curve == nil {
		return s.StackedPos
	}

	span := t * float64(s.Repeat)
	spanIndex := int(span)
	spanT := span - float64(spanIndex)

	if spanIndex%2 == 1 {
		spanT = 1 - spanT
	}

	return s.Curve.PointAt(spanT)
}

func (s *Slider) SortScoringTimes() {
	sort.Slice(s.ScoringTimes, func(i, j int) bool {
		if s.ScoringTimes[i].Time != s.ScoringTimes[j].Time {
			return s.ScoringTimes[i].Time < s.ScoringTimes[j].Time
		}

		return s.ScoringTimes[i].Type < s.ScoringTimes[j].Type
	})

	s.ScorePoints = s.ScoringTimes
}
