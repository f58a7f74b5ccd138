package preprocessing

import (
	"github.com/neomodnet/neomod-sub003/app/beatmap"
	"github.com/neomodnet/neomod-sub003/app/beatmap/difficulty"
	"github.com/neomodnet/neomod-sub003/app/beatmap/objects"
)

// Build runs the full difficulty-object construction pipeline: construct
// the difficulty-object shells, sort by time, resolve stacking, rescale for
// the clock-rate mod, and fill in the cumulative max-combo and per-object
// geometry fields. The returned slice is ready for the strain engine.
func Build(c *beatmap.PrimitiveContainer, diff *difficulty.Difficulty, version int) []*DiffObject {
	objs := make([]*DiffObject, 0, len(c.HitObjects))
	for _, o := range c.HitObjects {
		objs = append(objs, NewDiffObject(o))
	}

	sortByTime(objs)

	circleRadius := diff.CircleRadius()
	approachTime := diff.PreemptForApproachTime()

	ResolveStacking(objs, circleRadius, approachTime, c.StackLeniency, version)
	rescaleForSpeed(objs, diff.GetSpeed())
	assignCumulativeCombo(objs)

	Preprocess(objs, circleRadius)

	return objs
}

func sortByTime(objs []*DiffObject) {
	// Insertion sort: the parser already emits hit objects in (mostly)
	// chronological order, so this only has real work to do on the rare
	// malformed map.
	for i := 1; i < len(objs); i++ {
		for j := i; j > 0 && objs[j].BaseTime < objs[j-1].BaseTime; j-- {
			objs[j], objs[j-1] = objs[j-1], objs[j]
		}
	}
}

// rescaleForSpeed divides every object's time fields by the clock-rate
// multiplier (DT/HT/custom speed): speeding up playback compresses elapsed
// time between objects.
func rescaleForSpeed(objs []*DiffObject, speed float64) {
	if speed == 1 {
		for _, o := range objs {
			o.Time = float64(o.BaseTime)
			o.EndTime = float64(o.BaseEndTime)
		}

		return
	}

	for _, o := range objs {
		o.Time = float64(o.BaseTime) / speed
		o.EndTime = float64(o.BaseEndTime) / speed

		if o.Kind == KindSlider {
			o.SpanDuration = o.BaseSpanDuration / speed

			rescaled := make([]objects.SliderScoringTime, len(o.BaseScoringTimes))
			for i, ev := range o.BaseScoringTimes {
				rescaled[i] = objects.SliderScoringTime{Type: ev.Type, Time: ev.Time / speed}
			}

			o.ScoringTimes = rescaled
		}
	}
}

// assignCumulativeCombo fills CumulativeCombo with the running combo total
// through and including each object: a circle or spinner contributes 1, a
// slider contributes 1 (head) + one per scoring time.
func assignCumulativeCombo(objs []*DiffObject) {
	var combo int64

	for _, o := range objs {
		switch o.Kind {
		case KindSlider:
			combo += 1 + int64(len(o.ScoringTimes))
		default:
			combo++
		}

		o.CumulativeCombo = combo
	}
}
