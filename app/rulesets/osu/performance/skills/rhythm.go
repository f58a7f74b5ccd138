package skills

import (
	"math"

	"github.com/neomodnet/neomod-sub003/app/rulesets/osu/performance/preprocessing"
	"github.com/neomodnet/neomod-sub003/framework/math/mutils"
)

const (
	rhythmHistoryObjects = 32
	rhythmHistoryMS      = 5000.0
)

// RhythmMultiplier walks back up to 32 objects or 5000ms accumulating
// sqrt(effectiveRatio*startRatio), weighted by a historical decay and a
// same-length-island repeat penalty, to reward patterns whose rhythm
// deviates from a constant tapping speed.
//
// An island is a run of consecutive deltas whose ratio to the previous
// delta stays above 0.85 -- a near-constant local tempo. Repeated islands
// of the same length are penalized by how many times that length has
// already been seen, so a long run of identical rhythmic groups doesn't
// keep paying out the same bonus.
func RhythmMultiplier(objs []*preprocessing.DiffObject, i int, hitWindow300 float64) float64 {
	cur := objs[i]
	if i == 0 || cur.DeltaTime <= 0 {
		return 1
	}

	var rhythm, elapsed, historicalDecay float64 = 0, 0, 1

	islandLength := 0
	islandCount := map[int]int{}

	for n := i; n > 0 && i-n < rhythmHistoryObjects && elapsed < rhythmHistoryMS; n-- {
		delta := objs[n].DeltaTime
		prevDelta := objs[n-1].DeltaTime

		elapsed += delta

		if delta <= 0 || prevDelta <= 0 {
			break
		}

		ratio := mutils.Min(delta, prevDelta) / mutils.Max(delta, prevDelta)

		windowPenalty := mutils.ClampF(1-math.Abs(delta-prevDelta)/mutils.Max(hitWindow300, 1), 0, 1)
		fractional := ratio - math.Floor(ratio+0.5)
		bellCurve := math.Exp(-fractional * fractional * 8)
		effectiveRatio := windowPenalty * bellCurve

		startRatio := mutils.ClampF(delta/mutils.Max(hitWindow300, 1), 0, 1)

		if ratio > 0.85 {
			islandLength++
		} else {
			islandLength = 0
		}

		repeatPenalty := 1.0
		if islandLength > 0 {
			islandCount[islandLength]++
			repeatPenalty = 1.0 / float64(islandCount[islandLength])
		}

		historicalDecay *= 0.9

		rhythm += math.Sqrt(effectiveRatio*startRatio) * historicalDecay * repeatPenalty
	}

	return 1 + mutils.ClampF(rhythm, 0, 1.5)/10
}
