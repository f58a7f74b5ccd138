package skills

import (
	"math"

	"github.com/neomodnet/neomod-sub003/app/rulesets/osu/performance/preprocessing"
	"github.com/neomodnet/neomod-sub003/framework/math/mutils"
)

// SpeedStrain computes object i's raw speed contribution and rhythm
// multiplier, storing both back onto the object for the derived-attribute
// pass. hitWindow300 is the speed-adjusted scoreV1 300 window
// (difficulty.ODToHitWindow300 after clock-rate adjustment).
func SpeedStrain(objs []*preprocessing.DiffObject, i int, hitWindow300 float64) float64 {
	if i == 0 {
		return 0
	}

	cur := objs[i]
	adjustedDeltaTime := mutils.Max(cur.MinJumpTime, 1)

	var nextDeltaTime float64
	if i+1 < len(objs) {
		nextDeltaTime = objs[i+1].DeltaTime
	} else {
		nextDeltaTime = adjustedDeltaTime
	}

	windowRatio := math.Pow(mutils.ClampF(adjustedDeltaTime/mutils.Max(hitWindow300, 1), 0, 1), 2)
	diff := math.Abs(nextDeltaTime - adjustedDeltaTime)
	doubletapness := 1 - math.Pow(adjustedDeltaTime/mutils.Max(adjustedDeltaTime, diff), 1-windowRatio)

	var speedBonus float64
	if adjustedDeltaTime < 75 {
		speedBonus = 0.75 * math.Pow((75-adjustedDeltaTime)/40, 2)
	}

	travelPlusJump := mutils.Min(125, cur.TravelDistance+cur.MinJumpDistance)
	distanceBonus := 0.8 * math.Pow(travelPlusJump/125, 3.95) * math.Sqrt(cur.SmallCircleBonus)

	rawSpeedStrain := (1 + speedBonus + distanceBonus) * 1000 * (1 - doubletapness) / adjustedDeltaTime

	rhythm := RhythmMultiplier(objs, i, hitWindow300)

	cur.RawSpeedStrain = rawSpeedStrain
	cur.Rhythm = rhythm

	return rawSpeedStrain * rhythm
}
