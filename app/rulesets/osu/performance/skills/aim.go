package skills

import (
	"math"

	"github.com/neomodnet/neomod-sub003/app/rulesets/osu/performance/preprocessing"
	"github.com/neomodnet/neomod-sub003/framework/math/mutils"
)

const (
	wideAngleLow  = 40 * math.Pi / 180
	wideAngleHigh = 140 * math.Pi / 180
)

// AimStrain computes one object's raw aim contribution: velocity, a wide-angle bonus damped by how wide the previous angle was, an
// acute-angle bonus gated on near-equal Δt and a 100-200px jump window, a
// wiggle bonus for short back-and-forth jumps, a velocity-change bonus, and
// (aim-with-sliders only) a slider-travel bonus -- all scaled by the
// small-circle bonus.
func AimStrain(withSliders bool, cur, prev *preprocessing.DiffObject) float64 {
	if prev == nil {
		return 0
	}

	velocity := cur.JumpDistance / cur.MinJumpTime

	aimStrain := velocity

	if withSliders {
		aimStrain += cur.TravelDistance / cur.TravelTime
	}

	if prev.MinJumpTime > 0 && cur.Angle >= 0 && prev.Angle >= 0 {
		prevVelocity := prev.JumpDistance / prev.MinJumpTime

		wideAngleBonus := mutils.Smoothstep(cur.Angle, wideAngleLow, wideAngleHigh)
		wideAngleBonus *= 1 - mutils.Smoothstep(prev.Angle, wideAngleLow, wideAngleHigh)*0.5
		aimStrain += mutils.Min(velocity, prevVelocity) * wideAngleBonus

		timeRatio := mutils.ClampF(1-math.Abs(cur.MinJumpTime-prev.MinJumpTime)/mutils.Max(prev.MinJumpTime, 1), 0, 1)

		if cur.Angle < wideAngleLow && cur.MinJumpDistance >= 100 && cur.MinJumpDistance <= 200 {
			acuteAngleBonus := (1 - cur.Angle/wideAngleLow) * timeRatio
			aimStrain += mutils.Min(velocity, prevVelocity) * acuteAngleBonus * 1.5
		}

		if cur.JumpDistance > 0 && prev.JumpDistance > 0 {
			small := mutils.Min(cur.JumpDistance, prev.JumpDistance)
			large := mutils.Max(cur.JumpDistance, prev.JumpDistance)
			wiggleBonus := mutils.ClampF(small/large, 0, 1) * mutils.Smoothstep(cur.Angle, 110*math.Pi/180, 160*math.Pi/180)
			aimStrain += wiggleBonus * mutils.Min(velocity, prevVelocity) * 0.5
		}

		velocityChange := math.Abs(prevVelocity - velocity)
		peakVelocity := mutils.Max(mutils.Max(velocity, prevVelocity), 1.0)
		aimStrain += mutils.ClampF(velocityChange/peakVelocity, 0, 1) * mutils.Min(velocity, prevVelocity) * 0.5
	}

	return aimStrain * cur.SmallCircleBonus
}
