package performance

import (
	"math"

	"github.com/neomodnet/neomod-sub003/framework/math/mutils"
)

// difficultyRating converts a raw strain value into a star-rating-scale number.
func difficultyRating(x float64) float64 {
	if x <= 0 {
		return 0
	}

	return 0.0675 * math.Sqrt(x)
}

// strainToPerf is the shared strain_to_perf(x) = (5*max(1,x/0.0675)-4)^3/100000
// curve used both by the combined star-rating formula and the per-skill pp
// values.
func strainToPerf(x float64) float64 {
	v := 5*mutils.Max(1, x/0.0675) - 4

	return v * v * v / 100000
}

// arFactor is zero in [8, 10.33], linear outside it.
func arFactor(adjAR float64) float64 {
	const low, high = 8.0, 10.33

	switch {
	case adjAR >= low && adjAR <= high:
		return 0
	case adjAR > high:
		return (adjAR - high) / (11 - high) * 0.3
	default:
		return (low - adjAR) / low * 0.3
	}
}

func lengthBonus(n float64) float64 {
	b := 0.95 + 0.4*mutils.ClampF(n/2000, 0, 1)
	if n > 2000 {
		b += math.Log10(n/2000) * 0.5
	}

	return b
}

func visibilityBonus(hidden bool, adjAR float64) float64 {
	if !hidden {
		return 0
	}

	return 0.04 * mutils.ClampF(12-adjAR, 0, 12)
}

func accuracyShape(adjOD float64) float64 {
	return mutils.ClampF(adjOD/40, 0, 0.25)
}

// RatingParams bundles the per-play, mod-dependent inputs computeAimRating
// and computeSpeedRating need beyond the raw strain value.
type RatingParams struct {
	ObjectCount float64
	AdjAR       float64
	AdjOD       float64
	Hidden      bool
	TouchDevice bool
	Relax       bool
	Autopilot   bool
}

// computeAimRating converts the raw aim strain into a star-rating-scale
// value: touch device lowers the result by raising it to the 0.8 power,
// autopilot zeroes it outright.
func computeAimRating(aimRaw float64, p RatingParams) float64 {
	if p.Autopilot {
		return 0
	}

	mult := 1 + arFactor(p.AdjAR)*lengthBonus(p.ObjectCount) + visibilityBonus(p.Hidden, p.AdjAR) + accuracyShape(p.AdjOD)
	rating := math.Cbrt(mutils.Max(mult, 0)) * difficultyRating(aimRaw)

	if p.TouchDevice {
		rating = math.Pow(rating, 0.8)
	}

	return rating
}

// computeSpeedRating converts the raw speed strain into a star-rating-scale
// value; relax zeroes it outright.
func computeSpeedRating(speedRaw float64, p RatingParams) float64 {
	if p.Relax {
		return 0
	}

	mult := 1 + arFactor(p.AdjAR)*lengthBonus(p.ObjectCount) + accuracyShape(p.AdjOD)

	return math.Cbrt(mutils.Max(mult, 0)) * difficultyRating(speedRaw)
}

// SliderFactor is the ratio between the no-sliders and with-sliders aim
// ratings, used by the pp calculator to scale down the aim bonus sliders
// otherwise contribute.
func SliderFactor(aimNoSliders, aim float64) float64 {
	if aim <= 0 {
		return 1
	}

	return difficultyRating(aimNoSliders) / difficultyRating(aim)
}

// CombinedStarRating folds the aim and speed ratings into the map's overall
// star rating.
func CombinedStarRating(aimRating, speedRating float64) float64 {
	if aimRating <= 0 && speedRating <= 0 {
		return 0
	}

	basePerf := math.Pow(math.Pow(strainToPerf(aimRating), 1.1)+math.Pow(strainToPerf(speedRating), 1.1), 1/1.1)

	const epsilon = 1e-5
	if basePerf <= epsilon {
		return 0
	}

	return math.Cbrt(1.14) * 0.0265 * (math.Cbrt(100000/math.Pow(2, 1/1.1)*basePerf) + 4)
}
