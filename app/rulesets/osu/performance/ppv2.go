package performance

import (
	"math"

	"github.com/neomodnet/neomod-sub003/app/beatmap/difficulty"
	"github.com/neomodnet/neomod-sub003/framework/math/mutils"
)

// PPv2Results holds the per-skill pp breakdown alongside the total, mirroring
// how callers usually want both the headline number and its components
// (UI panels, score-screen breakdowns).
type PPv2Results struct {
	Aim      float64
	Speed    float64
	Accuracy float64
	Total    float64
}

// ComputePP is the pure function of (DifficultyAttributes, ScoreInputs) ->
// pp.
func ComputePP(attr DifficultyAttributes, s ScoreInputs) PPv2Results {
	totalHits := s.totalHits()
	if totalHits <= 0 {
		return PPv2Results{}
	}

	accuracy := (300*float64(s.C300) + 100*float64(s.C100) + 50*float64(s.C50)) / (300 * float64(totalHits))

	effMiss := effectiveMissCount(attr, s)

	multiplier := 1.14

	if s.ModFlags.Active(difficulty.NoFail) {
		multiplier *= mutils.Max(0.9, 1-0.02*effMiss)
	}

	if s.ModFlags.Active(difficulty.SpunOut) {
		multiplier *= 1 - math.Pow(float64(s.NumSpinners)/float64(totalHits), 0.85)
	}

	aimValue := computeAimValue(attr, s, effMiss, accuracy)
	speedValue := computeSpeedValue(attr, s, effMiss)
	accValue := computeAccuracyValue(attr, s, accuracy)

	total := math.Pow(math.Pow(aimValue, 1.1)+math.Pow(speedValue, 1.1)+math.Pow(accValue, 1.1), 1/1.1) * multiplier

	return PPv2Results{Aim: aimValue, Speed: speedValue, Accuracy: accValue, Total: total}
}

// effectiveMissCount folds combo-based and score-based miss estimates
// together with the raw miss count into one effective value.
func effectiveMissCount(attr DifficultyAttributes, s ScoreInputs) float64 {
	effMiss := float64(s.Misses)

	comboThreshold := float64(s.MaxPossibleCombo) - 0.1*float64(attr.SliderCount)

	if s.Combo > 0 && float64(s.Combo) < comboThreshold {
		ratio := float64(s.MaxPossibleCombo) / mutils.Max(float64(s.Combo), 1)
		lifted := effMiss * ratio
		effMiss = mutils.ClampF(lifted, effMiss, float64(s.C50+s.C100)+effMiss)
	}

	if s.LegacyTotalScore > 0 {
		scoreMiss := ScoreBasedMissCount(float64(s.LegacyTotalScore), float64(s.MaxPossibleCombo), float64(s.Combo), attr.LegacyScoreBaseMultiplier)
		effMiss = mutils.Max(effMiss, mutils.Min(scoreMiss, float64(s.C50+s.C100)+float64(s.Misses)))
	}

	if s.ModFlags.Active(difficulty.Relax) {
		odWeight := mutils.ClampF(attr.OverallDifficulty/10, 0, 1)
		effMiss += float64(s.C100)*0.1*odWeight + float64(s.C50)*0.05*odWeight
	}

	return effMiss
}

// missPenalty is the shared (effMiss, topWeightedSliderFactor) -> [0,1]
// damping curve used by both aimValue and speedValue.
func missPenalty(effMiss, topWeightedSliderFactor float64) float64 {
	if effMiss <= 0 {
		return 1
	}

	return 0.96 / (1 + effMiss/(2*mutils.Max(topWeightedSliderFactor, 0.01)))
}

// sliderNerfFactor estimates how many sliders were likely not properly
// followed from the gap between max-possible and achieved combo, and nerfs
// the aim value proportionally using AimDifficultSliderCount and the
// observed drop in max-combo.
func sliderNerfFactor(attr DifficultyAttributes, s ScoreInputs) float64 {
	if attr.SliderCount == 0 || attr.AimDifficultSliderCount <= 0 {
		return 1
	}

	comboDrop := mutils.ClampF(float64(s.MaxPossibleCombo-s.Combo), 0, attr.AimDifficultSliderCount)
	nerf := 1 - comboDrop/attr.AimDifficultSliderCount*0.2

	return mutils.ClampF(nerf, 0.5, 1)
}

func computeAimValue(attr DifficultyAttributes, s ScoreInputs, effMiss, accuracy float64) float64 {
	aim := strainToPerf(attr.AimDifficulty * sliderNerfFactor(attr, s))
	aim *= lengthBonus(float64(s.NumHitObjects))
	aim *= missPenalty(effMiss, attr.AimTopWeightedSliderFactor)
	aim *= accuracy

	return aim
}

// speedDeviation estimates a scoreV1-window-scaled spread of hit timing
// from the miss ratio; it is the quantity speedValue's
// highDeviationMultiplier reacts to.
func speedDeviation(attr DifficultyAttributes, s ScoreInputs) float64 {
	total := s.totalHits()
	if total <= 0 {
		return math.NaN()
	}

	hitWindow300 := difficulty.ODToHitWindow300(attr.OverallDifficulty)
	missRatio := float64(s.Misses) / float64(total)

	return hitWindow300 * (0.5 + missRatio)
}

func highDeviationMultiplier(deviation float64) float64 {
	return mutils.ClampF(1-deviation/500, 0.1, 1)
}

func relevantAccuracyShape(s ScoreInputs) float64 {
	total := s.totalHits()
	if total <= 0 {
		return 0
	}

	return mutils.ClampF(float64(s.C300)/float64(total), 0, 1)
}

func computeSpeedValue(attr DifficultyAttributes, s ScoreInputs, effMiss float64) float64 {
	if s.ModFlags.Active(difficulty.Relax) {
		return 0
	}

	deviation := speedDeviation(attr, s)
	if math.IsNaN(deviation) {
		return 0
	}

	speed := strainToPerf(attr.SpeedDifficulty)
	speed *= lengthBonus(float64(s.NumHitObjects))
	speed *= missPenalty(effMiss, attr.SpeedTopWeightedSliderFactor)
	speed *= highDeviationMultiplier(deviation)
	speed *= relevantAccuracyShape(s)
	speed *= 1 + attr.OverallDifficulty*attr.OverallDifficulty/750

	if s.ModFlags.Active(difficulty.Singletap) {
		speed *= 1.25
	}

	if s.ModFlags.Active(difficulty.NoKeylock) {
		speed *= 0.5
	}

	return speed
}

func computeAccuracyValue(attr DifficultyAttributes, s ScoreInputs, accuracy float64) float64 {
	if s.ModFlags.Active(difficulty.Relax) {
		return 0
	}

	accValue := math.Pow(1.52163, attr.OverallDifficulty) * math.Pow(accuracy, 24) * 2.83
	accValue *= mutils.Min(1.15, math.Pow(float64(s.NumCircles)/1000, 0.3))

	if s.ModFlags.Active(difficulty.Hidden) {
		accValue *= 1 + 0.08*mutils.ReverseLerp(attr.ApproachRate, 11.5, 10)
	}

	if s.ModFlags.Active(difficulty.Flashlight) {
		accValue *= 1.02
	}

	return accValue
}
