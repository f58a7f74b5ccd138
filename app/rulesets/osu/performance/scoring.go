package performance

import (
	"math"

	"github.com/neomodnet/neomod-sub003/app/beatmap/difficulty"
)

// LegacyScoreMultiplier computes the scoreV1 multiplier: a speed-rate curve
// (two variants, selected by isLegacyImport) plus flat per-mod adjustments.
func LegacyScoreMultiplier(mods difficulty.Modifier, speed float64, isLegacyImport bool) float64 {
	var mult float64

	switch {
	case isLegacyImport && speed > 1:
		mult = 1.12
	case isLegacyImport && speed < 1:
		mult = 0.30
	case isLegacyImport:
		mult = 1
	case speed > 1:
		mult = 0.24*speed + 0.76
	case speed < 1:
		mult = 0.008 * math.Exp(4.81588*speed)
	default:
		mult = 1
	}

	if mods.Active(difficulty.HardRock) {
		if mods.Active(difficulty.ScoreV2) {
			mult *= 1.1
		} else {
			mult *= 1.06
		}
	}

	if mods.Active(difficulty.Hidden) {
		mult *= 1.06
	}

	if mods.Active(difficulty.SpunOut) {
		mult *= 0.90
	}

	if mods.Active(difficulty.Relax) || mods.Active(difficulty.Relax2) {
		mult = 0
	}

	return mult
}

// ComboScore reconstructs the arithmetic-progression scoreV1 total at a
// given combo c, relative to relevantCombo (the map's max possible combo).
func ComboScore(relevantCombo, c, legacyBaseMultiplier float64) float64 {
	if relevantCombo <= 0 {
		return 0
	}

	return relevantCombo * (2*(relevantCombo-1) + (c/relevantCombo-1)*relevantCombo) * (c / relevantCombo) / 2 * 12 * legacyBaseMultiplier
}

// ScoreBasedMissCount estimates a miss count from the legacy scoreV1 total
// when no accuracy breakdown is available. expectedRemainingScore is taken
// to be one average scoreV1 miss-tier contribution (ten base points scaled
// by the legacy multiplier) -- the standalone quantity that makes the ratio
// well-formed.
func ScoreBasedMissCount(legacyTotalScore, relevantCombo, comboAchieved, legacyBaseMultiplier float64) float64 {
	scoreAtMaxCombo := ComboScore(relevantCombo, comboAchieved, legacyBaseMultiplier)

	denom := legacyTotalScore - scoreAtMaxCombo
	if denom <= 0 {
		return 0
	}

	expectedRemaining := legacyBaseMultiplier * 10

	return expectedRemaining / denom
}
