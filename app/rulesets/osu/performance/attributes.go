// Package performance ties the difficulty-object builder and strain engine
// into the rating transforms and the pp calculator that produces osu!'s
// performance-points values.
package performance

import "github.com/neomodnet/neomod-sub003/app/beatmap/difficulty"

// DifficultyAttributes is the plain record the rating transforms produce:
// the rating-transformed star/aim/speed values plus the raw strain
// integrals, note-count estimators, and scoreV1 bookkeeping constants the pp
// calculator and batch recalculator both need.
type DifficultyAttributes struct {
	StarRating  float64
	AimRating   float64
	SpeedRating float64

	AimDifficulty                float64
	AimDifficultSliderCount      float64
	SpeedDifficulty               float64
	SpeedNoteCount                float64
	SliderFactor                  float64
	AimTopWeightedSliderFactor    float64
	SpeedTopWeightedSliderFactor  float64
	AimDifficultStrainCount       float64
	SpeedDifficultStrainCount     float64

	NestedScorePerObject      float64
	LegacyScoreBaseMultiplier float64
	SliderCount               int
	MaximumLegacyComboScore   int64

	ApproachRate      float64
	OverallDifficulty float64
}

// ScoreInputs is the play-specific input to the pp calculator.
type ScoreInputs struct {
	ModFlags  difficulty.Modifier
	Timescale float64
	AR, OD    float64

	NumHitObjects, NumCircles, NumSliders, NumSpinners int

	MaxPossibleCombo int64
	Combo            int64
	Misses           int64
	C300, C100, C50  int64

	LegacyTotalScore int64
	IsLegacyImport   bool
}

func (s ScoreInputs) totalHits() int64 {
	return s.C300 + s.C100 + s.C50 + s.Misses
}
