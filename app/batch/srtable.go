package batch

import (
	"math"

	"github.com/neomodnet/neomod-sub003/app/beatmap"
	"github.com/neomodnet/neomod-sub003/app/beatmap/difficulty"
	"github.com/neomodnet/neomod-sub003/app/rulesets/osu/performance"
)

// ARCSVariant is one of the three AR/CS override shapes the pre-computed
// table covers.
type ARCSVariant int

const (
	NoMod ARCSVariant = iota
	HardRock
	Easy
	arcsVariantCount
)

// tableSpeedCount is the number of clock-rate multipliers the table covers.
const tableSpeedCount = 9

// TableSpeeds are the nine clock-rate multipliers the table is built for.
var TableSpeeds = [tableSpeedCount]float64{0.75, 0.8, 0.9, 1.0, 1.1, 1.2, 1.3, 1.4, 1.5}

// SRTable is the 54-cell (3 AR/CS variants x 9 speeds x HD on/off)
// pre-computed star-rating table a beatmap row stores, so the song browser
// can show every common mod combination's SR without recomputing C4/C5.
type SRTable [arcsVariantCount][tableSpeedCount][2]float64

func (t *SRTable) Lookup(variant ARCSVariant, speed float64, hidden bool) (float64, bool) {
	idx, ok := speedIndex(speed)
	if !ok {
		return 0, false
	}

	hd := 0
	if hidden {
		hd = 1
	}

	return t[variant][idx][hd], true
}

// Flatten lays the table out as the flat 54-entry array DatabaseBeatmap
// stores it in: variant-major, then speed, then HD.
func (t SRTable) Flatten() [arcsVariantCount * tableSpeedCount * 2]float64 {
	var out [arcsVariantCount * tableSpeedCount * 2]float64

	i := 0
	for v := ARCSVariant(0); v < arcsVariantCount; v++ {
		for s := 0; s < tableSpeedCount; s++ {
			out[i] = t[v][s][0]
			out[i+1] = t[v][s][1]
			i += 2
		}
	}

	return out
}

// ApplyToBeatmap commits a freshly computed table and nomod star rating to
// the database row, bumping its algorithm version so BeatmapsNeedingMapCalc
// stops selecting it.
func ApplyToBeatmap(b *beatmap.DatabaseBeatmap, table SRTable) {
	b.StarRatingTable = table.Flatten()
	b.StarRatingNoMod = table[NoMod][3][0] // speed=1.0, HD=0
	b.AlgorithmVersion = CurrentAlgorithmVersion
}

// speedIndex returns the table slot closest to speed, never failing -- a
// caller handing back a score's exact custom-speed value still gets a
// usable lookup even if it falls between two table entries.
func speedIndex(speed float64) (int, bool) {
	best := 0
	bestDist := math.Abs(speed - TableSpeeds[0])

	for i, s := range TableSpeeds {
		if d := math.Abs(speed - s); d < bestDist {
			best, bestDist = i, d
		}
	}

	return best, true
}

func variantDifficulty(base *difficulty.Difficulty, variant ARCSVariant) *difficulty.Difficulty {
	var mods difficulty.Modifier

	switch variant {
	case HardRock:
		mods = difficulty.HardRock
	case Easy:
		mods = difficulty.Easy
	}

	d := difficulty.NewDifficulty(base.GetHPDrain(), base.GetCS(), base.GetOD(), base.GetAR())
	d.SetMods(mods)

	return d
}

// BuildSRTable computes the full 54-cell star-rating table: for each of the
// three AR/CS variants and nine speeds, build the difficulty objects once
// at that speed and compute both the HD=0 and HD=1 star ratings from the
// same raw strain values (ToAttributes doesn't depend on Hidden up to the
// rating transform, so the HD=1 cell is nearly free).
func BuildSRTable(c *beatmap.PrimitiveContainer, base *difficulty.Difficulty) SRTable {
	var table SRTable

	for v := ARCSVariant(0); v < arcsVariantCount; v++ {
		d := variantDifficulty(base, v)

		for i, speed := range TableSpeeds {
			d.SetCustomSpeed(speed)

			raw := performance.ComputeRaw(c, d)

			table[v][i][0] = raw.ToAttributes(false, false, false, false).StarRating
			table[v][i][1] = raw.ToAttributes(true, false, false, false).StarRating
		}
	}

	return table
}
