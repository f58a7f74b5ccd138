package performance

import (
	"github.com/neomodnet/neomod-sub003/app/beatmap"
	"github.com/neomodnet/neomod-sub003/app/beatmap/difficulty"
	"github.com/neomodnet/neomod-sub003/app/rulesets/osu/performance/preprocessing"
	"github.com/neomodnet/neomod-sub003/app/rulesets/osu/performance/skills"
)

// RawDifficulty bundles the strain engine's output with everything the
// rating transform needs except the hidden, touch-device, relax and
// autopilot flags, which ToAttributes takes as arguments. The raw skill values don't
// depend on whether Hidden is active, so a caller holding a RawDifficulty
// can produce both the HD=0 and HD=1 DifficultyAttributes via ToAttributes
// without rerunning difficulty-object construction or the strain engine --
// the cheap HD recompute the batch recalculator relies on.
type RawDifficulty struct {
	Result      skills.Result
	AdjAR       float64
	AdjOD       float64
	ObjectCount int
	SliderCount int
	MaxCombo    float64
	Mods        difficulty.Modifier
	Speed       float64
}

// ComputeRaw runs difficulty-object construction and the strain engine and
// returns everything the rating transform needs, without yet committing to
// a hidden/non-hidden variant.
func ComputeRaw(c *beatmap.PrimitiveContainer, diff *difficulty.Difficulty) RawDifficulty {
	return ComputeRawFromObjects(preprocessing.Build(c, diff, c.FormatVersion), c, diff)
}

// ComputeRawFromObjects is ComputeRaw's strain-engine-onward half, split out
// so a caller holding a cached difficulty-object array (the async pp
// cache's hitobject cache) can skip re-running difficulty-object
// construction.
func ComputeRawFromObjects(objs []*preprocessing.DiffObject, c *beatmap.PrimitiveContainer, diff *difficulty.Difficulty) RawDifficulty {
	speed := diff.GetSpeed()
	hitWindow300 := difficulty.ODToHitWindow300(diff.GetOD()) / speed

	return RawDifficulty{
		Result:      skills.Compute(objs, hitWindow300),
		AdjAR:       difficulty.ARWithSpeed(diff.GetAR(), speed),
		AdjOD:       difficulty.AdjustODByClock(diff.GetOD(), speed),
		ObjectCount: len(objs),
		SliderCount: c.NumSliders,
		MaxCombo:    float64(c.MaxCombo()),
		Mods:        diff.Mods,
		Speed:       speed,
	}
}

// ToAttributes applies the rating transform for a given hidden flag, plus
// the scoreV1 bookkeeping constants the pp calculator and batch
// recalculator need.
func (r RawDifficulty) ToAttributes(hidden, touchDevice, relax, autopilot bool) DifficultyAttributes {
	res := r.Result

	params := RatingParams{
		ObjectCount: float64(r.ObjectCount),
		AdjAR:       r.AdjAR,
		AdjOD:       r.AdjOD,
		Hidden:      hidden,
		TouchDevice: touchDevice,
		Relax:       relax,
		Autopilot:   autopilot,
	}

	aimRating := computeAimRating(res.AimWithSliders, params)
	speedRating := computeSpeedRating(res.Speed, params)
	starRating := CombinedStarRating(aimRating, speedRating)
	sliderFactor := SliderFactor(res.AimNoSliders, res.AimWithSliders)

	legacyBaseMultiplier := LegacyScoreMultiplier(r.Mods, r.Speed, false)

	return DifficultyAttributes{
		StarRating:                   starRating,
		AimRating:                    aimRating,
		SpeedRating:                  speedRating,
		AimDifficulty:                res.AimWithSliders,
		AimDifficultSliderCount:      res.AimDifficultSliderCount,
		SpeedDifficulty:              res.Speed,
		SpeedNoteCount:               res.SpeedNoteCount,
		SliderFactor:                 sliderFactor,
		AimTopWeightedSliderFactor:   res.AimTopWeightedSliderFactor,
		SpeedTopWeightedSliderFactor: res.SpeedTopWeightedSliderFactor,
		AimDifficultStrainCount:      res.AimDifficultStrainCount,
		SpeedDifficultStrainCount:    res.SpeedDifficultStrainCount,
		NestedScorePerObject:         10,
		LegacyScoreBaseMultiplier:    legacyBaseMultiplier,
		SliderCount:                  r.SliderCount,
		MaximumLegacyComboScore:      int64(ComboScore(r.MaxCombo, r.MaxCombo, legacyBaseMultiplier)),
		ApproachRate:                 r.AdjAR,
		OverallDifficulty:            r.AdjOD,
	}
}

// ComputeDifficulty runs the full difficulty pipeline against a parsed
// beatmap and a resolved mod/difficulty configuration: difficulty-object
// construction and stacking, the strain engine, and the rating transforms
// that turn raw strain into star ratings.
func ComputeDifficulty(c *beatmap.PrimitiveContainer, diff *difficulty.Difficulty) DifficultyAttributes {
	raw := ComputeRaw(c, diff)

	return raw.ToAttributes(
		diff.CheckModActive(difficulty.Hidden),
		diff.CheckModActive(difficulty.TouchDevice),
		diff.CheckModActive(difficulty.Relax),
		diff.CheckModActive(difficulty.Relax2),
	)
}

// ComputeDifficultyIncremental runs the same pipeline but stops the strain
// engine at upToObjectIndex, for the live calculator that re-evaluates a
// play as hit objects arrive. The supplied *skills.Engine may be reused
// across calls with the same objs slice; if upToObjectIndex is lower than
// on the previous call, Advance restarts the engine from object zero.
func ComputeDifficultyIncremental(c *beatmap.PrimitiveContainer, diff *difficulty.Difficulty, objs []*preprocessing.DiffObject, engine *skills.Engine, upToObjectIndex int) DifficultyAttributes {
	speed := diff.GetSpeed()

	raw := RawDifficulty{
		Result:      engine.Advance(objs, upToObjectIndex),
		AdjAR:       difficulty.ARWithSpeed(diff.GetAR(), speed),
		AdjOD:       difficulty.AdjustODByClock(diff.GetOD(), speed),
		ObjectCount: upToObjectIndex,
		SliderCount: c.NumSliders,
		MaxCombo:    float64(c.MaxCombo()),
		Mods:        diff.Mods,
		Speed:       speed,
	}

	return raw.ToAttributes(
		diff.CheckModActive(difficulty.Hidden),
		diff.CheckModActive(difficulty.TouchDevice),
		diff.CheckModActive(difficulty.Relax),
		diff.CheckModActive(difficulty.Relax2),
	)
}
