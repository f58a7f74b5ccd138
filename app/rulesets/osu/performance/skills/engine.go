package skills

import "github.com/neomodnet/neomod-sub003/app/rulesets/osu/performance/preprocessing"

const (
	aimReducedSections   = 10
	speedReducedSections = 5
	reducedBaseline      = 0.75

	aimMultiplier   = 26.0
	speedMultiplier = 1.47
)

// Result bundles the raw (pre-rating-transform) difficulty values and the
// derived attributes the strain engine produces.
type Result struct {
	AimWithSliders float64
	AimNoSliders   float64
	Speed          float64

	SpeedNoteCount               float64
	AimDifficultSliderCount      float64
	AimDifficultStrainCount      float64
	SpeedDifficultStrainCount    float64
	AimTopWeightedSliderFactor   float64
	SpeedTopWeightedSliderFactor float64
}

// Engine supports both one-shot (Compute) and incremental strain
// computation: repeated Advance calls on a growing object slice only
// process the newly appended suffix.
type Engine struct {
	aimWith, aimNo, speedAcc *Accumulator
	hitWindow300             float64
	processed                int
}

func NewEngine(hitWindow300 float64) *Engine {
	return &Engine{
		aimWith:      NewAccumulator(AimWithSliders, aimMultiplier),
		aimNo:        NewAccumulator(AimNoSliders, aimMultiplier),
		speedAcc:     NewAccumulator(Speed, speedMultiplier),
		hitWindow300: hitWindow300,
	}
}

// Compute runs the strain engine over the full, already-preprocessed
// difficulty object array in one shot.
func Compute(objs []*preprocessing.DiffObject, hitWindow300 float64) Result {
	e := NewEngine(hitWindow300)
	return e.Advance(objs, len(objs))
}

// Advance processes objs[e.processed:upTo] and returns the result
// accumulated over objs[:upTo] so far. If upTo is less than what this
// engine has already processed (the requested object index went backward,
// e.g. a restarted play in the live calculator), the engine is reset and
// recomputes from object zero.
func (e *Engine) Advance(objs []*preprocessing.DiffObject, upTo int) Result {
	if upTo < e.processed {
		*e = *NewEngine(e.hitWindow300)
	}

	for i := e.processed; i < upTo; i++ {
		var prev *preprocessing.DiffObject
		if i > 0 {
			prev = objs[i-1]
		}

		o := objs[i]

		withS := AimStrain(true, o, prev)
		noS := AimStrain(false, o, prev)
		sp := SpeedStrain(objs, i, e.hitWindow300)

		o.AimStrain = e.aimWith.Add(o.Time, o.DeltaTime, withS)
		o.AimNoSlidersStrain = e.aimNo.Add(o.Time, o.DeltaTime, noS)
		o.SpeedStrain = e.speedAcc.Add(o.Time, o.DeltaTime, sp)
	}

	e.processed = upTo

	return e.snapshot(objs[:upTo])
}

func (e *Engine) snapshot(objs []*preprocessing.DiffObject) Result {
	var res Result

	res.AimWithSliders = DifficultyValue(e.aimWith.PeaksSnapshot(), aimReducedSections, reducedBaseline)
	res.AimNoSliders = DifficultyValue(e.aimNo.PeaksSnapshot(), aimReducedSections, reducedBaseline)
	res.Speed = DifficultyValue(e.speedAcc.PeaksSnapshot(), speedReducedSections, reducedBaseline)

	res.SpeedNoteCount = CountAbove(e.speedAcc.Strains, maxOf(e.speedAcc.Strains))

	var aimSliderStrains, speedSliderStrains []float64

	for i, o := range objs {
		if o.Kind == preprocessing.KindSlider {
			aimSliderStrains = append(aimSliderStrains, e.aimWith.Strains[i])
			speedSliderStrains = append(speedSliderStrains, e.speedAcc.Strains[i])
		}
	}

	res.AimDifficultSliderCount = CountAbove(aimSliderStrains, maxOf(aimSliderStrains))

	res.AimDifficultStrainCount = DifficultStrainCount(e.aimWith.Strains, res.AimWithSliders)
	res.SpeedDifficultStrainCount = DifficultStrainCount(e.speedAcc.Strains, res.Speed)

	aimSliderDifficult := DifficultStrainCount(aimSliderStrains, res.AimWithSliders)
	if nonSlider := res.AimDifficultStrainCount - aimSliderDifficult; nonSlider > 1e-9 {
		res.AimTopWeightedSliderFactor = aimSliderDifficult / nonSlider
	}

	speedSliderDifficult := DifficultStrainCount(speedSliderStrains, res.Speed)
	if nonSlider := res.SpeedDifficultStrainCount - speedSliderDifficult; nonSlider > 1e-9 {
		res.SpeedTopWeightedSliderFactor = speedSliderDifficult / nonSlider
	}

	return res
}

func maxOf(v []float64) float64 {
	var m float64

	for _, x := range v {
		if x > m {
			m = x
		}
	}

	return m
}
