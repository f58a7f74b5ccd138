package objects

import "github.com/neomodnet/neomod-sub003/framework/math/mutils"

// TimingPoint is a single [TimingPoints] line. MsPerBeat >= 0
// marks an uninherited ("red") point defining BPM; MsPerBeat < 0 marks an
// inherited ("green") point defining a slider-velocity multiplier.
type TimingPoint struct {
	Offset       int64
	MsPerBeat    float64
	Meter        int
	SampleSet    SampleSet
	SampleIndex  int
	Volume       int
	Uninherited  bool
	Kiai         bool
	IsNaN        bool
}

// VelocityMultiplier uses the inherited-point slider-velocity multiplier
// convention: clamp(-msPerBeat, 10, 1000) / 100.
func (tp TimingPoint) VelocityMultiplier() float64 {
	if tp.Uninherited {
		return 1
	}

	return mutils.ClampF(-tp.MsPerBeat, 10, 1000) / 100
}

// Less implements the timing-point sort order: by offset, then
// uninherited-before-inherited, then sample set, sample index, kiai.
func Less(a, b TimingPoint) bool {
	if a.Offset != b.Offset {
		return a.Offset < b.Offset
	}

	if a.Uninherited != b.Uninherited {
		return a.Uninherited
	}

	if a.SampleSet != b.SampleSet {
		return a.SampleSet < b.SampleSet
	}

	if a.SampleIndex != b.SampleIndex {
		return a.SampleIndex < b.SampleIndex
	}

	if a.Kiai != b.Kiai {
		return !a.Kiai
	}

	return false
}
