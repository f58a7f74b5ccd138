// Package skills implements the three-skill strain model used by osu!'s pp
// system: aim-with-sliders, aim-without-sliders and speed each share the
// strain-decay/peak-window machinery in this file, differing only in their
// per-object strain formula (aim.go, speed.go).
package skills

import (
	"math"
	"sort"

	"github.com/neomodnet/neomod-sub003/framework/math/mutils"
)

type Kind int

const (
	Speed Kind = iota
	AimWithSliders
	AimNoSliders
)

var decayBase = [...]float64{Speed: 0.30, AimWithSliders: 0.15, AimNoSliders: 0.15}

// SectionLength is the peak-strain window width in ms.
const SectionLength = 400.0

// Decay implements decay(type, Δt) = decay_base[type]^(Δt/1000).
func Decay(kind Kind, deltaMs float64) float64 {
	if deltaMs < 0 {
		deltaMs = 0
	}

	return math.Pow(decayBase[kind], deltaMs/1000.0)
}

// Accumulator folds a stream of per-object strain contributions into the
// 400ms peak-strain window list and keeps the full per-object
// running-strain series for the derived attributes computed from it.
type Accumulator struct {
	Kind       Kind
	Multiplier float64

	strain      float64
	sectionPeak float64
	sectionEnd  float64
	started     bool

	Peaks   []float64
	Strains []float64
}

func NewAccumulator(kind Kind, multiplier float64) *Accumulator {
	return &Accumulator{Kind: kind, Multiplier: multiplier}
}

// Add advances the accumulator by one object and returns its resulting
// running strain value: strain_i = strain_{i-1}*decay + obj*mult.
func (a *Accumulator) Add(time, deltaTime, objStrain float64) float64 {
	if !a.started {
		a.sectionEnd = math.Ceil(time/SectionLength) * SectionLength
		a.started = true
	}

	for time > a.sectionEnd {
		a.Peaks = append(a.Peaks, a.sectionPeak)
		a.strain *= Decay(a.Kind, a.sectionEnd-(time-deltaTime))
		a.sectionPeak = a.strain
		a.sectionEnd += SectionLength
	}

	a.strain = a.strain*Decay(a.Kind, deltaTime) + objStrain*a.Multiplier
	a.sectionPeak = mutils.Max(a.sectionPeak, a.strain)
	a.Strains = append(a.Strains, a.strain)

	return a.strain
}

// PeaksSnapshot returns the completed peak-strain sections plus the section
// currently being accumulated, without mutating the accumulator -- safe to
// call repeatedly as more objects are added, which is what the incremental
// live calculator does between enqueued hit objects.
func (a *Accumulator) PeaksSnapshot() []float64 {
	out := append([]float64(nil), a.Peaks...)
	if a.started {
		out = append(out, a.sectionPeak)
	}

	return out
}

// DifficultyValue computes the "reduced top sections" raw difficulty value:
// the top reducedSections peaks are scaled down toward reducedBaseline, the
// list is re-sorted, and a geometric series with ratio 0.9 is summed until
// a term falls below epsilon.
func DifficultyValue(peaks []float64, reducedSections int, reducedBaseline float64) float64 {
	if len(peaks) == 0 {
		return 0
	}

	sorted := append([]float64(nil), peaks...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	n := mutils.Min(reducedSections, len(sorted))

	for i := 0; i < n; i++ {
		scale := mutils.Lerp(reducedBaseline, 1.0, math.Log10(1+9*(float64(i)/float64(reducedSections))))
		sorted[i] *= scale
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	const epsilon = 1e-6

	var total, weight float64 = 0, 1

	for _, p := range sorted {
		term := p * weight
		if term < epsilon {
			break
		}

		total += term
		weight *= 0.9
	}

	return total
}

// CountAbove implements the Σ_i logistic(strain_i/maxStrain*12 - 6) family
// of derived-attribute sums: SpeedNoteCount and AimDifficultSliderCount,
// optionally restricted to a subset of strains by the caller (e.g.
// slider-only).
func CountAbove(strains []float64, maxStrain float64) float64 {
	var total float64

	for _, s := range strains {
		total += mutils.LogisticFromValue(s, maxStrain, 12, 6)
	}

	return total
}

// DifficultStrainCount implements the AimDifficultStrainCount /
// SpeedDifficultStrainCount formula: Σ_i 1.1*logistic(10*(strain_i/(difficultyValue/10) - 0.88)).
func DifficultStrainCount(strains []float64, difficultyValue float64) float64 {
	if difficultyValue <= 0 {
		return 0
	}

	consistentTop := difficultyValue / 10

	var total float64

	for _, s := range strains {
		total += 1.1 * mutils.Logistic(10*(s/consistentTop-0.88))
	}

	return total
}
