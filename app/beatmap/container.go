// Package beatmap holds the materialized beatmap container and the
// set/difficulty ownership model. Parsing the raw bytes of a .osu file into
// a PrimitiveContainer is the job of the sibling parser package; this
// package only defines the shape of the result.
package beatmap

import "github.com/neomodnet/neomod-sub003/app/beatmap/objects"

// HeaderFields are the beatmap-level values parsed out of [General],
// [Metadata] and [Difficulty].
type HeaderFields struct {
	FormatVersion int
	Mode          int

	BackgroundFile string
	AudioFile      string
	StackLeniency  float64
	PreviewTime    int64

	SliderMultiplier float64
	SliderTickRate   float64

	CircleSize        float64
	ApproachRate      float64
	ApproachRateSet   bool
	OverallDifficulty float64
	HPDrainRate       float64

	Title, TitleUnicode   string
	Artist, ArtistUnicode string
	Creator               string
	Version               string
	Source                string
	Tags                  []string
	BeatmapID             int64
	BeatmapSetID          int64
}

// PrimitiveContainer is the output of the text parser: materialized hit
// objects, timing points, breaks and colours, plus the header fields, all
// sorted by time.
type PrimitiveContainer struct {
	HeaderFields

	TimingPoints []objects.TimingPoint
	Breaks       []objects.Break
	Colours      objects.Colours

	HitObjects []objects.IHitObject

	NumCircles, NumSliders, NumSpinners int

	MD5 string
}

// EffectiveAR returns the parsed approach rate, defaulting to OD for the
// old file format versions that predate a dedicated AR field.
func (h HeaderFields) EffectiveAR() float64 {
	if h.ApproachRateSet {
		return h.ApproachRate
	}

	return h.OverallDifficulty
}

// MaxCombo counts one combo per circle or spinner and one plus the number
// of scoring times per slider, over HitObjects. It is recomputed on every
// call; nothing is cached.
func (c *PrimitiveContainer) MaxCombo() int64 {
	var combo int64

	for _, o := range c.HitObjects {
		if s, ok := o.(*objects.Slider); ok {
			combo += 1 + int64(len(s.ScoringTimes))
		} else {
			combo++
		}
	}

	return combo
}
