package beatmap

import (
	"errors"
	"sync"
)

// ErrMetadataOnSet is the sentinel for per-difficulty metadata requested on
// a set (rather than one of its owned difficulties) -- API misuse, not a
// parse failure. No accessor in this package returns it.
var ErrMetadataOnSet = errors.New("beatmap: metadata requested on a set, not a difficulty")

// BeatmapSet owns 1..N DatabaseBeatmap difficulties sharing audio,
// background and metadata. The set is the sole owner; a difficulty keeps a
// non-owning pointer back to its set (see Set) plus its index in the set's
// Difficulties slice.
type BeatmapSet struct {
	Path         string
	Difficulties []*DatabaseBeatmap
}

// DatabaseBeatmap is a single difficulty: either a leaf with real header
// fields attached to its owning set, or (before BeatmapSet.AddDifficulty,
// when Set returns nil) used transiently on its own.
type DatabaseBeatmap struct {
	Header HeaderFields

	MD5      string
	FilePath string

	StarRatingNoMod float64
	StarRatingTable [54]float64 // filled by the batch recalculator
	AlgorithmVersion int

	NumCircles, NumSliders, NumSpinners int
	LengthMS                           int64
	MinBPM, MaxBPM, MostCommonBPM       float64

	set      *BeatmapSet
	setIndex int
}

// PeppyOverride is the per-difficulty snapshot recorded in
// Database.PeppyOverrides every time a batch pass recomputes a peppy
// difficulty's header-derived metadata (a BPM/star-rating refresh). It
// exists separately from DatabaseBeatmap so a caller can diff "what changed
// this pass" without holding the difficulties lock.
type PeppyOverride struct {
	NumCircles, NumSliders, NumSpinners int
	LengthMS                            int64
	StarRatingNoMod                     float64
	MinBPM, MaxBPM, MostCommonBPM       float64
}

// Database owns the three tables the batch recalculator and song browser
// share, each behind its own lock: DifficultiesMtx, StarRatingsMtx and
// PeppyOverridesMtx, always acquired in that order when multiple are
// needed. Star ratings are kept separate from the difficulty row itself
// because score-side readers (live pp, leaderboards) only ever need
// StarRatingTable, not the rest of the header, and shouldn't contend with a
// batch pass rewriting it.
type Database struct {
	DifficultiesMtx   sync.RWMutex
	StarRatingsMtx    sync.RWMutex
	PeppyOverridesMtx sync.RWMutex

	difficulties   map[string]*DatabaseBeatmap
	starRatings    map[string][54]float64
	peppyOverrides map[string]PeppyOverride
}

func NewDatabase() *Database {
	return &Database{
		difficulties:   make(map[string]*DatabaseBeatmap),
		starRatings:    make(map[string][54]float64),
		peppyOverrides: make(map[string]PeppyOverride),
	}
}

// AddDifficulty registers diff under its MD5 for later lookup by
// ApplyBatchResult.
func (db *Database) AddDifficulty(diff *DatabaseBeatmap) {
	db.DifficultiesMtx.Lock()
	defer db.DifficultiesMtx.Unlock()

	db.difficulties[diff.MD5] = diff
}

// Difficulty returns the registered difficulty for md5, or nil if unknown.
func (db *Database) Difficulty(md5 string) *DatabaseBeatmap {
	db.DifficultiesMtx.RLock()
	defer db.DifficultiesMtx.RUnlock()

	return db.difficulties[md5]
}

// StarRatingTable returns the cached 54-cell table for md5, or the zero
// table and false if nothing has been computed for it yet.
func (db *Database) StarRatingTable(md5 string) ([54]float64, bool) {
	db.StarRatingsMtx.RLock()
	defer db.StarRatingsMtx.RUnlock()

	t, ok := db.starRatings[md5]
	return t, ok
}

// PeppyOverrideFor returns the most recently recorded override snapshot for
// md5, or the zero value and false if none was ever recorded.
func (db *Database) PeppyOverrideFor(md5 string) (PeppyOverride, bool) {
	db.PeppyOverridesMtx.RLock()
	defer db.PeppyOverridesMtx.RUnlock()

	o, ok := db.peppyOverrides[md5]
	return o, ok
}

// ApplyBatchResult commits one beatmap's freshly computed star-rating table
// and header-derived metadata. Locks are always taken in the canonical
// difficulties -> star ratings -> peppy overrides order, matching every
// other path through Database so two goroutines can never deadlock
// acquiring them in opposite orders. nomod is
// the speed=1.0/HD=0 cell, already resolved by the caller (SRTable.Lookup
// or an equivalent direct index) since Database has no notion of the
// SRTable layout itself.
func (db *Database) ApplyBatchResult(md5 string, table [54]float64, nomod float64, numCircles, numSliders, numSpinners int, lengthMS int64, minBPM, maxBPM, avgBPM float64) {
	db.DifficultiesMtx.Lock()
	diff := db.difficulties[md5]
	if diff != nil {
		diff.StarRatingTable = table
		diff.StarRatingNoMod = nomod
		diff.AlgorithmVersion = CurrentBatchAlgorithmVersion

		if numCircles > 0 {
			diff.NumCircles = numCircles
		}
		if numSliders > 0 {
			diff.NumSliders = numSliders
		}
		if numSpinners > 0 {
			diff.NumSpinners = numSpinners
		}
		if lengthMS > 0 {
			diff.LengthMS = lengthMS
		}
		if minBPM != 0 {
			diff.MinBPM = minBPM
		}
		if maxBPM != 0 {
			diff.MaxBPM = maxBPM
		}
		if avgBPM != 0 {
			diff.MostCommonBPM = avgBPM
		}
	}
	db.DifficultiesMtx.Unlock()

	db.StarRatingsMtx.Lock()
	db.starRatings[md5] = table
	db.StarRatingsMtx.Unlock()

	db.PeppyOverridesMtx.Lock()
	db.peppyOverrides[md5] = PeppyOverride{
		NumCircles:     numCircles,
		NumSliders:     numSliders,
		NumSpinners:    numSpinners,
		LengthMS:       lengthMS,
		StarRatingNoMod: nomod,
		MinBPM:         minBPM,
		MaxBPM:         maxBPM,
		MostCommonBPM:  avgBPM,
	}
	db.PeppyOverridesMtx.Unlock()
}

// CurrentBatchAlgorithmVersion mirrors batch.CurrentAlgorithmVersion without
// introducing an import cycle (batch already imports this package for
// DatabaseBeatmap); callers that need them to agree assert so in their own
// tests.
const CurrentBatchAlgorithmVersion = 1

func NewBeatmapSet(path string) *BeatmapSet {
	return &BeatmapSet{Path: path}
}

// AddDifficulty attaches diff to the set, taking ownership and recording
// diff's back-index.
func (s *BeatmapSet) AddDifficulty(diff *DatabaseBeatmap) {
	diff.set = s
	diff.setIndex = len(s.Difficulties)
	s.Difficulties = append(s.Difficulties, diff)
}

// Set returns the owning set, or nil if this difficulty hasn't been
// attached to one yet.
func (d *DatabaseBeatmap) Set() *BeatmapSet {
	return d.set
}

// RepresentativeArtist/Title pull the set's first difficulty's metadata --
// every difficulty in a set shares audio/background/metadata by
// convention, so any sibling (by default the first) is representative.
func (s *BeatmapSet) RepresentativeArtist() string {
	if len(s.Difficulties) == 0 {
		return ""
	}

	return s.Difficulties[0].Header.Artist
}

func (s *BeatmapSet) RepresentativeTitle() string {
	if len(s.Difficulties) == 0 {
		return ""
	}

	return s.Difficulties[0].Header.Title
}

// UpdateRepresentativeValues computes and stores nothing: its body is
// empty, so calling it any number of times leaves the set unchanged.
func (s *BeatmapSet) UpdateRepresentativeValues() {
	// Intentionally empty placeholder fold point: BPM range aggregation is
	// computed directly by the batch recalculator per map, since it
	// needs the parsed TimingPoints that aren't retained on DatabaseBeatmap.
	// Kept as a method so callers (song browser) have a stable idempotent
	// hook regardless of where the aggregation itself is computed.
}
