// Package batch implements the batch recalculator: it re-evaluates large
// sets of scores and beatmaps on a background worker pool, grouping work by
// beatmap file and by mod-parameter tuple so the expensive
// difficulty-object build happens once per group, and fills each beatmap's
// 54-cell pre-computed star-rating table.
package batch

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/dustin/go-humanize"
	_ "github.com/mattn/go-sqlite3"
	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/cpu"

	"github.com/neomodnet/neomod-sub003/app/beatmap"
	"github.com/neomodnet/neomod-sub003/app/beatmap/difficulty"
	"github.com/neomodnet/neomod-sub003/app/beatmap/parser"
	"github.com/neomodnet/neomod-sub003/app/rulesets/osu/performance"
)

// CurrentAlgorithmVersion is stamped onto every difficulty attribute row
// this build produces; a stored row with an older version needs recalc.
const CurrentAlgorithmVersion = 1

// ModKey is the mod-parameter tuple that invalidates the difficulty
// pipeline -- the key scores within a work item are grouped by.
type ModKey struct {
	AR, CS, OD, HP, Speed                  float64
	Hidden, Relax, Autopilot, TouchDevice bool
}

// ScoreWork is one score queued for recalculation.
type ScoreWork struct {
	ScoreID   int64
	MapMD5    string
	Mods      ModKey
	ModFlags  difficulty.Modifier
	Inputs    performance.ScoreInputs
	PPVersion int
}

// WorkItem groups every pending score for one beatmap file.
type WorkItem struct {
	MapMD5       string
	MapPath      string
	NeedsMapCalc bool
	Scores       []ScoreWork
}

// Result is published to the shared results buffer the main thread
// periodically drains.
type Result struct {
	MapMD5  string
	Table   *SRTable
	BPMMin  float64
	BPMMax  float64
	BPMAvg  float64
	Scores  map[int64]performance.PPv2Results
	Err     error
}

// Store is the external score/beatmap database collaborator; only its
// interface is specified here, not its backing storage.
type Store interface {
	ScoresNeedingRecalc(ctx context.Context) ([]ScoreWork, error)
	BeatmapsNeedingMapCalc(ctx context.Context) ([]string, error)
	MapPath(md5 string) (string, error)
}

// SQLiteStore is the default Store, backed by a database/sql handle over
// mattn/go-sqlite3.
type SQLiteStore struct {
	DB *sql.DB
}

func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	return &SQLiteStore{DB: db}, nil
}

func (s *SQLiteStore) ScoresNeedingRecalc(ctx context.Context) ([]ScoreWork, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, beatmap_md5, mods, ar, cs, od, hp, speed,
		       hidden, relax, autopilot, touch_device,
		       num_hit_objects, num_circles, num_sliders, num_spinners,
		       max_combo, combo, misses, c300, c100, c50,
		       legacy_total_score, is_legacy_import, ppv2_version, pp
		FROM scores
		WHERE ppv2_version < ? OR (raw_score > 0 AND pp = 0)`, CurrentAlgorithmVersion)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ScoreWork

	for rows.Next() {
		var w ScoreWork
		var pp float64

		if err := rows.Scan(
			&w.ScoreID, &w.MapMD5, &w.ModFlags,
			&w.Mods.AR, &w.Mods.CS, &w.Mods.OD, &w.Mods.HP, &w.Mods.Speed,
			&w.Mods.Hidden, &w.Mods.Relax, &w.Mods.Autopilot, &w.Mods.TouchDevice,
			&w.Inputs.NumHitObjects, &w.Inputs.NumCircles, &w.Inputs.NumSliders, &w.Inputs.NumSpinners,
			&w.Inputs.MaxPossibleCombo, &w.Inputs.Combo, &w.Inputs.Misses,
			&w.Inputs.C300, &w.Inputs.C100, &w.Inputs.C50,
			&w.Inputs.LegacyTotalScore, &w.Inputs.IsLegacyImport, &w.PPVersion, &pp,
		); err != nil {
			return nil, err
		}

		w.Inputs.ModFlags = w.ModFlags
		out = append(out, w)
	}

	return out, rows.Err()
}

func (s *SQLiteStore) BeatmapsNeedingMapCalc(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT md5 FROM beatmaps
		WHERE algorithm_version < ? OR nomod_star_rating = 0 OR sr_table IS NULL`, CurrentAlgorithmVersion)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string

	for rows.Next() {
		var md5 string
		if err := rows.Scan(&md5); err != nil {
			return nil, err
		}

		out = append(out, md5)
	}

	return out, rows.Err()
}

func (s *SQLiteStore) MapPath(md5 string) (string, error) {
	var path string

	row := s.DB.QueryRow(`SELECT path FROM beatmaps WHERE md5 = ?`, md5)
	if err := row.Scan(&path); err != nil {
		return "", err
	}

	return path, nil
}

// GroupWork flattens scores into one work item per beatmap file, leaves
// grouping by mod-parameter tuple to the per-item worker
// (groupScoresByMods), and sorts so items carrying scores run first.
func GroupWork(scoreWork []ScoreWork, needsMapCalc []string, pathOf func(md5 string) string) []*WorkItem {
	items := make(map[string]*WorkItem)

	order := func(md5 string) *WorkItem {
		if it, ok := items[md5]; ok {
			return it
		}

		it := &WorkItem{MapMD5: md5, MapPath: pathOf(md5)}
		items[md5] = it

		return it
	}

	for _, md5 := range needsMapCalc {
		order(md5).NeedsMapCalc = true
	}

	for _, w := range scoreWork {
		it := order(w.MapMD5)
		it.Scores = append(it.Scores, w)
	}

	out := make([]*WorkItem, 0, len(items))
	for _, it := range items {
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Scores) > len(out[j].Scores)
	})

	return out
}

// WorkerCount resolves the worker pool size: max(1, (logical_cpu-1)/2),
// or the caller's override when positive.
func WorkerCount(override int) int {
	if override > 0 {
		return override
	}

	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		n = runtime.NumCPU()
	}

	return max(1, (n-1)/2)
}

func max(a, b int) int {
	if a > b {
		return a
	}

	return b
}

// MapLoader reads the raw bytes of a beatmap file; supplied by the caller
// so the recalculator has no direct filesystem dependency.
type MapLoader func(path string) ([]byte, error)

// Recalculator drives the worker pool over a queue of WorkItems.
type Recalculator struct {
	Workers int
	Load    MapLoader

	mu      sync.Mutex
	results []Result
}

func NewRecalculator(workers int, load MapLoader) *Recalculator {
	return &Recalculator{Workers: workers, Load: load}
}

// Run processes items on r.Workers goroutines, polling ctx for cancellation
// at every object/slider/score boundary is delegated to the pipeline itself
// (ctx is threaded through Parse); results are appended to a mutex-guarded
// buffer that DrainResults periodically empties so the main thread can
// notify observers.
func (r *Recalculator) Run(ctx context.Context, items []*WorkItem) {
	sem := make(chan struct{}, max(1, r.Workers))
	var wg sync.WaitGroup

	for _, item := range items {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(item *WorkItem) {
			defer wg.Done()
			defer func() { <-sem }()

			res := r.process(ctx, item)

			r.mu.Lock()
			r.results = append(r.results, res)
			r.mu.Unlock()
		}(item)
	}

	wg.Wait()
}

func (r *Recalculator) process(ctx context.Context, item *WorkItem) Result {
	data, err := r.Load(item.MapPath)
	if err != nil {
		return Result{MapMD5: item.MapMD5, Err: err}
	}

	container, loadErr := parser.Parse(data, ctx.Done())
	if loadErr != parser.LoadOK {
		return Result{MapMD5: item.MapMD5, Err: loadErr}
	}

	res := Result{MapMD5: item.MapMD5, Scores: map[int64]performance.PPv2Results{}}

	if item.NeedsMapCalc {
		baseDiff := difficulty.NewDifficulty(container.HPDrainRate, container.CircleSize, container.OverallDifficulty, container.EffectiveAR())
		table := BuildSRTable(container, baseDiff)
		res.Table = &table
		res.BPMMin, res.BPMMax, res.BPMAvg = bpmRange(container)
	}

	for _, group := range groupScoresByMods(item.Scores) {
		// ModKey already carries the fully mod-resolved AR/CS/OD/HP for this
		// group, so the base values passed here need no further HR/EZ
		// adjustment inside Difficulty.
		d := difficulty.NewDifficulty(group[0].Mods.HP, group[0].Mods.CS, group[0].Mods.OD, group[0].Mods.AR)

		var mods difficulty.Modifier
		if group[0].Mods.Hidden {
			mods |= difficulty.Hidden
		}

		if group[0].Mods.Relax {
			mods |= difficulty.Relax
		}

		if group[0].Mods.Autopilot {
			mods |= difficulty.Relax2
		}

		if group[0].Mods.TouchDevice {
			mods |= difficulty.TouchDevice
		}

		d.SetMods(mods)
		d.SetCustomSpeed(group[0].Mods.Speed)

		attr := performance.ComputeDifficulty(container, d)

		for _, w := range group {
			if ctx.Err() != nil {
				return res
			}

			res.Scores[w.ScoreID] = performance.ComputePP(attr, w.Inputs)
		}
	}

	return res
}

func groupScoresByMods(scores []ScoreWork) map[ModKey][]ScoreWork {
	groups := make(map[ModKey][]ScoreWork)

	for _, s := range scores {
		groups[s.Mods] = append(groups[s.Mods], s)
	}

	return groups
}

func bpmRange(c *beatmap.PrimitiveContainer) (min, max, avg float64) {
	var total, weight float64

	for i, tp := range c.TimingPoints {
		if !tp.Uninherited || tp.MsPerBeat <= 0 {
			continue
		}

		bpm := 60000 / tp.MsPerBeat

		if min == 0 || bpm < min {
			min = bpm
		}

		if bpm > max {
			max = bpm
		}

		var span float64
		if i+1 < len(c.TimingPoints) {
			span = float64(c.TimingPoints[i+1].Offset - tp.Offset)
		} else {
			span = 1
		}

		total += bpm * span
		weight += span
	}

	if weight > 0 {
		avg = total / weight
	}

	return min, max, avg
}

// DrainResults atomically empties and returns the pending results buffer.
func (r *Recalculator) DrainResults() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.results
	r.results = nil

	return out
}

// SummaryTable renders a run's results as a human-readable progress table
// using tablewriter.
func SummaryTable(results []Result) string {
	buf := &bytes.Buffer{}
	table := tablewriter.NewWriter(buf)
	table.SetHeader([]string{"Beatmap", "Scores", "BPM", "Status"})

	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}

		bpm := "-"
		if r.Table != nil {
			bpm = fmt.Sprintf("%.0f-%.0f", r.BPMMin, r.BPMMax)
		}

		table.Append([]string{r.MapMD5, humanize.Comma(int64(len(r.Scores))), bpm, status})
	}

	table.Render()

	return buf.String()
}
