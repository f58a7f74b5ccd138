package batch

import (
	"context"
	"sync"

	"github.com/neomodnet/neomod-sub003/app/beatmap"
)

// Progress is a snapshot of a Controller's run, matching the counters the
// original batch tool exposed (maps/scores total and processed) so a caller
// can render a progress bar without reaching into Recalculator internals.
type Progress struct {
	MapsTotal        int
	MapsProcessed    int
	ScoresTotal      int
	ScoresProcessed  int
	Running          bool
	ScoresFinished   bool
	Finished         bool
	DidWork          bool
}

// Controller wraps a Recalculator with a non-blocking start/abort/progress
// surface: Start kicks the worker pool off in the background, Tick drains
// whatever results have accumulated onto the caller's thread (the
// main-thread role -- must be called from the thread that owns the beatmap
// database), and Progress reports counters for a UI. None of this changes
// the per-item algorithm; it only counts it.
type Controller struct {
	rec *Recalculator
	db  *beatmap.Database

	mu            sync.Mutex
	mapsTotal     int
	scoresTotal   int
	mapsDone      int
	scoresDone    int
	didWork       bool
	running       bool
	scoresDrained bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewController wraps an already-constructed Recalculator. db is optional;
// when set, Tick applies each drained map Result to it under the canonical
// difficulties/star-ratings/peppy-overrides lock order instead of leaving
// that to the caller.
func NewController(rec *Recalculator, db *beatmap.Database) *Controller {
	return &Controller{rec: rec, db: db}
}

// Start begins processing items on a background goroutine and returns
// immediately. Calling Start while a previous run is still in progress is a
// caller error; Abort and wait for Tick to report !Running first.
func (c *Controller) Start(ctx context.Context, items []*WorkItem) {
	ctx, cancel := context.WithCancel(ctx)

	mapsTotal, scoresTotal := 0, 0
	for _, it := range items {
		if it.NeedsMapCalc {
			mapsTotal++
		}

		scoresTotal += len(it.Scores)
	}

	c.mu.Lock()
	c.mapsTotal = mapsTotal
	c.scoresTotal = scoresTotal
	c.mapsDone = 0
	c.scoresDone = 0
	c.didWork = false
	c.running = true
	c.scoresDrained = false
	c.cancel = cancel
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	go func() {
		c.rec.Run(ctx, items)
		close(done)
	}()
}

// Abort cancels the in-flight run; already-published results remain
// available via Tick.
func (c *Controller) Abort() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Tick drains the recalculator's results buffer onto the caller, updating
// the progress counters, and reports whether the background run is still
// live. Must be called from the thread that owns the beatmap database: when
// db is set each map Result is applied to it here; score pp results are
// still the caller's responsibility to store.
func (c *Controller) Tick() (results []Result, running bool) {
	results = c.rec.DrainResults()

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range results {
		if r.Table != nil {
			c.mapsDone++

			if c.db != nil {
				nomod, _ := r.Table.Lookup(NoMod, 1.0, false)
				c.db.ApplyBatchResult(r.MapMD5, r.Table.Flatten(), nomod, 0, 0, 0, 0, r.BPMMin, r.BPMMax, r.BPMAvg)
			}
		}

		c.scoresDone += len(r.Scores)

		if r.Table != nil || len(r.Scores) > 0 {
			c.didWork = true
		}
	}

	if c.running && c.done != nil {
		select {
		case <-c.done:
			c.running = false
		default:
		}
	}

	return results, c.running
}

// Progress returns a snapshot of the run's counters.
func (c *Controller) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Progress{
		MapsTotal:       c.mapsTotal,
		MapsProcessed:   c.mapsDone,
		ScoresTotal:     c.scoresTotal,
		ScoresProcessed: c.scoresDone,
		Running:         c.running,
		ScoresFinished:  c.scoresDone >= c.scoresTotal,
		Finished:        !c.running && c.mapsDone >= c.mapsTotal && c.scoresDone >= c.scoresTotal,
		DidWork:         c.didWork,
	}
}
