// Package live implements the live/incremental pp calculator: a lazy
// promise over a single worker goroutine that recomputes difficulty and pp
// as the current hit-object index advances during gameplay, without
// rebuilding the difficulty-object pipeline on every tick.
package live

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/neomodnet/neomod-sub003/app/beatmap"
	"github.com/neomodnet/neomod-sub003/app/beatmap/difficulty"
	"github.com/neomodnet/neomod-sub003/app/beatmap/parser"
	"github.com/neomodnet/neomod-sub003/app/rulesets/osu/performance"
	"github.com/neomodnet/neomod-sub003/app/rulesets/osu/performance/preprocessing"
	"github.com/neomodnet/neomod-sub003/app/rulesets/osu/performance/skills"
)

// containerKey is the (path, AR, CS, speed) tuple the parsed/built pipeline
// is cached under -- only these inputs force a full parse-and-rebuild;
// anything else (OD-only changes, the live score snapshot) reuses the
// cached objects.
type containerKey struct {
	path  string
	ar    float64
	cs    float64
	speed float64
}

// Request is one unit of work enqueued by the UI/gameplay thread: the
// object index gameplay has reached and the score snapshot to value.
type Request struct {
	Path      string
	Diff      *difficulty.Difficulty
	Index     int
	Score     performance.ScoreInputs
}

// Result is tagged with the object index that produced it so the caller can
// detect staleness by comparing against its own current index.
type Result struct {
	Index int
	Attr  performance.DifficultyAttributes
	PP    performance.PPv2Results
	Err   error
}

// Calculator is a lazy promise over a single background worker, one per
// active beatmap instance. Enqueue replaces any pending request, so at
// most one is in flight and one is queued.
type Calculator struct {
	mu      sync.Mutex
	pending *Request
	cond    *sync.Cond
	closed  bool

	results chan Result

	cacheMu   sync.Mutex
	cacheKey  containerKey
	container *beatmap.PrimitiveContainer
	objs      []*preprocessing.DiffObject
	engine    *skills.Engine

	watcher     *fsnotify.Watcher
	watchedDir  string
}

// NewCalculator starts the worker goroutine. Results are delivered on the
// channel returned by Results, buffered by one so the worker never blocks waiting for
// a slow consumer to drain a stale result.
func NewCalculator() *Calculator {
	c := &Calculator{results: make(chan Result, 1)}
	c.cond = sync.NewCond(&c.mu)

	go c.run()

	if w, err := fsnotify.NewWatcher(); err == nil {
		c.watcher = w
		go c.watchLoop()
	}

	return c
}

// Enqueue drops any previously queued (not yet started) request and queues
// this one, waking the worker.
func (c *Calculator) Enqueue(req Request) {
	c.mu.Lock()
	c.pending = &req
	c.mu.Unlock()
	c.cond.Signal()
}

// Results returns the channel Result values are delivered on.
func (c *Calculator) Results() <-chan Result {
	return c.results
}

func (c *Calculator) run() {
	for {
		c.mu.Lock()
		for c.pending == nil && !c.closed {
			c.cond.Wait()
		}

		if c.closed {
			c.mu.Unlock()
			return
		}

		req := *c.pending
		c.pending = nil
		c.mu.Unlock()

		res := c.compute(req)

		select {
		case <-c.results:
		default:
		}

		c.results <- res
	}
}

func (c *Calculator) compute(req Request) Result {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	key := containerKey{path: req.Path, ar: req.Diff.GetAR(), cs: req.Diff.GetCS(), speed: req.Diff.GetSpeed()}

	if c.container == nil || c.cacheKey != key {
		data, err := loadFile(req.Path)
		if err != nil {
			return Result{Index: req.Index, Err: err}
		}

		container, loadErr := parser.Parse(data, nil)
		if loadErr != parser.LoadOK {
			return Result{Index: req.Index, Err: loadErr}
		}

		c.container = container
		c.objs = preprocessing.Build(container, req.Diff, container.FormatVersion)
		hitWindow300 := difficulty.ODToHitWindow300(req.Diff.GetOD()) / req.Diff.GetSpeed()
		c.engine = skills.NewEngine(hitWindow300)
		c.cacheKey = key

		c.watchPath(req.Path)
	}

	upTo := req.Index
	if upTo > len(c.objs) {
		upTo = len(c.objs)
	}

	attr := performance.ComputeDifficultyIncremental(c.container, req.Diff, c.objs, c.engine, upTo)
	pp := performance.ComputePP(attr, req.Score)

	return Result{Index: req.Index, Attr: attr, PP: pp}
}

// watchPath re-points the fsnotify watcher (if available) at the directory
// containing the current beatmap file, so an on-disk edit invalidates the
// cache even though the UI never calls Enqueue again with a new path.
func (c *Calculator) watchPath(path string) {
	if c.watcher == nil {
		return
	}

	dir := dirOf(path)
	if dir == c.watchedDir {
		return
	}

	if c.watchedDir != "" {
		_ = c.watcher.Remove(c.watchedDir)
	}

	if err := c.watcher.Add(dir); err != nil {
		log.Println("live: failed to watch beatmap directory:", err)
		return
	}

	c.watchedDir = dir
}

func (c *Calculator) watchLoop() {
	for {
		select {
		case ev, ok := <-c.watcher.Events:
			if !ok {
				return
			}

			if ev.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				c.invalidate()
			}
		case _, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Invalidate forces the next compute to reparse and rebuild the difficulty
// objects instead of reusing the cached container, even if the containerKey
// is unchanged -- the public equivalent of the original calculator's forced
// refresh, for callers that know the underlying file changed out-of-band
// (e.g. a beatmap re-download) without relying on the fsnotify watcher.
func (c *Calculator) Invalidate() {
	c.invalidate()
}

func (c *Calculator) invalidate() {
	c.cacheMu.Lock()
	c.container = nil
	c.objs = nil
	c.engine = nil
	c.cacheMu.Unlock()
}

func loadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func dirOf(path string) string {
	return filepath.Dir(path)
}

// Close stops the worker and the filesystem watcher. Called when the
// active beatmap instance is torn down.
func (c *Calculator) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cond.Signal()

	if c.watcher != nil {
		c.watcher.Close()
	}
}
