package live

import (
	"sync"

	"github.com/neomodnet/neomod-sub003/app/beatmap"
	"github.com/neomodnet/neomod-sub003/app/beatmap/difficulty"
	"github.com/neomodnet/neomod-sub003/app/rulesets/osu/performance"
	"github.com/neomodnet/neomod-sub003/app/rulesets/osu/performance/preprocessing"
)

// MissingPP is the sentinel Query returns on a cache miss while the value
// is computed in the background.
const MissingPP = -1.0

// DiffKey is the difficulty-affecting tuple the hitobject and info caches
// are keyed on.
type DiffKey struct {
	Speed, AR, HP, CS, OD                   float64
	Relax, TouchDevice, Hidden, Autopilot bool
	Map                                      string
}

// hitobjectKey is the coarser sub-tuple that only forces a difficulty-object
// rebuild: speed/AR/CS affect slider geometry and stacking, HP/OD/the four
// booleans only affect the rating transform and pp.
type hitobjectKey struct {
	Map   string
	Speed float64
	AR    float64
	CS    float64
}

// ScoreKey is the additional tuple pp depends on beyond difficulty.
type ScoreKey struct {
	Combo, Misses, C300, C100, C50 int64
	LegacyScore                    int64
	Flags                          difficulty.Modifier
}

type infoKey struct {
	DiffKey
	ScoreKey
}

// PPCache is the async pp cache: one instance per active beatmap. Query
// never blocks; a miss enqueues the work and returns MissingPP, and a
// single worker goroutine drains the queue and fills both caches.
type PPCache struct {
	mu          sync.Mutex
	hitobjects  map[hitobjectKey][]*preprocessing.DiffObject
	info        map[infoKey]performance.DifficultyAttributes
	pp          map[infoKey]float64

	loader Loader

	queue   chan infoKey
	pending map[infoKey]bool

	stop chan struct{}
}

// Loader resolves a beatmap path/container for a given map identifier; the
// cache has no filesystem dependency of its own.
type Loader interface {
	Load(mapID string) (*beatmap.PrimitiveContainer, error)
}

// NewPPCache starts the draining worker: one goroutine runs for as long as
// this beatmap stays active.
func NewPPCache(loader Loader) *PPCache {
	c := &PPCache{
		hitobjects: make(map[hitobjectKey][]*preprocessing.DiffObject),
		info:       make(map[infoKey]performance.DifficultyAttributes),
		pp:         make(map[infoKey]float64),
		pending:    make(map[infoKey]bool),
		loader:     loader,
		queue:      make(chan infoKey, 64),
		stop:       make(chan struct{}),
	}

	go c.worker()

	return c
}

// Query returns the cached pp for (diff key, score key) if present; on a
// miss it enqueues the work (de-duplicated against already-pending keys)
// and returns MissingPP.
func (c *PPCache) Query(dk DiffKey, sk ScoreKey) float64 {
	key := infoKey{DiffKey: dk, ScoreKey: sk}

	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.pp[key]; ok {
		return v
	}

	if !c.pending[key] {
		c.pending[key] = true

		select {
		case c.queue <- key:
		default:
			// queue full: drop the enqueue, a later Query with the same key
			// will retry.
			delete(c.pending, key)
		}
	}

	return MissingPP
}

func (c *PPCache) worker() {
	for {
		select {
		case key := <-c.queue:
			c.fill(key)
		case <-c.stop:
			return
		}
	}
}

func (c *PPCache) fill(key infoKey) {
	defer func() {
		c.mu.Lock()
		delete(c.pending, key)
		c.mu.Unlock()
	}()

	objs, err := c.hitObjects(key.DiffKey)
	if err != nil {
		return
	}

	d := difficulty.NewDifficulty(key.HP, key.CS, key.OD, key.AR)

	var mods difficulty.Modifier
	if key.Hidden {
		mods |= difficulty.Hidden
	}

	if key.Relax {
		mods |= difficulty.Relax
	}

	if key.Autopilot {
		mods |= difficulty.Relax2
	}

	if key.TouchDevice {
		mods |= difficulty.TouchDevice
	}

	d.SetMods(mods)
	d.SetCustomSpeed(key.Speed)

	container, err := c.loader.Load(key.Map)
	if err != nil {
		return
	}

	result := performance.ComputeRawFromObjects(objs, container, d)
	attr := result.ToAttributes(key.Hidden, key.TouchDevice, key.Relax, key.Autopilot)

	score := performance.ScoreInputs{
		ModFlags:         key.Flags,
		NumHitObjects:    result.ObjectCount,
		MaxPossibleCombo: int64(result.MaxCombo),
		Combo:            key.Combo,
		Misses:           key.Misses,
		C300:             key.C300,
		C100:             key.C100,
		C50:              key.C50,
		LegacyTotalScore: key.LegacyScore,
	}

	pp := performance.ComputePP(attr, score)

	c.mu.Lock()
	c.info[key] = attr
	c.pp[key] = pp.Total
	c.mu.Unlock()
}

func (c *PPCache) hitObjects(dk DiffKey) ([]*preprocessing.DiffObject, error) {
	hk := hitobjectKey{Map: dk.Map, Speed: dk.Speed, AR: dk.AR, CS: dk.CS}

	c.mu.Lock()
	if objs, ok := c.hitobjects[hk]; ok {
		c.mu.Unlock()
		return objs, nil
	}
	c.mu.Unlock()

	container, err := c.loader.Load(dk.Map)
	if err != nil {
		return nil, err
	}

	d := difficulty.NewDifficulty(dk.HP, dk.CS, dk.OD, dk.AR)
	d.SetCustomSpeed(dk.Speed)

	objs := preprocessing.Build(container, d, container.FormatVersion)

	c.mu.Lock()
	c.hitobjects[hk] = objs
	c.mu.Unlock()

	return objs, nil
}

// Reset clears both caches and stops the worker: when the active beatmap
// changes, the caches are cleared and the worker stopped. The PPCache is
// not reusable after Reset; construct a new one for the next beatmap.
func (c *PPCache) Reset() {
	close(c.stop)

	c.mu.Lock()
	c.hitobjects = nil
	c.info = nil
	c.pp = nil
	c.pending = nil
	c.mu.Unlock()
}
