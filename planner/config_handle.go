package planner

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Snapshot is one immutable, validated view of both configuration documents.
// A caller obtains a snapshot once per request and holds it for the whole
// call; hot-reload swaps the handle's pointer without mutating snapshots
// already handed out.
type Snapshot struct {
	Scoring      *ScoringConfig
	Optimization *OptimizationConfig

	// Scorers are the dimension scorers built from Scoring at load time, in
	// ascending dimension priority. Rule-name resolution errors therefore
	// surface at load, not at scoring time.
	Scorers []*DimensionScorer

	LoadedAt time.Time
	Version  uint64
}

// NewSnapshot validates both documents and builds the dimension scorers.
func NewSnapshot(scoring *ScoringConfig, optimization *OptimizationConfig) (*Snapshot, error) {
	if err := scoring.Validate(); err != nil {
		return nil, fmt.Errorf("scoring config: %w", err)
	}
	if err := optimization.Validate(); err != nil {
		return nil, fmt.Errorf("optimization config: %w", err)
	}
	dims := make([]DimensionConfig, len(scoring.Dimensions))
	copy(dims, scoring.Dimensions)
	// Ascending priority so diagnostics list dimensions in importance order.
	for i := 1; i < len(dims); i++ {
		for j := i; j > 0 && dims[j-1].Priority > dims[j].Priority; j-- {
			dims[j-1], dims[j] = dims[j], dims[j-1]
		}
	}
	scorers := make([]*DimensionScorer, 0, len(dims))
	for i := range dims {
		if !dims[i].IsEnabled() {
			continue
		}
		s, err := NewDimensionScorer(&dims[i])
		if err != nil {
			return nil, err
		}
		scorers = append(scorers, s)
	}
	return &Snapshot{
		Scoring:      scoring,
		Optimization: optimization,
		Scorers:      scorers,
		LoadedAt:     time.Now(),
	}, nil
}

// DefaultSnapshot builds a snapshot from the shipped defaults. The defaults
// always validate; a failure here is a programming error.
func DefaultSnapshot() *Snapshot {
	snap, err := NewSnapshot(DefaultScoringConfig(), DefaultOptimizationConfig())
	if err != nil {
		panic(fmt.Sprintf("default config invalid: %v", err))
	}
	return snap
}

// GetRelaxationStep returns the relaxation step definition for step n.
func (s *Snapshot) GetRelaxationStep(n int) (RelaxationStepConfig, error) {
	return s.Optimization.GetRelaxationStep(n)
}

// ConfigSource provides the current config snapshot. The core components take
// snapshots, not sources; sources exist so long-lived owners (HTTP handlers,
// workers) can observe hot-reloads.
type ConfigSource interface {
	Current() *Snapshot
}

// StaticSource is a ConfigSource that never changes. Useful in tests and for
// callers that load config once at startup.
type StaticSource struct{ snap *Snapshot }

// NewStaticSource wraps a snapshot in a ConfigSource.
func NewStaticSource(snap *Snapshot) *StaticSource { return &StaticSource{snap: snap} }

func (s *StaticSource) Current() *Snapshot { return s.snap }

// ReloadCallback is invoked after a successful hot-reload with the new snapshot.
type ReloadCallback func(*Snapshot)

// Handle owns the two config document paths and the atomically-swappable
// current snapshot. Readers never block; a concurrent reload swaps the pointer
// and never exposes a partially-updated snapshot.
type Handle struct {
	scoringPath      string
	optimizationPath string

	current atomic.Pointer[Snapshot]
	version atomic.Uint64

	mu        sync.Mutex // guards callbacks and mtimes
	callbacks []ReloadCallback
	mtimes    map[string]time.Time
}

// NewHandle loads both documents and returns a handle serving the resulting
// snapshot. The first load is fatal on any read, parse, or validation error.
func NewHandle(scoringPath, optimizationPath string) (*Handle, error) {
	h := &Handle{
		scoringPath:      scoringPath,
		optimizationPath: optimizationPath,
		mtimes:           make(map[string]time.Time, 2),
	}
	snap, err := h.load()
	if err != nil {
		return nil, err
	}
	h.current.Store(snap)
	return h, nil
}

// Current returns the active snapshot. Safe for concurrent use.
func (h *Handle) Current() *Snapshot { return h.current.Load() }

// OnReload registers a callback fired after every successful reload.
func (h *Handle) OnReload(cb ReloadCallback) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.callbacks = append(h.callbacks, cb)
}

// load reads, validates, and assembles a fresh snapshot, recording file mtimes.
func (h *Handle) load() (*Snapshot, error) {
	scoring, err := LoadScoringConfig(h.scoringPath)
	if err != nil {
		return nil, err
	}
	optimization, err := LoadOptimizationConfig(h.optimizationPath)
	if err != nil {
		return nil, err
	}
	snap, err := NewSnapshot(scoring, optimization)
	if err != nil {
		return nil, err
	}
	snap.Version = h.version.Add(1)
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, path := range []string{h.scoringPath, h.optimizationPath} {
		if info, statErr := os.Stat(path); statErr == nil {
			h.mtimes[path] = info.ModTime()
		}
	}
	return snap, nil
}

// changed reports whether either document's mtime differs from the last load.
// Missing files count as changed so the reload path can report the error.
func (h *Handle) changed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, path := range []string{h.scoringPath, h.optimizationPath} {
		info, err := os.Stat(path)
		if err != nil {
			return true
		}
		if !info.ModTime().Equal(h.mtimes[path]) {
			return true
		}
	}
	return false
}

// CheckReload reloads both documents if either file changed since the last
// load. Unchanged files are a no-op: no swap, no callbacks. A failed reload
// logs, keeps serving the previous good snapshot, and returns the error.
func (h *Handle) CheckReload() (bool, error) {
	if !h.changed() {
		return false, nil
	}
	snap, err := h.load()
	if err != nil {
		logrus.Errorf("config reload failed, keeping previous config: %v", err)
		return false, err
	}
	h.current.Store(snap)
	h.mu.Lock()
	cbs := make([]ReloadCallback, len(h.callbacks))
	copy(cbs, h.callbacks)
	h.mu.Unlock()
	for _, cb := range cbs {
		cb(snap)
	}
	logrus.Infof("config reloaded (version %d)", snap.Version)
	return true, nil
}

// Watch runs the background hot-reload loop until ctx is cancelled, honoring
// the reload section of the active optimization config. Poll mode checks file
// mtimes at the configured interval; notify mode subscribes to filesystem
// events and still funnels through CheckReload so unchanged files stay no-ops.
func (h *Handle) Watch(ctx context.Context) error {
	cfg := h.Current().Optimization.Reload
	if !cfg.Enabled {
		return nil
	}
	if cfg.Mode == ReloadModeNotify {
		return h.watchNotify(ctx)
	}
	return h.watchPoll(ctx, time.Duration(cfg.IntervalSeconds*float64(time.Second)))
}

func (h *Handle) watchPoll(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			h.CheckReload() //nolint:errcheck // reload errors already logged, previous config kept
		}
	}
}

func (h *Handle) watchNotify(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	defer watcher.Close()
	for _, path := range []string{h.scoringPath, h.optimizationPath} {
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				h.CheckReload() //nolint:errcheck
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logrus.Warnf("config watcher error: %v", watchErr)
		}
	}
}
