package engine

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/roach88/aisync/internal/adapter"
	"github.com/roach88/aisync/internal/store"
)

// SettingLastSync is the settings key holding the completion time of the last real sync.
const SettingLastSync = "last_sync"

// JobIDGenerator generates unique sync job IDs.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type JobIDGenerator interface {
	Generate() string
}

// Engine runs sync, diff and status operations for one project root.
//
// Each Engine owns its adapter registry; adapters are memoized per engine
// and never shared between instances.
type Engine struct {
	store    *store.Store
	root     string
	registry *adapter.Registry
	logger   *slog.Logger
	now      func() time.Time
	jobIDs   JobIDGenerator
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithClock overrides the wall clock used for job and result timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithJobIDGenerator overrides job ID generation. Default: UUIDv7Generator.
func WithJobIDGenerator(g JobIDGenerator) Option {
	return func(e *Engine) {
		e.jobIDs = g
	}
}

// WithRegistry replaces the adapter registry. Default: adapter.NewRegistry().
func WithRegistry(r *adapter.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// New creates an Engine over s for the project at root.
// The engine takes ownership of the store; Close closes it.
func New(s *store.Store, root string, opts ...Option) *Engine {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	e := &Engine{
		store:  s,
		root:   root,
		logger: slog.Default(),
		now:    func() time.Time { return time.Now().UTC() },
		jobIDs: UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = adapter.NewRegistry()
	}
	return e
}

// Root returns the absolute project root.
func (e *Engine) Root() string {
	return e.root
}

// Registry exposes the engine's adapters.
func (e *Engine) Registry() *adapter.Registry {
	return e.registry
}

// Close releases the underlying store.
func (e *Engine) Close() error {
	return e.store.Close()
}
