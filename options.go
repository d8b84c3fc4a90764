package fbxtools

import (
	"log/slog"
	"time"

	"github.com/aretw0/fbxtools/pkg/domain"
	"github.com/aretw0/fbxtools/pkg/fbx"
	"github.com/aretw0/fbxtools/pkg/ports"
)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSink registers the diagnostic callback at construction time.
func WithSink(fn func(string)) Option {
	return func(e *Engine) {
		e.bridge.Register(fn)
	}
}

// WithStore injects the DocumentStore (default: the local filesystem).
func WithStore(store ports.DocumentStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithJournal records every operation result in j.
func WithJournal(j ports.Journal) Option {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithLocker serializes clones of the same path through l.
func WithLocker(l ports.DistributedLocker, ttl time.Duration) Option {
	return func(e *Engine) {
		e.locker = l
		if ttl > 0 {
			e.lockTTL = ttl
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithOutputFormat selects the format used when overwriting the source file
// (default: binary).
func WithOutputFormat(format fbx.Format) Option {
	return func(e *Engine) {
		e.format = format
	}
}

// WithSnapshots switches the engine to snapshot mode: the document is written
// as ASCII to <dir>/<source>Src.fbx before and <dir>/<source>Mod.fbx after the
// clone, and the source file is never modified. An empty dir disables it.
func WithSnapshots(dir string) Option {
	return func(e *Engine) {
		e.snapshotDir = dir
	}
}

// WithMeshSuffix sets the suffix appended to the clone name to name its mesh.
func WithMeshSuffix(suffix string) Option {
	return func(e *Engine) {
		e.meshSuffix = suffix
	}
}

// WithLinkMaterials makes clones share the materials of their source node.
func WithLinkMaterials(link bool) Option {
	return func(e *Engine) {
		e.linkMaterials = link
	}
}

// WithClock overrides the time source used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}
