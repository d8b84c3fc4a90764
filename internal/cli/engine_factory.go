package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/fbxtools"
	"github.com/aretw0/fbxtools/internal/config"
	"github.com/aretw0/fbxtools/pkg/adapters/file"
	"github.com/aretw0/fbxtools/pkg/adapters/memory"
	"github.com/aretw0/fbxtools/pkg/adapters/redis"
	"github.com/aretw0/fbxtools/pkg/bridge"
	"github.com/aretw0/fbxtools/pkg/fbx"
	backend "github.com/redis/go-redis/v9"
)

// EngineOptions tunes what the factory attaches besides the settings.
type EngineOptions struct {
	// Diagnostics receives bridge messages when set.
	Diagnostics io.Writer
	// Lock serializes clones per document. The redis journal locks across
	// processes; other journals lock within this process.
	Lock bool
	Extra []fbxtools.Option
}

// createEngine initializes an engine with standard CLI conventions.
// The returned function releases the journal connection.
func createEngine(cfg config.Config, logger *slog.Logger, opts EngineOptions) (*fbxtools.Engine, func() error, error) {
	format, err := fbx.ParseFormat(cfg.Format)
	if err != nil {
		return nil, nil, err
	}

	engineOpts := []fbxtools.Option{
		fbxtools.WithLogger(logger),
		fbxtools.WithOutputFormat(format),
		fbxtools.WithSnapshots(cfg.SnapshotDir),
		fbxtools.WithMeshSuffix(cfg.MeshSuffix),
		fbxtools.WithLinkMaterials(cfg.LinkMaterials),
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		engineOpts = append(engineOpts, fbxtools.WithLifecycleHooks(createDebugHooks(logger)))
	}
	if opts.Diagnostics != nil {
		engineOpts = append(engineOpts, fbxtools.WithSink(bridge.WriterSink(opts.Diagnostics)))
	}

	closer := func() error { return nil }
	switch cfg.Journal {
	case config.JournalFile:
		engineOpts = append(engineOpts, fbxtools.WithJournal(file.NewJournal(cfg.JournalDir)))
	case config.JournalMemory:
		engineOpts = append(engineOpts, fbxtools.WithJournal(memory.NewJournal()))
	case config.JournalRedis:
		redisOpts, err := backend.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := backend.NewClient(redisOpts)
		journalOpts := []redis.Option{redis.WithPrefix(cfg.Redis.Prefix + "op:")}
		if cfg.Redis.TTL > 0 {
			journalOpts = append(journalOpts, redis.WithTTL(cfg.Redis.TTL))
		}
		engineOpts = append(engineOpts, fbxtools.WithJournal(redis.NewFromClient(client, journalOpts...)))
		if opts.Lock {
			engineOpts = append(engineOpts, fbxtools.WithLocker(redis.NewLocker(client, cfg.Redis.Prefix), cfg.Redis.LockTTL))
		}
		closer = client.Close
	}
	if opts.Lock && cfg.Journal != config.JournalRedis {
		engineOpts = append(engineOpts, fbxtools.WithLocker(memory.NewLocker(), cfg.Redis.LockTTL))
	}

	engineOpts = append(engineOpts, opts.Extra...)
	return fbxtools.New(engineOpts...), closer, nil
}

// engineHandle ties an engine to the connections it owns.
type engineHandle struct {
	*fbxtools.Engine
	close func() error
}

// Close releases the journal connection.
func (h *engineHandle) Close() error {
	if h.close == nil {
		return nil
	}
	return h.close()
}
