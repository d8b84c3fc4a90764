package fbxtools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/fbxtools/internal/logging"
	"github.com/aretw0/fbxtools/pkg/adapters/file"
	"github.com/aretw0/fbxtools/pkg/bridge"
	"github.com/aretw0/fbxtools/pkg/domain"
	"github.com/aretw0/fbxtools/pkg/fbx"
	"github.com/aretw0/fbxtools/pkg/ports"
	"github.com/aretw0/fbxtools/pkg/scene"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a crashed engine can hold a document lock.
const DefaultLockTTL = 30 * time.Second

// Engine is the high-level entry point of the library.
// It loads a document, clones a node, saves the result and reports back
// through the diagnostic bridge, the journal and the lifecycle hooks.
type Engine struct {
	store   ports.DocumentStore
	journal ports.Journal
	locker  ports.DistributedLocker
	lockTTL time.Duration
	bridge  *bridge.Bridge
	hooks   domain.LifecycleHooks
	logger  *slog.Logger

	format        fbx.Format
	snapshotDir   string
	meshSuffix    string
	linkMaterials bool
	now           func() time.Time
}

// New initializes an Engine. Without options it reads and writes the local
// filesystem, keeps no journal and discards diagnostics.
func New(opts ...Option) *Engine {
	e := &Engine{
		bridge:     bridge.New(nil),
		lockTTL:    DefaultLockTTL,
		format:     fbx.FormatBinary,
		meshSuffix: scene.DefaultMeshSuffix,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = file.NewDocumentStore()
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	return e
}

// RegisterLogSink installs the diagnostic callback, replacing any previous one.
func (e *Engine) RegisterLogSink(fn func(string)) {
	e.bridge.Register(fn)
	e.bridge.Logf("Attached debug log for fbxtools")
}

// Journal returns the configured journal, or nil.
func (e *Engine) Journal() ports.Journal {
	return e.journal
}

// Store returns the document store.
func (e *Engine) Store() ports.DocumentStore {
	return e.store
}

// AttemptClone runs Clone and reports the outcome as a flag. done is invoked
// with true exactly once when the clone succeeds and is not invoked on
// failure; the reason is delivered through the log sink.
func (e *Engine) AttemptClone(path, source, destination string, done func(bool)) bool {
	res := e.Clone(context.Background(), domain.CloneRequest{Path: path, Source: source, Destination: destination})
	if res.OK() && done != nil {
		done(true)
	}
	return res.OK()
}

// Clone copies req.Source as req.Destination, together with its mesh, and
// links the copy to every parent of the source.
//
// Preconditions are checked in order before anything is written: the names
// differ, the document opens, the destination name is free, the source exists
// and has a mesh. The returned Result is never nil.
func (e *Engine) Clone(ctx context.Context, req domain.CloneRequest) (res *domain.Result) {
	res = domain.NewResult(uuid.NewString(), req, e.now())
	log := e.logger.With("op", res.ID, "path", req.Path, "source", req.Source, "destination", req.Destination)

	defer func() {
		if r := recover(); r != nil {
			log.Error("recovered panic during clone", "panic", r, "stack", string(debug.Stack()))
			res.Fail(fmt.Errorf("%w: %v", domain.ErrInternal, r))
		}
		e.finish(ctx, res, log)
	}()

	if err := req.Validate(); err != nil {
		if errors.Is(err, domain.ErrDuplicateName) {
			e.bridge.Logf("Please enter a unique name: %s", req.Destination)
		}
		res.Fail(err)
		return res
	}

	if e.locker != nil {
		unlock, err := e.locker.Lock(ctx, lockKey(req.Path), e.lockTTL)
		if err != nil {
			e.bridge.Logf("Couldn't lock file %s: %v", req.Path, err)
			res.Fail(fmt.Errorf("%w: lock %s: %w", domain.ErrUnreadable, req.Path, err))
			return res
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				log.Warn("failed to release document lock", "error", err)
			}
		}()
	}

	doc, format, err := e.open(ctx, res.ID, req.Path)
	if err != nil {
		e.bridge.Logf("Couldn't read file %s: %v", req.Path, err)
		res.Fail(fmt.Errorf("%w: %w", domain.ErrUnreadable, err))
		return res
	}
	s, err := scene.New(doc)
	if err != nil {
		e.bridge.Logf("Couldn't import file %s: %v", req.Path, err)
		res.Fail(fmt.Errorf("%w: %s: %w", domain.ErrUnreadable, req.Path, err))
		return res
	}
	log.Debug("document loaded", "format", format, "version", doc.Version, "objects", len(s.Objects()))

	if _, taken := s.FindNodeByName(req.Destination); taken {
		e.bridge.Logf("Please enter a unique name: %s", req.Destination)
		res.Fail(fmt.Errorf("%w: %q", domain.ErrNameCollision, req.Destination))
		return res
	}
	node, ok := s.FindNodeByName(req.Source)
	if !ok {
		e.bridge.Logf("Node %s not found", req.Source)
		res.Fail(fmt.Errorf("%w: %q", domain.ErrNodeNotFound, req.Source))
		return res
	}
	if _, ok := s.Mesh(node); !ok {
		e.bridge.Logf("Node %s has no mesh to duplicate", req.Source)
		res.Fail(fmt.Errorf("%w: %q", domain.ErrMeshNotFound, req.Source))
		return res
	}

	if e.snapshotDir != "" {
		pre := filepath.Join(e.snapshotDir, req.Source+"Src.fbx")
		if err := e.save(ctx, res.ID, pre, doc, fbx.FormatASCII); err != nil {
			e.bridge.Logf("Failed to write snapshot %s: %v", pre, err)
			res.Fail(fmt.Errorf("%w: %w", domain.ErrWriteFailed, err))
			return res
		}
		res.Snapshots = append(res.Snapshots, pre)
	}

	cloned, err := s.CloneNode(node, scene.CloneOptions{
		Name:          req.Destination,
		MeshName:      req.Destination + e.meshSuffix,
		LinkMaterials: e.linkMaterials,
	})
	if err != nil {
		e.bridge.Logf("Failed to duplicate %s: %v", req.Source, err)
		res.Fail(err)
		return res
	}

	output := req.Path
	outFormat := e.format
	if e.snapshotDir != "" {
		e.logConnections(s, node, log)
		e.logConnections(s, cloned.Node, log)
		output = filepath.Join(e.snapshotDir, req.Source+"Mod.fbx")
		outFormat = fbx.FormatASCII
	}
	if err := e.save(ctx, res.ID, output, doc, outFormat); err != nil {
		e.bridge.Logf("Failed to export %s: %v", output, err)
		res.Fail(fmt.Errorf("%w: %w", domain.ErrWriteFailed, err))
		return res
	}
	if e.snapshotDir != "" {
		res.Snapshots = append(res.Snapshots, output)
	}

	res.Output = output
	res.Clone = cloned.Node.Name
	res.Mesh = cloned.Mesh.Name
	for _, p := range cloned.Parents {
		res.Parents = append(res.Parents, p.Name)
	}
	e.bridge.Logf("Mesh successfully duplicated. New mesh is %s", res.Clone)
	return res
}

func lockKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func (e *Engine) open(ctx context.Context, opID, path string) (*fbx.Document, fbx.Format, error) {
	doc, format, err := e.store.Open(ctx, path)
	if e.hooks.OnDocumentLoad != nil {
		ev := &domain.DocumentEvent{
			EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventDocumentLoad, OperationID: opID},
			Path:      path,
			Format:    format.String(),
			Err:       err,
		}
		if doc != nil {
			ev.Records = doc.Records()
		}
		e.hooks.OnDocumentLoad(ctx, ev)
	}
	return doc, format, err
}

func (e *Engine) save(ctx context.Context, opID, path string, doc *fbx.Document, format fbx.Format) error {
	err := e.store.Save(ctx, path, doc, format)
	if e.hooks.OnDocumentSave != nil {
		e.hooks.OnDocumentSave(ctx, &domain.DocumentEvent{
			EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventDocumentSave, OperationID: opID},
			Path:      path,
			Format:    format.String(),
			Records:   doc.Records(),
			Err:       err,
		})
	}
	return err
}

// logConnections dumps the connection layout of o to the bridge.
func (e *Engine) logConnections(s *scene.Scene, o *scene.Object, log *slog.Logger) {
	e.bridge.Logf("Node Name %s", o.Name)
	for i, p := range s.Parents(o) {
		e.bridge.Logf("Parent %d : %s", i, p.Name)
	}
	for i, src := range s.Sources(o) {
		e.bridge.Logf("Source %d : %s", i, src.Name)
	}
	for _, c := range s.Connections(o) {
		log.Debug("connection", "link", s.Describe(c))
	}
}

func (e *Engine) finish(ctx context.Context, res *domain.Result, log *slog.Logger) {
	res.FinishedAt = e.now()
	if res.OK() {
		log.Info("clone finished", "clone", res.Clone, "mesh", res.Mesh, "output", res.Output, "duration", res.Duration())
	} else {
		log.Warn("clone failed", "status", res.Status, "error", res.Err())
	}

	if e.journal != nil {
		if err := e.journal.Save(context.WithoutCancel(ctx), res); err != nil {
			log.Error("failed to record operation", "error", err)
		}
	}
	if e.hooks.OnCloneFinish != nil {
		e.hooks.OnCloneFinish(ctx, &domain.CloneEvent{
			EventBase: domain.EventBase{Timestamp: res.FinishedAt, Type: domain.EventCloneFinish, OperationID: res.ID},
			Result:    res,
		})
	}
}
