package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/fbxtools/internal/batch"
	"github.com/aretw0/fbxtools/internal/config"
	"github.com/aretw0/fbxtools/internal/presentation/graph"
	"github.com/aretw0/fbxtools/internal/presentation/tui"
	"github.com/aretw0/fbxtools/pkg/domain"
	"github.com/aretw0/fbxtools/pkg/fbx"
	"github.com/muesli/termenv"
)

// ErrFailed is returned when a command ran but reported a failed operation.
// The details have already been printed.
var ErrFailed = errors.New("operation failed")

// Env carries the settings shared by every command.
type Env struct {
	Config  config.Config
	Verbose bool
	JSON    bool
	Out     io.Writer
	Err     io.Writer
}

func (env Env) setup(opts EngineOptions) (*slog.Logger, *engineHandle, error) {
	logger, err := CreateLogger(env.Config, env.Err)
	if err != nil {
		return nil, nil, err
	}
	if env.Verbose {
		opts.Diagnostics = env.Err
	}
	engine, closer, err := createEngine(env.Config, logger, opts)
	if err != nil {
		return nil, nil, err
	}
	return logger, &engineHandle{Engine: engine, close: closer}, nil
}

// render writes markdown, styled when Out is a terminal.
func (env Env) render(markdown string) {
	renderer := func(s string) (string, error) { return s, nil }
	if f, ok := env.Out.(*os.File); ok {
		renderer = tui.NewRenderer(f)
	}
	out, err := renderer(markdown)
	if err != nil {
		out = markdown
	}
	fmt.Fprint(env.Out, out)
}

func (env Env) printJSON(v any) error {
	enc := json.NewEncoder(env.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// status prints a one-line coloured outcome.
func (env Env) status(res *domain.Result) {
	p := termenv.EnvColorProfile()
	if f, ok := env.Out.(*os.File); !ok || !tui.IsTerminal(f) {
		p = termenv.Ascii
	}
	mark := termenv.String("✓").Foreground(p.Color("#22c55e"))
	if !res.OK() {
		mark = termenv.String("✗").Foreground(p.Color("#ef4444"))
	}
	if res.OK() {
		fmt.Fprintf(env.Out, "%s %s: %s -> %s\n", mark, res.Request.Path, res.Request.Source, res.Clone)
		return
	}
	fmt.Fprintf(env.Out, "%s %s: %s -> %s: %s\n", mark, res.Request.Path, res.Request.Source, res.Request.Destination, res.Message)
}

// RunClone executes a single clone and reports it.
func RunClone(ctx context.Context, env Env, req domain.CloneRequest) error {
	_, h, err := env.setup(EngineOptions{})
	if err != nil {
		return err
	}
	defer h.Close()

	res := h.Clone(ctx, req)
	if env.JSON {
		if err := env.printJSON(res); err != nil {
			return err
		}
	} else {
		env.render(tui.ResultMarkdown(res))
	}
	if !res.OK() {
		return ErrFailed
	}
	return nil
}

// RunInspect lists the nodes of a document.
func RunInspect(ctx context.Context, env Env, path string) error {
	_, h, err := env.setup(EngineOptions{})
	if err != nil {
		return err
	}
	defer h.Close()

	info, err := h.Inspect(ctx, path)
	if err != nil {
		return err
	}
	if env.JSON {
		return env.printJSON(info)
	}
	env.render(tui.InspectionMarkdown(info))
	return nil
}

// RunGraph prints the Mermaid diagram of a document. A non-nil overlay marks
// a source node and its clone.
func RunGraph(ctx context.Context, env Env, path string, overlay *graph.GraphOverlay) error {
	_, h, err := env.setup(EngineOptions{})
	if err != nil {
		return err
	}
	defer h.Close()

	info, err := h.Inspect(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprint(env.Out, graph.GenerateMermaid(info, overlay))
	return nil
}

// RunConvert re-encodes a document.
func RunConvert(ctx context.Context, env Env, in, out string, format fbx.Format) error {
	_, h, err := env.setup(EngineOptions{})
	if err != nil {
		return err
	}
	defer h.Close()

	if err := h.Convert(ctx, in, out, format); err != nil {
		return err
	}
	printSystemMessage(env.Out, "Wrote %s (%s).", out, format)
	return nil
}

// RunBatch runs every job of a manifest. With watch set it keeps running
// the manifest on every change until ctx is cancelled; jobs that already
// applied fail with a name collision and leave their file untouched.
func RunBatch(ctx context.Context, env Env, manifest string, watch bool) error {
	logger, h, err := env.setup(EngineOptions{Lock: true})
	if err != nil {
		return err
	}
	defer h.Close()

	runOnce := func(jobs []domain.CloneRequest) int {
		results := batch.Run(ctx, h, jobs)
		for _, res := range results {
			env.status(res)
		}
		ok, failed := batch.Summary(results)
		printSystemMessage(env.Out, "%d cloned, %d failed.", ok, failed)
		return failed
	}

	jobs, err := batch.LoadManifest(manifest)
	if err != nil {
		return err
	}
	failed := runOnce(jobs)
	if !watch {
		if failed > 0 {
			return ErrFailed
		}
		return nil
	}

	printSystemMessage(env.Out, "Waiting for changes...")
	return batch.Watch(ctx, manifest, batch.DefaultDebounce, logger, func(jobs []domain.CloneRequest, err error) {
		if err != nil {
			logger.Error("Manifest reload failed", "err", err)
			printSystemMessage(env.Out, "Manifest error: %v", err)
			return
		}
		runOnce(jobs)
		printSystemMessage(env.Out, "Waiting for changes...")
	})
}

// RunHistory lists recorded operations, or prints one when id is set.
func RunHistory(ctx context.Context, env Env, id string) error {
	_, h, err := env.setup(EngineOptions{})
	if err != nil {
		return err
	}
	defer h.Close()

	journal := h.Journal()
	if journal == nil {
		return errors.New("no journal configured (journal: none)")
	}
	if id != "" {
		res, err := journal.Load(ctx, id)
		if err != nil {
			return err
		}
		if env.JSON {
			return env.printJSON(res)
		}
		env.render(tui.ResultMarkdown(res))
		return nil
	}

	ids, err := journal.List(ctx)
	if err != nil {
		return err
	}
	if env.JSON {
		return env.printJSON(ids)
	}
	if len(ids) == 0 {
		fmt.Fprintln(env.Out, "No recorded operations.")
		return nil
	}
	for _, id := range ids {
		res, err := journal.Load(ctx, id)
		if err != nil {
			fmt.Fprintf(env.Out, "%s (unreadable: %v)\n", id, err)
			continue
		}
		fmt.Fprintf(env.Out, "%s  %s  ", id, res.StartedAt.Format("2006-01-02 15:04:05"))
		env.status(res)
	}
	return nil
}
