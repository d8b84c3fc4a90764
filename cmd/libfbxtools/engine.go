package main

import (
	"fmt"
	"os"

	"github.com/aretw0/fbxtools"
	"github.com/aretw0/fbxtools/internal/config"
	"github.com/aretw0/fbxtools/internal/logging"
	"github.com/aretw0/fbxtools/pkg/adapters/file"
	"github.com/aretw0/fbxtools/pkg/fbx"
)

// configEnv names the settings file read when the library is loaded.
const configEnv = "FBXTOOLS_CONFIG"

// newEngine builds the process-wide engine. The plugin runs inside the host
// process, so only the file journal is honoured and logs go to Stderr.
func newEngine(cfgPath string) (*fbxtools.Engine, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	format, err := fbx.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	opts := []fbxtools.Option{
		fbxtools.WithLogger(logging.New(level)),
		fbxtools.WithOutputFormat(format),
		fbxtools.WithSnapshots(cfg.SnapshotDir),
		fbxtools.WithMeshSuffix(cfg.MeshSuffix),
		fbxtools.WithLinkMaterials(cfg.LinkMaterials),
	}
	if cfg.Journal == config.JournalFile {
		opts = append(opts, fbxtools.WithJournal(file.NewJournal(cfg.JournalDir)))
	}
	return fbxtools.New(opts...), nil
}

func mustEngine(cfgPath string) *fbxtools.Engine {
	e, err := newEngine(cfgPath)
	if err != nil {
		// The host has no way to receive this; fall back to defaults.
		fmt.Fprintf(os.Stderr, "libfbxtools: %v, using defaults\n", err)
		return fbxtools.New()
	}
	return e
}
