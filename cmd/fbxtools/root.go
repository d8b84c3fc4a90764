package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/fbxtools/internal/cli"
	"github.com/aretw0/fbxtools/internal/config"
	"github.com/aretw0/lifecycle"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fbxtools",
	Short: "fbxtools duplicates mesh nodes inside FBX scenes",
	Long: `fbxtools copies a node and its mesh geometry inside an FBX file, attaches
the copy to every parent of the original and saves the file in place.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx := lifecycle.NewSignalContext(context.Background())
	err := rootCmd.ExecuteContext(ctx)

	if sig := lifecycle.Signal(ctx); sig != nil {
		fmt.Fprintf(os.Stderr, "Interrupted (%s).\n", sig)
	}
	ctx.Stop()
	lifecycle.ShutdownAndWait(ctx)
	if err != nil {
		if !errors.Is(err, cli.ErrFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Settings file (default ./"+config.DefaultPath+" if present)")
	flags.Bool("debug", false, "Log at debug level")
	flags.BoolP("verbose", "v", false, "Print diagnostic messages")
	flags.Bool("json", false, "Print results as JSON")
	flags.String("snapshot-dir", "", "Write before/after ASCII snapshots here instead of modifying the file")
	flags.String("format", "", "Format of saved documents: binary or ascii")
	flags.String("journal", "", "Operation journal: file, memory, redis or none")
	flags.Bool("link-materials", false, "Attach the source node's materials to the clone")
}

// settingFlags maps persistent flags to the settings file keys they override.
var settingFlags = map[string]string{
	"snapshot-dir":   "snapshot_dir",
	"format":         "format",
	"journal":        "journal",
	"link-materials": "link_materials",
}

// loadEnv reads the settings file and layers the flags over it.
func loadEnv(cmd *cobra.Command) (cli.Env, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cli.Env{}, err
	}

	changed := make(map[string]any)
	for flag, key := range settingFlags {
		if !flags.Changed(flag) {
			continue
		}
		if f := flags.Lookup(flag); f.Value.Type() == "bool" {
			changed[key], _ = flags.GetBool(flag)
		} else {
			changed[key] = f.Value.String()
		}
	}
	if debug, _ := flags.GetBool("debug"); debug {
		changed["log_level"] = "debug"
	}
	if err := config.Overlay(&cfg, changed); err != nil {
		return cli.Env{}, err
	}

	verbose, _ := flags.GetBool("verbose")
	jsonOut, _ := flags.GetBool("json")
	return cli.Env{
		Config:  cfg,
		Verbose: verbose,
		JSON:    jsonOut,
		Out:     cmd.OutOrStdout(),
		Err:     cmd.ErrOrStderr(),
	}, nil
}
