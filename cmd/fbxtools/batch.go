package main

import (
	"github.com/aretw0/fbxtools/internal/cli"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch <manifest>",
	Short: "Run the clone jobs listed in a YAML or JSON manifest",
	Long: `Runs every job of the manifest in order:

  jobs:
    - path: props/tree.fbx
      source: Lod0
      destination: Lod1

With --watch the manifest is run again on every change. Jobs that already
applied fail with a name collision and leave their file untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		watch, _ := cmd.Flags().GetBool("watch")
		return cli.RunBatch(cmd.Context(), env, args[0], watch)
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().BoolP("watch", "w", false, "Re-run the manifest when it changes")
}
