package main

import (
	"github.com/aretw0/fbxtools/internal/cli"
	"github.com/aretw0/fbxtools/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Export the scene hierarchy visualization",
	Long:  `Inspects the scene and outputs a Mermaid diagram (graph TD) of the node hierarchy.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		source, _ := cmd.Flags().GetString("source")
		clone, _ := cmd.Flags().GetString("clone")

		var overlay *graph.GraphOverlay
		if source != "" || clone != "" {
			overlay = &graph.GraphOverlay{Source: source, Clone: clone}
		}
		return cli.RunGraph(cmd.Context(), env, args[0], overlay)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("source", "", "Highlight this node as a clone source")
	graphCmd.Flags().String("clone", "", "Highlight this node as a clone")
}
