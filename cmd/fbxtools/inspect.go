package main

import (
	"github.com/aretw0/fbxtools/internal/cli"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "List the nodes of a scene",
	Long:  `Prints every node with its type, mesh, materials and parents.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		return cli.RunInspect(cmd.Context(), env, args[0])
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
