package main

import (
	"github.com/aretw0/fbxtools/internal/cli"
	"github.com/aretw0/fbxtools/pkg/domain"
	"github.com/spf13/cobra"
)

var cloneCmd = &cobra.Command{
	Use:   "clone <file> <source> <destination>",
	Short: "Duplicate a node and its mesh",
	Long: `Copies the node named <source> together with its mesh geometry as <destination>,
connects the copy to every parent of the source and saves the file.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		return cli.RunClone(cmd.Context(), env, domain.CloneRequest{
			Path:        args[0],
			Source:      args[1],
			Destination: args[2],
		})
	},
}

func init() {
	rootCmd.AddCommand(cloneCmd)
}
