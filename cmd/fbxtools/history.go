package main

import (
	"github.com/aretw0/fbxtools/internal/cli"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [operation-id]",
	Short: "List recorded clone operations",
	Long:  `Lists the operations stored in the journal, or shows one of them in full.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		return cli.RunHistory(cmd.Context(), env, id)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
