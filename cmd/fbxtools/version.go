package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/fbxtools"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fbxtools",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "fbxtools version %s\n", strings.TrimSpace(fbxtools.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
