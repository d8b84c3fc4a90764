package main

import (
	"github.com/aretw0/fbxtools/internal/cli"
	"github.com/aretw0/fbxtools/pkg/fbx"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Re-save a scene as binary or ASCII",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		format := fbx.FormatBinary
		if ascii, _ := cmd.Flags().GetBool("ascii"); ascii {
			format = fbx.FormatASCII
		}
		return cli.RunConvert(cmd.Context(), env, args[0], args[1], format)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().Bool("ascii", false, "Write the text variant")
}
