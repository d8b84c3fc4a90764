package main

import (
	"github.com/aretw0/fbxtools/internal/cli"
	"github.com/aretw0/fbxtools/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Exposes clone, inspection and history over a JSON API, with Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			env.Config.Server.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("root") {
			env.Config.Server.Root, _ = cmd.Flags().GetString("root")
		}
		if !env.JSON {
			tui.PrintBanner(env.Out)
		}
		return cli.Serve(cmd.Context(), env)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().String("root", "", "Only serve documents under this directory")
}
