package cli

import (
	"td-generator-be/internal/config"
	"td-generator-be/internal/server"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Runs the HTTP API. Configuration comes from .env and the environment; --port overrides APP_PORT.",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Listen port (default: $APP_PORT or 3000)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.App.Port = port
	}
	return server.Serve(cfg)
}
