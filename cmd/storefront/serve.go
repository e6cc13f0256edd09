package main

import (
	"github.com/spf13/cobra"

	"github.com/wowstore/storefront/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the storefront server",
	Long: `Start the storefront HTTP server.

Host and port default to the server section of the config file.
The config file is watched; provider credentials reload on change.

The server provides:
  - /health - Basic server health check
  - /status - Providers and upstream configuration
  - /api/*  - Bundle, chat, search, recommendation, event and catalog endpoints

Examples:
  storefront serve                    # Start on the configured port
  storefront serve --port 3000        # Start on custom port
  storefront serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger, err := newLogger()
		if err != nil {
			return err
		}

		h, err := getHome()
		if err != nil {
			return err
		}

		mgr, err := loadConfig(h)
		if err != nil {
			return err
		}
		if used := mgr.ConfigFileUsed(); used != "" {
			logger.Info("loaded config", "file", used)
			mgr.WatchConfig()
		} else {
			logger.Info("no config file found, using defaults and environment")
		}

		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			ConfigManager: mgr,
			Home:          h,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default from config)")

	rootCmd.AddCommand(serveCmd)
}
