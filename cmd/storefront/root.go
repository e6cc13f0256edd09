package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wowstore/storefront/internal/api"
	"github.com/wowstore/storefront/internal/config"
	"github.com/wowstore/storefront/internal/home"
	"github.com/wowstore/storefront/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "LLM-backed shopping services for the Wow Store",
	Long: `Storefront serves the shop's LLM-backed features over HTTP.

The server provides:
  - Product bundle extraction from a theme and a product list
  - A shopping assistant chat
  - Catalog search, recommendations and user events on Google Retail
  - Catalog indexing from the commerce platform into Google Retail`,
	Version:      version.GitRelease,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.storefront/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "storefront home directory (default: ~/.storefront)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info", "log level: debug, info, warn or error",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the process logger at the --log-level threshold.
func newLogger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// getHome returns the home directory, creating it if needed.
func getHome() (*home.Dir, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, err
	}
	return h, nil
}

// loadConfig opens the config manager, searching the working directory
// then the home directory when --config is not given.
func loadConfig(h *home.Dir) (*config.Manager, error) {
	mgr, err := config.NewManager(cfgFile, ".", h.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return mgr, nil
}
