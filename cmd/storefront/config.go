package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wowstore/storefront/internal/api"
	"github.com/wowstore/storefront/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the storefront configuration file",
}

var configForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config to the home directory",
	Long: `Write the default configuration to ~/.storefront/config.yaml.

Credentials are written as ${ENV_VAR} references and resolved at load time.
An existing file is left alone unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := getHome()
		if err != nil {
			return err
		}
		if h.ConfigExists() && !configForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", h.ConfigPath())
		}
		if err := config.WriteDefault(h.ConfigPath()); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", h.ConfigPath())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults, the config file and
STOREFRONT_* environment overrides are applied. ${ENV_VAR} references
are shown unresolved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := getHome()
		if err != nil {
			return err
		}
		mgr, err := loadConfig(h)
		if err != nil {
			return err
		}
		return api.Output(mgr.Get())
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
