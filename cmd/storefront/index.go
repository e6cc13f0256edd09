package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wowstore/storefront/internal/api"
	"github.com/wowstore/storefront/internal/catalog"
	"github.com/wowstore/storefront/internal/retail"
	"github.com/wowstore/storefront/internal/server"
)

var indexFile string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Import products into the retail catalog without a server",
	Long: `Import products into the Google Retail catalog directly.

Without --file, every product is pulled from the commerce platform's
Storefront API. With --file, the JSON array of products in the file is
imported instead.

Use "storefront api index" to run the same import through a running server.`,
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

		services, closer, err := server.BuildServices(ctx, server.ServicesConfig{
			Config:  mgr.Get(),
			Manager: mgr,
			Logger:  logger,
		})
		if err != nil {
			return err
		}
		defer closer()

		if services.Indexer == nil {
			return retail.ErrNotConfigured
		}

		var summary catalog.Summary
		if indexFile != "" {
			data, err := os.ReadFile(indexFile)
			if err != nil {
				return fmt.Errorf("failed to read products file: %w", err)
			}
			var products []retail.CatalogProduct
			if err := json.Unmarshal(data, &products); err != nil {
				return fmt.Errorf("failed to parse products file: %w", err)
			}
			summary, err = services.Indexer.Index(ctx, products)
			if err != nil {
				return err
			}
		} else {
			summary, err = services.Indexer.IndexAll(ctx)
			if err != nil {
				return err
			}
		}
		return api.Output(summary)
	},
}

func init() {
	indexCmd.Flags().StringVar(&indexFile, "file", "", "JSON file with a products array")

	rootCmd.AddCommand(indexCmd)
}
