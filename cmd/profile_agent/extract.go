package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-agent/internal/extraction"
	"github.com/jonathan/profile-agent/internal/observability"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract structured data from a portfolio site",
	Long:  "Extract a portfolio site into PortfolioData JSON, reusing a cached extraction when it is still fresh.",
	RunE:  runExtract,
}

var (
	extractURL          string
	extractUseCache     bool
	extractForceRefresh bool
	extractOutputFile   string
	extractClearCache   bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractURL, "url", "u", "", "Portfolio URL (defaults to portfolio_url from config)")
	extractCmd.Flags().BoolVar(&extractUseCache, "use-cache", true, "Serve from cache when the entry is fresh")
	extractCmd.Flags().BoolVar(&extractForceRefresh, "force-refresh", false, "Ignore the cache and extract again")
	extractCmd.Flags().BoolVar(&extractClearCache, "clear-cache", false, "Delete the cached entry for the URL before extracting")
	extractCmd.Flags().StringVarP(&extractOutputFile, "out", "o", "", "Write PortfolioData JSON to this file instead of printing a summary")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd, nil)
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	url := extractURL
	if url == "" {
		url = cfg.PortfolioURL
	}

	if extractClearCache {
		if err := a.cache.Delete(url); err != nil {
			return fmt.Errorf("failed to clear cache entry: %w", err)
		}
	}

	result, err := a.extractor.Extract(context.Background(), extraction.Request{
		URL:          url,
		UseCache:     extractUseCache,
		ForceRefresh: extractForceRefresh,
	})
	if err != nil {
		return fmt.Errorf("failed to extract portfolio: %w", err)
	}

	if extractOutputFile == "" {
		observability.NewPrinter(os.Stdout).PrintPortfolio(result.Data, result.FromCache)
		return nil
	}

	raw, err := json.MarshalIndent(result.Data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal portfolio data: %w", err)
	}
	if err := os.WriteFile(extractOutputFile, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Wrote portfolio data to %s\n", extractOutputFile)
	return nil
}
