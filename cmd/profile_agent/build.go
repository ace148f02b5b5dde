package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-agent/internal/extraction"
	"github.com/jonathan/profile-agent/internal/observability"
	"github.com/jonathan/profile-agent/internal/types"
)

// Environment fallbacks for credentials, so passwords stay out of shell history.
const (
	envUsername = "PROFILE_USERNAME"
	envPassword = "PROFILE_PASSWORD"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate profile content and apply it to a platform",
	Long: `Generate platform-tailored profile content from portfolio data. With credentials
the content is applied to the platform through browser automation; without them
the content is only printed.`,
	RunE: runBuild,
}

var (
	buildPlatform      string
	buildPortfolioFile string
	buildURL           string
	buildUsername      string
	buildPassword      string
)

func init() {
	addPortfolioFlags(buildCmd, &buildPortfolioFile, &buildURL)
	addCredentialFlags(buildCmd, &buildUsername, &buildPassword)
	buildCmd.Flags().StringVarP(&buildPlatform, "platform", "p", "", "Target platform (upwork, linkedin)")
	_ = buildCmd.MarkFlagRequired("platform")

	rootCmd.AddCommand(buildCmd)
}

func addPortfolioFlags(cmd *cobra.Command, file, url *string) {
	cmd.Flags().StringVarP(file, "portfolio-file", "f", "", "Path to PortfolioData JSON (mutually exclusive with --url)")
	cmd.Flags().StringVarP(url, "url", "u", "", "Portfolio URL to extract (defaults to portfolio_url from config)")
}

func addCredentialFlags(cmd *cobra.Command, username, password *string) {
	cmd.Flags().StringVar(username, "username", "", "Platform login (defaults to "+envUsername+")")
	cmd.Flags().StringVar(password, "password", "", "Platform password (defaults to "+envPassword+")")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd, nil)
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	platform := types.ParsePlatform(buildPlatform)
	if !a.builder.Supports(platform) {
		return fmt.Errorf("platform %q is not supported (choose one of %v)", buildPlatform, a.builder.Platforms())
	}

	ctx := context.Background()
	ensureModel(ctx, a.model, os.Stderr)
	data, err := a.portfolio(ctx, buildPortfolioFile, buildURL)
	if err != nil {
		return err
	}

	result, err := a.builder.Build(ctx, platform, data,
		credentials(buildUsername, buildPassword, os.LookupEnv))
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintBuildResult(result)
	return nil
}

// portfolio loads PortfolioData from file, or extracts it from url (or the
// configured portfolio URL) through the cache.
func (a *app) portfolio(ctx context.Context, file, url string) (*types.PortfolioData, error) {
	if file != "" && url != "" {
		return nil, errors.New("--portfolio-file and --url are mutually exclusive; provide only one")
	}
	if file != "" {
		return readPortfolioFile(file)
	}
	if url == "" {
		url = a.cfg.PortfolioURL
	}
	result, err := a.extractor.Extract(ctx, extraction.Request{URL: url, UseCache: true})
	if err != nil {
		return nil, fmt.Errorf("failed to extract portfolio: %w", err)
	}
	return result.Data, nil
}

func readPortfolioFile(path string) (*types.PortfolioData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read portfolio file: %w", err)
	}
	var data types.PortfolioData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse portfolio file: %w", err)
	}
	return &data, nil
}

// credentials returns the login from flags, falling back to the environment.
// It returns nil when either part is missing, which makes builds content-only.
func credentials(username, password string, lookup func(string) (string, bool)) *types.Credentials {
	if username == "" {
		username, _ = lookup(envUsername)
	}
	if password == "" {
		password, _ = lookup(envPassword)
	}
	creds := &types.Credentials{Username: strings.TrimSpace(username), Password: password}
	if !creds.Usable() {
		return nil
	}
	return creds
}
