package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-agent/internal/observability"
)

var linkedInCmd = &cobra.Command{
	Use:   "linkedin",
	Short: "Analyze the live LinkedIn profile and apply suggestions",
	Long: `Log in to LinkedIn, read the current profile, ask the model for suggestions
grounded in the portfolio and apply the ones that change something.`,
	RunE: runLinkedIn,
}

var (
	linkedInPortfolioFile string
	linkedInURL           string
	linkedInUsername      string
	linkedInPassword      string
)

func init() {
	addPortfolioFlags(linkedInCmd, &linkedInPortfolioFile, &linkedInURL)
	addCredentialFlags(linkedInCmd, &linkedInUsername, &linkedInPassword)

	rootCmd.AddCommand(linkedInCmd)
}

func runLinkedIn(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd, nil)
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	ensureModel(ctx, a.model, os.Stderr)
	data, err := a.portfolio(ctx, linkedInPortfolioFile, linkedInURL)
	if err != nil {
		return err
	}

	result, err := a.builder.BuildLinkedIn(ctx, data,
		credentials(linkedInUsername, linkedInPassword, os.LookupEnv), cfg.Headless)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintBuildResult(result)
	return nil
}
