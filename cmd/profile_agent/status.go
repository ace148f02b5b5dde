package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-agent/internal/llm"
	"github.com/jonathan/profile-agent/internal/observability"
	"github.com/jonathan/profile-agent/internal/server"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the model host serves the configured model",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd, nil)
	if err != nil {
		return err
	}
	model := llm.NewOllamaClient(&llm.Config{
		BaseURL: cfg.ModelBaseURL,
		Model:   cfg.Model,
		Timeout: cfg.ModelTimeout(),
	}, newLogger(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status := server.ProbeModel(ctx, model)
	observability.NewPrinter(os.Stdout).PrintStatus(status.Status, model.Model(), status.Message)
	return nil
}
