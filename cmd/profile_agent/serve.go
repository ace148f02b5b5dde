package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-agent/internal/server"
	"github.com/jonathan/profile-agent/internal/server/ratelimit"
)

// modelStartupTimeout bounds the model check (and pull) at server start.
const modelStartupTimeout = 30 * time.Minute

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Start an HTTP server that exposes JSON endpoints for extraction, profile building and the update log.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT and the config file)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd, nil)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	// The server always logs
	cfg.Verbose = true

	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	ensureModel(context.Background(), a.model, os.Stderr)

	srv, err := server.New(server.Config{
		Port:      cfg.Port,
		Extractor: a.extractor,
		Builder:   a.builder,
		Logs:      a.updates,
		Model:     a.model,
		RateLimit: ratelimit.LoadConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst),
		Logger:    a.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
