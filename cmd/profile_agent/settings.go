package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-agent/internal/automation"
	"github.com/jonathan/profile-agent/internal/builder"
	"github.com/jonathan/profile-agent/internal/cache"
	"github.com/jonathan/profile-agent/internal/config"
	"github.com/jonathan/profile-agent/internal/extraction"
	"github.com/jonathan/profile-agent/internal/fetch"
	"github.com/jonathan/profile-agent/internal/generation"
	"github.com/jonathan/profile-agent/internal/llm"
	"github.com/jonathan/profile-agent/internal/updatelog"
)

// loadSettings resolves the effective configuration: defaults, then the
// config file, then the environment, then explicitly set flags.
func loadSettings(cmd *cobra.Command, lookup func(string) (string, bool)) (config.Config, error) {
	cfg := config.Default()
	if rootConfigPath != "" {
		loaded, err := config.LoadConfig(rootConfigPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded.MergeWithDefaults(config.Default())
	}

	if err := cfg.ApplyEnv(lookup); err != nil {
		return config.Config{}, err
	}

	// Only override if the flag was explicitly set
	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Model = rootModel
	}
	if flags.Changed("model-url") {
		cfg.ModelBaseURL = rootModelURL
	}
	if flags.Changed("use-browser") {
		cfg.UseBrowser = rootUseBrowser
	}
	if flags.Changed("headless") {
		cfg.Headless = rootHeadless
	}
	if flags.Changed("verbose") {
		cfg.Verbose = rootVerbose
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger returns the logger injected into every component. Without
// --verbose component logs are discarded.
func newLogger(cfg config.Config) *log.Logger {
	if !cfg.Verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "", log.LstdFlags)
}

// modelEnsurer checks for the configured model and pulls it when missing.
type modelEnsurer interface {
	EnsureModel(ctx context.Context) error
	Model() string
}

// ensureModel readies the model before content generation. A failure is only
// a warning: generation then degrades to its fallbacks.
func ensureModel(ctx context.Context, model modelEnsurer, warn io.Writer) bool {
	ctx, cancel := context.WithTimeout(ctx, modelStartupTimeout)
	defer cancel()
	if err := model.EnsureModel(ctx); err != nil {
		_, _ = fmt.Fprintf(warn, "Warning: model %s is not ready, generated content will use fallbacks: %v\n", model.Model(), err)
		return false
	}
	return true
}

// app holds the wired components shared by the subcommands.
type app struct {
	cfg       config.Config
	logger    *log.Logger
	model     *llm.OllamaClient
	cache     *cache.FileCache
	extractor *extraction.Extractor
	generator *generation.Generator
	builder   *builder.Builder
	updates   *updatelog.Logger
}

// newApp wires the model client, extractor, generator, builder and update log from cfg.
func newApp(cfg config.Config) (*app, error) {
	logger := newLogger(cfg)

	model := llm.NewOllamaClient(&llm.Config{
		BaseURL: cfg.ModelBaseURL,
		Model:   cfg.Model,
		Timeout: cfg.ModelTimeout(),
	}, logger)

	fileCache, err := cache.NewFileCache(cfg.CacheDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	logger.Printf("[CACHE] using %s", fileCache.Dir())

	var renderer fetch.Renderer = &fetch.HTTPRenderer{Options: fetch.DefaultOptions()}
	if cfg.UseBrowser {
		renderer = fetch.NewAutoRenderer(fetch.DefaultOptions(), fetch.BrowserOptions{}, logger)
	}

	updates, err := updatelog.New(cfg.LogDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open update log: %w", err)
	}
	logger.Printf("[UPDATELOG] using %s", updates.Dir())

	generator := generation.New(model, logger)
	return &app{
		cfg:    cfg,
		logger: logger,
		model:  model,
		cache:     fileCache,
		extractor: extraction.New(extraction.Options{
			Renderer:    renderer,
			Cache:       fileCache,
			CacheWindow: cfg.CacheWindow(),
			Logger:      logger,
		}),
		generator: generator,
		builder: builder.New(builder.Options{
			Generator: generator,
			Launcher:  automation.ChromeLauncher(automation.DefaultActionTimeout, logger),
			Recorder:  updates,
			Headless:  cfg.Headless,
			Logger:    logger,
		}),
		updates: updates,
	}, nil
}
