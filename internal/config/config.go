// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults used when neither the config file nor the environment sets a value.
const (
	DefaultPortfolioURL         = "https://rishavchatterjee.vercel.app/"
	DefaultModel                = "deepseek-r1"
	DefaultModelBaseURL         = "http://localhost:11434"
	DefaultModelTimeoutSeconds  = 120
	DefaultCacheDir             = "cache"
	DefaultCacheDurationMinutes = 60
	DefaultLogDir               = "logs"
	DefaultPort                 = 8080
	DefaultRateLimitPerMinute   = 30
	DefaultRateLimitBurst       = 5
)

// Config represents the configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Source
	PortfolioURL string `json:"portfolio_url,omitempty" yaml:"portfolio_url,omitempty"` // Portfolio site to extract

	// Model host
	Model               string `json:"model,omitempty" yaml:"model,omitempty"`                                 // Model name on the host
	ModelBaseURL        string `json:"model_base_url,omitempty" yaml:"model_base_url,omitempty"`               // Ollama-protocol endpoint
	ModelTimeoutSeconds int    `json:"model_timeout_seconds,omitempty" yaml:"model_timeout_seconds,omitempty"` // Per-call timeout

	// Storage
	CacheDir             string `json:"cache_dir,omitempty" yaml:"cache_dir,omitempty"`                             // Extraction cache directory
	CacheDurationMinutes int    `json:"cache_duration_minutes,omitempty" yaml:"cache_duration_minutes,omitempty"` // Cache window
	LogDir               string `json:"log_dir,omitempty" yaml:"log_dir,omitempty"`                                 // Update log directory

	// Server
	Port               int `json:"port,omitempty" yaml:"port,omitempty"`
	RateLimitPerMinute int `json:"rate_limit_per_minute,omitempty" yaml:"rate_limit_per_minute,omitempty"` // POST requests per client
	RateLimitBurst     int `json:"rate_limit_burst,omitempty" yaml:"rate_limit_burst,omitempty"`

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty" yaml:"use_browser,omitempty"` // Render thin pages in headless Chrome
	Headless   bool `json:"headless,omitempty" yaml:"headless,omitempty"`       // Run automation without a window
	Verbose    bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`         // Print detailed debug information
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		PortfolioURL:         DefaultPortfolioURL,
		Model:                DefaultModel,
		ModelBaseURL:         DefaultModelBaseURL,
		ModelTimeoutSeconds:  DefaultModelTimeoutSeconds,
		CacheDir:             DefaultCacheDir,
		CacheDurationMinutes: DefaultCacheDurationMinutes,
		LogDir:               DefaultLogDir,
		Port:                 DefaultPort,
		RateLimitPerMinute:   DefaultRateLimitPerMinute,
		RateLimitBurst:       DefaultRateLimitBurst,
		UseBrowser:           true,
		Headless:             true,
	}
}

// LoadConfig loads configuration from a file. Files ending in .yaml or .yml
// are decoded as YAML, anything else as JSON.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are filled
// by MergeWithDefaults.
func (c *Config) Validate() error {
	if err := checkHTTPURL("portfolio_url", c.PortfolioURL); err != nil {
		return err
	}
	if err := checkHTTPURL("model_base_url", c.ModelBaseURL); err != nil {
		return err
	}

	// Validate numeric ranges
	if c.ModelTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'model_timeout_seconds' must be non-negative")
	}
	if c.CacheDurationMinutes < 0 {
		return fmt.Errorf("config error: 'cache_duration_minutes' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("config error: 'rate_limit_per_minute' must be non-negative")
	}
	if c.RateLimitBurst < 0 {
		return fmt.Errorf("config error: 'rate_limit_burst' must be non-negative")
	}

	return nil
}

func checkHTTPURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config error: '%s' must be an http(s) URL: %s", field, raw)
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.PortfolioURL == "" {
		result.PortfolioURL = defaults.PortfolioURL
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.ModelBaseURL == "" {
		result.ModelBaseURL = defaults.ModelBaseURL
	}
	if result.CacheDir == "" {
		result.CacheDir = defaults.CacheDir
	}
	if result.LogDir == "" {
		result.LogDir = defaults.LogDir
	}

	// Int fields: use default if zero
	if result.ModelTimeoutSeconds == 0 {
		result.ModelTimeoutSeconds = defaults.ModelTimeoutSeconds
	}
	if result.CacheDurationMinutes == 0 {
		result.CacheDurationMinutes = defaults.CacheDurationMinutes
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.RateLimitPerMinute == 0 {
		result.RateLimitPerMinute = defaults.RateLimitPerMinute
	}
	if result.RateLimitBurst == 0 {
		result.RateLimitBurst = defaults.RateLimitBurst
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ApplyEnv overrides fields from environment variables. lookup is os.LookupEnv
// outside tests. A non-numeric PORT is an error.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	strs := []struct {
		key string
		dst *string
	}{
		{"OLLAMA_BASE_URL", &c.ModelBaseURL},
		{"OLLAMA_MODEL", &c.Model},
		{"PORTFOLIO_URL", &c.PortfolioURL},
		{"PROFILE_CACHE_DIR", &c.CacheDir},
		{"PROFILE_LOG_DIR", &c.LogDir},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok && strings.TrimSpace(v) != "" {
			*s.dst = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup("PORT"); ok && strings.TrimSpace(v) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config error: PORT must be an integer: %q", v)
		}
		c.Port = port
	}
	return nil
}

// ModelTimeout returns the per-call model timeout.
func (c *Config) ModelTimeout() time.Duration {
	return time.Duration(c.ModelTimeoutSeconds) * time.Second
}

// CacheWindow returns the extraction cache window.
func (c *Config) CacheWindow() time.Duration {
	return time.Duration(c.CacheDurationMinutes) * time.Minute
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
