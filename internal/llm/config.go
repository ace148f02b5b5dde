// Package llm provides the client for the locally hosted language-model server.
// The server speaks the Ollama HTTP protocol (/api/generate, /api/chat, /api/tags, /api/pull).
package llm

import "time"

const (
	// DefaultBaseURL is the local model host endpoint
	DefaultBaseURL = "http://localhost:11434"
	// DefaultModel is the model used for profile generation
	DefaultModel = "deepseek-r1"
	// DefaultTimeout bounds a single generate or chat call
	DefaultTimeout = 120 * time.Second
	// DefaultPullTimeout bounds a blocking model pull
	DefaultPullTimeout = 30 * time.Minute
	// DefaultMaxTokens is the num_predict sent when Options leaves it zero
	DefaultMaxTokens = 2000
	// DefaultTemperature is the sampling temperature sent when Options leaves it zero
	DefaultTemperature = 0.7
)

// Config holds the model host configuration
type Config struct {
	BaseURL     string
	Model       string
	Timeout     time.Duration
	PullTimeout time.Duration
}

// DefaultConfig returns the default local configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		Model:       DefaultModel,
		Timeout:     DefaultTimeout,
		PullTimeout: DefaultPullTimeout,
	}
}

// withDefaults returns a copy with zero fields filled in
func (c *Config) withDefaults() *Config {
	out := DefaultConfig()
	if c == nil {
		return out
	}
	if c.BaseURL != "" {
		out.BaseURL = c.BaseURL
	}
	if c.Model != "" {
		out.Model = c.Model
	}
	if c.Timeout > 0 {
		out.Timeout = c.Timeout
	}
	if c.PullTimeout > 0 {
		out.PullTimeout = c.PullTimeout
	}
	return out
}

// WithModel returns a new Config that targets a different model
func (c *Config) WithModel(model string) *Config {
	out := c.withDefaults()
	out.Model = model
	return out
}

// Options are per-call sampling options
type Options struct {
	MaxTokens   int
	Temperature float64
}

func (o Options) resolved() Options {
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.Temperature <= 0 {
		o.Temperature = DefaultTemperature
	}
	return o
}
