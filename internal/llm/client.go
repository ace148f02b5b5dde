package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

// Client is an abstraction over the model host
type Client interface {
	// Generate sends a single prompt and returns the generated text
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
	// Chat sends a message history and returns the assistant reply
	Chat(ctx context.Context, messages []Message, opts Options) (string, error)
	// Model returns the configured model name
	Model() string
}

// Message is a single chat turn
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ModelInfo is a model registered on the host
type ModelInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size,omitempty"`
}

type requestOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options requestOptions `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []Message      `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  requestOptions `json:"options"`
}

type chatResponse struct {
	Message Message `json:"message"`
	Done    bool    `json:"done"`
}

type tagsResponse struct {
	Models []ModelInfo `json:"models"`
}

type pullRequest struct {
	Name   string `json:"name"`
	Stream bool   `json:"stream"`
}

type pullResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// OllamaClient implements Client against an Ollama-protocol host.
// Failures are returned as errors; callers decide how to degrade.
type OllamaClient struct {
	config     *Config
	httpClient *http.Client
	pullClient *http.Client
	logger     *log.Logger
}

// NewOllamaClient creates a client without contacting the host.
func NewOllamaClient(config *Config, logger *log.Logger) *OllamaClient {
	config = config.withDefaults()
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &OllamaClient{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		pullClient: &http.Client{Timeout: config.PullTimeout},
		logger:     logger,
	}
}

// Model returns the configured model name
func (c *OllamaClient) Model() string {
	return c.config.Model
}

// Generate sends a prompt to /api/generate
func (c *OllamaClient) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	opts = opts.resolved()
	c.logger.Printf("[MODEL] generate model=%s prompt=%d chars", c.config.Model, len(prompt))

	var resp generateResponse
	err := c.postJSON(ctx, c.httpClient, "generate", "/api/generate", generateRequest{
		Model:  c.config.Model,
		Prompt: prompt,
		Stream: false,
		Options: requestOptions{
			Temperature: opts.Temperature,
			NumPredict:  opts.MaxTokens,
		},
	}, &resp)
	if err != nil {
		c.logger.Printf("[MODEL] generate failed: %v", err)
		return "", err
	}
	if strings.TrimSpace(resp.Response) == "" {
		return "", &Error{Op: "generate", Cause: ErrEmptyResponse}
	}
	return resp.Response, nil
}

// Chat sends a message history to /api/chat
func (c *OllamaClient) Chat(ctx context.Context, messages []Message, opts Options) (string, error) {
	opts = opts.resolved()
	c.logger.Printf("[MODEL] chat model=%s messages=%d", c.config.Model, len(messages))

	var resp chatResponse
	err := c.postJSON(ctx, c.httpClient, "chat", "/api/chat", chatRequest{
		Model:    c.config.Model,
		Messages: messages,
		Stream:   false,
		Options: requestOptions{
			Temperature: opts.Temperature,
			NumPredict:  opts.MaxTokens,
		},
	}, &resp)
	if err != nil {
		c.logger.Printf("[MODEL] chat failed: %v", err)
		return "", err
	}
	if strings.TrimSpace(resp.Message.Content) == "" {
		return "", &Error{Op: "chat", Cause: ErrEmptyResponse}
	}
	return resp.Message.Content, nil
}

// ListModels returns the models registered on the host
func (c *OllamaClient) ListModels(ctx context.Context) ([]ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/api/tags", nil)
	if err != nil {
		return nil, &Error{Op: "tags", Message: "failed to create request", Cause: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Op: "tags", Cause: fmt.Errorf("%w: %w", ErrModelUnavailable, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Op: "tags", StatusCode: resp.StatusCode, Message: readSnippet(resp.Body)}
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, &Error{Op: "tags", Message: "failed to decode response", Cause: err}
	}
	return tags.Models, nil
}

// HasModel reports whether the configured model is registered on the host
func (c *OllamaClient) HasModel(ctx context.Context) (bool, error) {
	models, err := c.ListModels(ctx)
	if err != nil {
		return false, err
	}
	for _, m := range models {
		if modelMatches(m.Name, c.config.Model) {
			return true, nil
		}
	}
	return false, nil
}

// EnsureModel verifies the host is reachable and pulls the model if it is missing.
// The pull blocks until the host reports completion.
func (c *OllamaClient) EnsureModel(ctx context.Context) error {
	ok, err := c.HasModel(ctx)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	c.logger.Printf("[MODEL] model %s not found on %s, pulling", c.config.Model, c.config.BaseURL)
	var resp pullResponse
	if err := c.postJSON(ctx, c.pullClient, "pull", "/api/pull", pullRequest{Name: c.config.Model, Stream: false}, &resp); err != nil {
		return err
	}
	if resp.Error != "" {
		return &Error{Op: "pull", Message: resp.Error, Cause: ErrModelNotFound}
	}
	c.logger.Printf("[MODEL] pulled model %s (status=%s)", c.config.Model, resp.Status)
	return nil
}

func (c *OllamaClient) postJSON(ctx context.Context, client *http.Client, op, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &Error{Op: op, Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &Error{Op: op, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return &Error{Op: op, Cause: fmt.Errorf("%w: %w", ErrModelUnavailable, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return &Error{Op: op, StatusCode: resp.StatusCode, Message: readSnippet(resp.Body), Cause: ErrModelNotFound}
	}
	if resp.StatusCode != http.StatusOK {
		return &Error{Op: op, StatusCode: resp.StatusCode, Message: readSnippet(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// modelMatches compares model names, treating a missing tag as ":latest"
func modelMatches(registered, wanted string) bool {
	if registered == wanted {
		return true
	}
	if !strings.Contains(wanted, ":") {
		return registered == wanted+":latest"
	}
	return false
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(b))
}
