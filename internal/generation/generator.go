// Package generation builds platform-specific prompts from portfolio data, calls the
// model host, and post-processes replies into clean profile values.
//
// Every operation degrades to a deterministic value when the model fails and
// reports which path produced the value through a Source tag.
package generation

import (
	"context"
	"encoding/json"
	"io"
	"log"

	"github.com/jonathan/profile-agent/internal/llm"
	"github.com/jonathan/profile-agent/internal/prompts"
	"github.com/jonathan/profile-agent/internal/types"
)

const promptFile = "generation.json"

// Source tells the caller where a generated value came from.
type Source string

const (
	// SourceModel means the value was derived from model output
	SourceModel Source = "model"
	// SourceFallback means the model failed and a deterministic value was used
	SourceFallback Source = "fallback"
	// SourceSkipped means the operation does not apply to the platform
	SourceSkipped Source = "skipped"
)

// Generator produces platform-tailored profile copy.
type Generator struct {
	client llm.Client
	logger *log.Logger
	opts   llm.Options
}

// New creates a Generator. A nil logger discards output.
func New(client llm.Client, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Generator{
		client: client,
		logger: logger,
		opts:   llm.Options{MaxTokens: llm.DefaultMaxTokens, Temperature: llm.DefaultTemperature},
	}
}

// GenerateContent runs title, overview, skills and (for upwork) hourly rate generation.
func (g *Generator) GenerateContent(ctx context.Context, data *types.PortfolioData, platform types.Platform, maxSkills int) *types.GeneratedContent {
	content := &types.GeneratedContent{Platform: platform}

	var src Source
	content.Title, src = g.GenerateTitle(ctx, data, platform)
	content.Fallbacks = appendFallback(content.Fallbacks, "title", src)

	content.Overview, src = g.GenerateOverview(ctx, data, platform)
	content.Fallbacks = appendFallback(content.Fallbacks, "overview", src)

	content.Skills, src = g.SelectSkills(ctx, data, platform, maxSkills)
	content.Fallbacks = appendFallback(content.Fallbacks, "skills", src)

	content.HourlyRate, src = g.SuggestHourlyRate(ctx, data, platform)
	content.Fallbacks = appendFallback(content.Fallbacks, "hourly_rate", src)

	return content
}

func appendFallback(fallbacks []string, field string, src Source) []string {
	if src == SourceFallback {
		return append(fallbacks, field)
	}
	return fallbacks
}

// generate renders a prompt variant and calls the model.
func (g *Generator) generate(ctx context.Context, op string, platform types.Platform, data map[string]string) (string, error) {
	template, err := prompts.GetVariant(promptFile, op, string(platform))
	if err != nil {
		return "", err
	}
	response, err := g.client.Generate(ctx, prompts.Format(template, data), g.opts)
	if err != nil {
		return "", err
	}
	return llm.StripThinking(response), nil
}

// chat renders a prompt variant as the user turn of a conversation framed by system.
func (g *Generator) chat(ctx context.Context, system, op string, platform types.Platform, data map[string]string) (string, error) {
	template, err := prompts.GetVariant(promptFile, op, string(platform))
	if err != nil {
		return "", err
	}
	response, err := g.client.Chat(ctx, []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: prompts.Format(template, data)},
	}, g.opts)
	if err != nil {
		return "", err
	}
	return llm.StripThinking(response), nil
}

// toJSON renders v as indented JSON for embedding in prompts.
func toJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "null"
	}
	return string(b)
}
