package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/profile-agent/internal/llm"
	"github.com/jonathan/profile-agent/internal/schemas"
	"github.com/jonathan/profile-agent/internal/types"
)

// AnalysisSkills is the number of skills requested when suggestions are synthesized.
const AnalysisSkills = 10

// analysisSystemPrompt frames the analysis conversation.
const analysisSystemPrompt = "You are an expert LinkedIn profile optimizer. Reply with a single JSON object and no other text."

// ErrAnalysisUnsupported is returned for platforms without profile analysis.
var ErrAnalysisUnsupported = errors.New("profile analysis not supported for platform")

// AnalyzeProfile compares a live profile against portfolio data and returns
// improvement suggestions. When the model reply is not a valid suggestion
// document the set is synthesized from the other generator operations;
// Source on the result tells the two apart.
func (g *Generator) AnalyzeProfile(ctx context.Context, current *types.LiveProfile, data *types.PortfolioData, platform types.Platform) (*types.ProfileSuggestions, error) {
	if platform != types.PlatformLinkedIn {
		return nil, fmt.Errorf("%w: %s", ErrAnalysisUnsupported, platform)
	}
	if current == nil {
		current = &types.LiveProfile{}
	}

	response, err := g.chat(ctx, analysisSystemPrompt, "analysis", platform, map[string]string{
		"CurrentProfile": toJSON(current),
		"Portfolio":      toJSON(data),
	})
	if err != nil {
		g.logger.Printf("[GENERATE] profile analysis synthesized: %v", err)
		return g.synthesizeSuggestions(ctx, data), nil
	}

	suggestions, err := ParseSuggestions(response)
	if err != nil {
		g.logger.Printf("[GENERATE] profile analysis synthesized: %v", err)
		return g.synthesizeSuggestions(ctx, data), nil
	}
	return suggestions, nil
}

// ParseSuggestions parses a model reply into a schema-valid suggestion set.
// The whole cleaned reply is tried first, then its first balanced JSON object.
func ParseSuggestions(response string) (*types.ProfileSuggestions, error) {
	cleaned := llm.CleanJSONBlock(response)

	candidate := cleaned
	if !json.Valid([]byte(candidate)) {
		obj, ok := llm.FirstJSONObject(cleaned)
		if !ok {
			return nil, errors.New("no JSON object in reply")
		}
		candidate = obj
	}

	if err := schemas.ValidateProfileSuggestions(candidate); err != nil {
		return nil, err
	}

	var suggestions types.ProfileSuggestions
	if err := json.Unmarshal([]byte(candidate), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to decode suggestions: %w", err)
	}
	if suggestions.Experiences == nil {
		suggestions.Experiences = []types.SuggestedExperience{}
	}
	suggestions.Source = types.SuggestionsFromModel
	return &suggestions, nil
}

func (g *Generator) synthesizeSuggestions(ctx context.Context, data *types.PortfolioData) *types.ProfileSuggestions {
	headline, _ := g.GenerateTitle(ctx, data, types.PlatformLinkedIn)
	about, _ := g.GenerateOverview(ctx, data, types.PlatformLinkedIn)
	skills, _ := g.SelectSkills(ctx, data, types.PlatformLinkedIn, AnalysisSkills)
	return &types.ProfileSuggestions{
		Headline:    headline,
		About:       about,
		Experiences: []types.SuggestedExperience{},
		SkillsToAdd: skills,
		Source:      types.SuggestionsSynthesized,
	}
}
