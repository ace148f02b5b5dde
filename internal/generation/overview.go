package generation

import (
	"context"
	"strings"

	"github.com/jonathan/profile-agent/internal/types"
)

// GenerateOverview produces the overview/about section for the platform.
// Length targets are stated in the prompt only.
func (g *Generator) GenerateOverview(ctx context.Context, data *types.PortfolioData, platform types.Platform) (string, Source) {
	experience := data.Experience
	if platform != types.PlatformUpwork && platform != types.PlatformLinkedIn {
		experience = data.RecentExperience(2)
	}

	response, err := g.generate(ctx, "overview", platform, map[string]string{
		"About":      toJSON(data.About),
		"Experience": toJSON(experience),
		"Education":  toJSON(data.Education),
		"Skills":     toJSON(data.Skills),
	})
	if err == nil {
		if overview := strings.TrimSpace(response); overview != "" {
			return overview, SourceModel
		}
		g.logger.Printf("[GENERATE] overview for %s fell back: empty reply", platform)
	} else {
		g.logger.Printf("[GENERATE] overview for %s fell back: %v", platform, err)
	}
	return fallbackOverview(data), SourceFallback
}

func fallbackOverview(data *types.PortfolioData) string {
	parts := make([]string, 0, 1+len(data.About.Highlights))
	if s := strings.TrimSpace(data.About.Summary); s != "" {
		parts = append(parts, s)
	}
	for _, h := range data.About.Highlights {
		if h = strings.TrimSpace(h); h != "" {
			parts = append(parts, "- "+h)
		}
	}
	return strings.Join(parts, "\n")
}
