package generation

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/profile-agent/internal/types"
)

const (
	// TitleLimitUpwork is the Upwork professional title ceiling
	TitleLimitUpwork = 70
	// TitleLimitLinkedIn is the LinkedIn headline ceiling
	TitleLimitLinkedIn = 220
	// TitleLimitDefault applies to every other platform
	TitleLimitDefault = 100
	// Ellipsis marks a truncated title
	Ellipsis = "..."
)

// TitleLimit returns the character ceiling for a platform's title.
func TitleLimit(platform types.Platform) int {
	switch platform {
	case types.PlatformUpwork:
		return TitleLimitUpwork
	case types.PlatformLinkedIn:
		return TitleLimitLinkedIn
	default:
		return TitleLimitDefault
	}
}

// TruncateTitle shortens title to at most limit runes.
// A truncated title ends with Ellipsis and is exactly limit runes long.
func TruncateTitle(title string, limit int) string {
	if utf8.RuneCountInString(title) <= limit {
		return title
	}
	keep := limit - utf8.RuneCountInString(Ellipsis)
	if keep < 0 {
		keep = 0
	}
	runes := []rune(title)
	return string(runes[:keep]) + Ellipsis
}

// CleanTitle strips quotes and returns the first non-empty line of a model reply.
func CleanTitle(response string) string {
	response = strings.ReplaceAll(response, `"`, "")
	for _, line := range strings.Split(response, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// GenerateTitle produces a professional title or headline for the platform.
func (g *Generator) GenerateTitle(ctx context.Context, data *types.PortfolioData, platform types.Platform) (string, Source) {
	limit := TitleLimit(platform)

	response, err := g.generate(ctx, "title", platform, map[string]string{
		"CurrentTitle": data.BasicInfo.Title,
		"Experience":   toJSON(data.RecentExperience(2)),
		"Skills":       toJSON(data.Skills),
	})
	if err != nil {
		g.logger.Printf("[GENERATE] title for %s fell back: %v", platform, err)
		return TruncateTitle(fallbackTitle(data), limit), SourceFallback
	}

	title := CleanTitle(response)
	if title == "" {
		g.logger.Printf("[GENERATE] title for %s fell back: empty reply", platform)
		return TruncateTitle(fallbackTitle(data), limit), SourceFallback
	}
	return TruncateTitle(title, limit), SourceModel
}

func fallbackTitle(data *types.PortfolioData) string {
	switch {
	case strings.TrimSpace(data.BasicInfo.Title) != "":
		return strings.TrimSpace(data.BasicInfo.Title)
	case len(data.Experience) > 0 && data.Experience[0].Title != "":
		return data.Experience[0].Title
	case data.BasicInfo.Name != "":
		return data.BasicInfo.Name
	default:
		return "Professional"
	}
}
