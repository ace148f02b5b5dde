package generation

import (
	"context"
	"strconv"
	"strings"

	"github.com/jonathan/profile-agent/internal/types"
)

// DefaultMaxSkills is used when a caller passes a non-positive maximum.
const DefaultMaxSkills = 50

// DefaultSkills is returned when the portfolio lists no skills at all.
var DefaultSkills = []string{"Python", "Data Engineering", "SQL", "ETL", "Cloud Services"}

// skillPrefixChars are stripped from the start of each reply line.
const skillPrefixChars = "*-•0123456789.) \t"

// SelectSkills picks the most relevant skills for the platform.
// The result never exceeds maxSkills and contains no exact duplicates.
func (g *Generator) SelectSkills(ctx context.Context, data *types.PortfolioData, platform types.Platform, maxSkills int) ([]string, Source) {
	if maxSkills <= 0 {
		maxSkills = DefaultMaxSkills
	}

	all := data.Skills.All()
	if len(all) == 0 {
		return truncateList(append([]string(nil), DefaultSkills...), maxSkills), SourceFallback
	}

	response, err := g.generate(ctx, "skills", platform, map[string]string{
		"MaxSkills":  strconv.Itoa(maxSkills),
		"Skills":     toJSON(all),
		"Experience": toJSON(data.Experience),
	})
	if err != nil {
		g.logger.Printf("[GENERATE] skills for %s fell back: %v", platform, err)
		return dedupe(all, maxSkills), SourceFallback
	}

	skills := ParseSkills(response, maxSkills)
	if len(skills) == 0 {
		g.logger.Printf("[GENERATE] skills for %s fell back: no skills in reply", platform)
		return dedupe(all, maxSkills), SourceFallback
	}
	return skills, SourceModel
}

// ParseSkills turns a one-skill-per-line reply into a clean list.
// Leading bullets and numerals and surrounding quotes are stripped.
func ParseSkills(response string, maxSkills int) []string {
	lines := strings.Split(strings.TrimSpace(response), "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		skill := strings.TrimLeft(strings.TrimSpace(line), skillPrefixChars)
		skill = strings.TrimSpace(strings.Trim(skill, `"'`))
		if skill != "" {
			cleaned = append(cleaned, skill)
		}
	}
	return dedupe(cleaned, maxSkills)
}

// dedupe keeps first occurrences (case-sensitive) up to n entries.
func dedupe(items []string, n int) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, min(len(items), n))
	for _, item := range items {
		if len(out) >= n {
			break
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func truncateList(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
