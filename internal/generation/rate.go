package generation

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/profile-agent/internal/types"
)

const (
	// MinHourlyRate is the lowest rate ever suggested
	MinHourlyRate = 15
	// MaxHourlyRate is the highest rate ever suggested
	MaxHourlyRate = 150
)

var digitsPattern = regexp.MustCompile(`\d+`)

// EstimateExperienceYears approximates total experience: two years for a
// current position, one for each past position.
func EstimateExperienceYears(experience []types.Experience) int {
	years := 0
	for _, exp := range experience {
		if strings.Contains(exp.Duration, "Present") {
			years += 2
		} else {
			years++
		}
	}
	return years
}

// BaselineRate is the deterministic rate for an experience estimate.
func BaselineRate(years int) int {
	switch {
	case years < 3:
		return 25
	case years < 5:
		return 40
	case years < 8:
		return 55
	default:
		return 70
	}
}

// ParseRate extracts the first integer in a reply.
func ParseRate(response string) (int, bool) {
	match := digitsPattern.FindString(response)
	if match == "" {
		return 0, false
	}
	rate, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return rate, true
}

// ClampRate bounds rate to [MinHourlyRate, MaxHourlyRate].
func ClampRate(rate int) int {
	return max(MinHourlyRate, min(MaxHourlyRate, rate))
}

// SuggestHourlyRate suggests an hourly rate in USD. Only upwork has rates;
// other platforms get nil without a model call.
func (g *Generator) SuggestHourlyRate(ctx context.Context, data *types.PortfolioData, platform types.Platform) (*int, Source) {
	if platform != types.PlatformUpwork {
		return nil, SourceSkipped
	}

	years := EstimateExperienceYears(data.Experience)
	base := BaselineRate(years)

	recent := data.RecentExperience(2)
	titles := make([]string, 0, len(recent))
	for _, exp := range recent {
		titles = append(titles, exp.Title)
	}

	response, err := g.generate(ctx, "rate", platform, map[string]string{
		"Years":        strconv.Itoa(years),
		"RecentTitles": toJSON(titles),
		"BaseRate":     strconv.Itoa(base),
	})
	if err != nil {
		g.logger.Printf("[GENERATE] hourly rate fell back to baseline %d: %v", base, err)
		return &base, SourceFallback
	}

	rate, ok := ParseRate(response)
	if !ok {
		g.logger.Printf("[GENERATE] hourly rate fell back to baseline %d: no number in reply", base)
		return &base, SourceFallback
	}
	rate = ClampRate(rate)
	return &rate, SourceModel
}
