package generation

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/jonathan/profile-agent/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSkills(t *testing.T) {
	reply := strings.Join([]string{
		"1. Python",
		"- SQL",
		"* \"Apache Airflow\"",
		"• 'Snowflake'",
		"",
		"Python",
		"python",
		"2) ETL",
	}, "\n")

	skills := ParseSkills(reply, 50)
	assert.Equal(t, []string{"Python", "SQL", "Apache Airflow", "Snowflake", "python", "ETL"}, skills)
}

func TestParseSkills_TruncatesToMax(t *testing.T) {
	lines := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		lines = append(lines, fmt.Sprintf("Skill %c", 'A'+i))
	}

	skills := ParseSkills(strings.Join(lines, "\n"), 10)
	assert.Len(t, skills, 10)
	assert.Equal(t, "Skill A", skills[0])
}

func TestSelectSkills_Properties(t *testing.T) {
	reply := "Python\nSQL\nPython\nAirflow\nSQL\nLeadership\nDocker\nKubernetes"

	for _, maxSkills := range []int{1, 3, 5, 10} {
		t.Run(fmt.Sprintf("max=%d", maxSkills), func(t *testing.T) {
			g := New(replying(reply), nil)
			skills, src := g.SelectSkills(context.Background(), samplePortfolio(), types.PlatformUpwork, maxSkills)

			assert.Equal(t, SourceModel, src)
			assert.LessOrEqual(t, len(skills), maxSkills)
			assert.NotEmpty(t, skills)

			seen := map[string]bool{}
			for _, s := range skills {
				assert.False(t, seen[s], "duplicate skill %q", s)
				seen[s] = true
			}
		})
	}
}

func TestSelectSkills_EmptyInputReturnsDefaultsWithoutModel(t *testing.T) {
	client := replying("should not be used")
	g := New(client, nil)
	data := samplePortfolio()
	data.Skills = types.Skills{}

	skills, src := g.SelectSkills(context.Background(), data, types.PlatformLinkedIn, 50)
	assert.Equal(t, SourceFallback, src)
	assert.Equal(t, DefaultSkills, skills)
	assert.Len(t, skills, 5)
	assert.Equal(t, 0, client.calls())
}

func TestSelectSkills_DefaultsAreCopied(t *testing.T) {
	g := New(failing(), nil)
	data := &types.PortfolioData{}

	skills, _ := g.SelectSkills(context.Background(), data, types.PlatformUpwork, 50)
	skills[0] = "mutated"
	assert.Equal(t, "Python", DefaultSkills[0])
}

func TestSelectSkills_FallsBackToInputSkills(t *testing.T) {
	g := New(failing(), nil)
	data := samplePortfolio()
	data.Skills.Soft = append(data.Skills.Soft, "SQL")

	skills, src := g.SelectSkills(context.Background(), data, types.PlatformUpwork, 3)
	assert.Equal(t, SourceFallback, src)
	assert.Equal(t, []string{"SQL", "Python", "Airflow"}, skills)
}

func TestSelectSkills_FallsBackWhenReplyHasNoSkills(t *testing.T) {
	g := New(replying("\n - \n 1. \n"), nil)

	skills, src := g.SelectSkills(context.Background(), samplePortfolio(), types.PlatformUpwork, 10)
	assert.Equal(t, SourceFallback, src)
	require.NotEmpty(t, skills)
	assert.Equal(t, "SQL", skills[0])
}

func TestSelectSkills_NonPositiveMaxUsesDefault(t *testing.T) {
	client := replying("Python")
	g := New(client, nil)

	_, _ = g.SelectSkills(context.Background(), samplePortfolio(), types.PlatformDefault, 0)
	assert.Contains(t, client.prompts[0], "maximum 50")
}
