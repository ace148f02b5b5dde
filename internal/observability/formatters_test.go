package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/profile-agent/internal/builder"
	"github.com/jonathan/profile-agent/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintPortfolio(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	data := &types.PortfolioData{
		BasicInfo: types.BasicInfo{Name: "Ada Lovelace", Title: "Data Engineer", Location: "London"},
		Experience: []types.Experience{
			{Title: "Senior Data Engineer", Company: "Acme"},
		},
		Skills:      types.Skills{Technical: []string{"SQL", "Python"}, Soft: []string{"Leadership"}},
		LastUpdated: "2024-01-01T00:00:00.000000Z",
	}

	p.PrintPortfolio(data, true)
	output := buf.String()

	assert.Contains(t, output, "PORTFOLIO")
	assert.Contains(t, output, "Ada Lovelace")
	assert.Contains(t, output, "London")
	assert.Contains(t, output, "cache")
	assert.Contains(t, output, "Senior Data Engineer, Acme")
	assert.Contains(t, output, "2 technical, 1 soft")
}

func TestPrintPortfolio_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintPortfolio(nil, false)
	assert.Empty(t, buf.String())
}

func TestPrintGeneratedContent(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	rate := 55
	content := &types.GeneratedContent{
		Platform:   types.PlatformUpwork,
		Title:      "Data Engineer | Airflow | Cloud",
		Overview:   "I build data platforms.\nAnd I keep them running.",
		Skills:     []string{"SQL", "Python", "Airflow", "dbt", "Spark", "Kafka", "Go"},
		HourlyRate: &rate,
		Fallbacks:  []string{"hourly_rate"},
	}

	p.PrintGeneratedContent(content)
	output := buf.String()

	assert.Contains(t, output, "GENERATED CONTENT")
	assert.Contains(t, output, "Data Engineer | Airflow | Cloud")
	assert.Contains(t, output, "$55/hr")
	assert.Contains(t, output, "And I keep them running.")
	assert.Contains(t, output, "Spark")
	assert.NotContains(t, output, "Kafka")
	assert.Contains(t, output, "... and 2 more")
	assert.Contains(t, output, "fallback used for: hourly_rate")
}

func TestPrintGeneratedContent_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintGeneratedContent(nil)
	assert.Empty(t, buf.String())
}

func TestPrintBuildResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &builder.Result{
		Status:     builder.StatusProfileUpdated,
		Platform:   types.PlatformLinkedIn,
		Content:    &types.GeneratedContent{Platform: types.PlatformLinkedIn, Title: "Data Platform Lead"},
		ProfileURL: "https://www.linkedin.com/in/ada/",
		Changes: &types.ChangeRecord{
			Headline:    &types.FieldChange{Before: "", After: "Data Platform Lead"},
			SkillsAdded: []string{"Go"},
		},
	}

	p.PrintBuildResult(result)
	output := buf.String()

	assert.Contains(t, output, "BUILD RESULT (linkedin)")
	assert.Contains(t, output, "Profile updated")
	assert.Contains(t, output, "https://www.linkedin.com/in/ada/")
	assert.Contains(t, output, "(empty)")
	assert.Contains(t, output, "+ Data Platform Lead")
	assert.Contains(t, output, "Skills added")
}

func TestPrintBuildResult_Error(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintBuildResult(&builder.Result{
		Status:   builder.StatusError,
		Platform: types.PlatformUpwork,
		Message:  "failed to log in",
	})

	assert.Contains(t, buf.String(), "Error: failed to log in")
}

func TestPrintChangeRecords(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintChangeRecords([]types.ChangeRecord{
		{
			Timestamp: "2024-02-01T00:00:00.000000Z",
			Platform:  types.PlatformUpwork,
			Title:     &types.FieldChange{Before: "Old", After: "New"},
		},
		{
			Timestamp:  "2024-01-01T00:00:00.000000Z",
			Platform:   types.PlatformLinkedIn,
			ProfileURL: "https://www.linkedin.com/in/ada/",
		},
	})
	output := buf.String()

	assert.Contains(t, output, "PROFILE UPDATES (2)")
	assert.Contains(t, output, "2024-02-01T00:00:00.000000Z  upwork")
	assert.Contains(t, output, "- Old")
	assert.Contains(t, output, "No fields changed")
}

func TestPrintChangeRecords_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintChangeRecords(nil)
	assert.Contains(t, buf.String(), "No profile updates logged")
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintStatus("ready", "deepseek-r1", "")
	assert.Contains(t, buf.String(), "Status: ready")
	assert.Contains(t, buf.String(), "deepseek-r1")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)))
	}
	assert.Contains(t, buf.String(), "...")
}
