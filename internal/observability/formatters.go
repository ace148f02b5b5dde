// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/profile-agent/internal/builder"
	"github.com/jonathan/profile-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// clip shortens s to n runes, marking the cut with "...".
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList writes up to maxItemsToShow bullet items and a remainder line.
func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// PrintPortfolio outputs a summary of extracted portfolio data.
func (p *Printer) PrintPortfolio(data *types.PortfolioData, fromCache bool) {
	if data == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", data.BasicInfo.Name))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", data.BasicInfo.Title))
	if data.BasicInfo.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", data.BasicInfo.Location))
	}
	source := "fresh extraction"
	if fromCache {
		source = "cache"
	}
	sb.WriteString(fmt.Sprintf("Source:   %s (%s)\n", source, data.LastUpdated))
	sb.WriteString("\n")

	if len(data.Experience) > 0 {
		roles := make([]string, 0, len(data.Experience))
		for _, exp := range data.Experience {
			roles = append(roles, fmt.Sprintf("%s, %s", exp.Title, exp.Company))
		}
		writeList(&sb, "Experience", roles)
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Education:    %d entries\n", len(data.Education)))
	sb.WriteString(fmt.Sprintf("Skills:       %d technical, %d soft\n", len(data.Skills.Technical), len(data.Skills.Soft)))
	sb.WriteString(fmt.Sprintf("Testimonials: %d", len(data.Testimonials)))

	p.printBox("PORTFOLIO", sb.String())
}

// PrintGeneratedContent outputs generated profile content.
func (p *Printer) PrintGeneratedContent(content *types.GeneratedContent) {
	if content == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Platform: %s\n", content.Platform))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", content.Title))
	if content.HourlyRate != nil {
		sb.WriteString(fmt.Sprintf("Rate:     $%d/hr\n", *content.HourlyRate))
	}
	sb.WriteString("\n")

	if content.Overview != "" {
		sb.WriteString("Overview:\n")
		for i, line := range strings.Split(content.Overview, "\n") {
			if i == maxItemsToShow {
				sb.WriteString("  ...\n")
				break
			}
			sb.WriteString("  " + line + "\n")
		}
		sb.WriteString("\n")
	}

	writeList(&sb, "Skills", content.Skills)
	if len(content.Fallbacks) > 0 {
		sb.WriteString(fmt.Sprintf("\n⚠ fallback used for: %s\n", strings.Join(content.Fallbacks, ", ")))
	}

	p.printBox("GENERATED CONTENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBuildResult outputs the outcome of a profile build.
func (p *Printer) PrintBuildResult(result *builder.Result) {
	if result == nil {
		return
	}

	p.PrintGeneratedContent(result.Content)

	var sb strings.Builder
	switch result.Status {
	case builder.StatusProfileUpdated:
		sb.WriteString("✅ Profile updated\n")
	case builder.StatusContentGenerated:
		sb.WriteString("Content generated (no credentials, nothing written)\n")
	default:
		sb.WriteString(fmt.Sprintf("❌ Error: %s\n", result.Message))
	}
	if result.ProfileURL != "" {
		sb.WriteString(fmt.Sprintf("Profile: %s\n", result.ProfileURL))
	}
	if result.Changes != nil {
		sb.WriteString("\n")
		writeChanges(&sb, result.Changes)
	}

	p.printBox(fmt.Sprintf("BUILD RESULT (%s)", result.Platform), strings.TrimSuffix(sb.String(), "\n"))
}

func writeChanges(sb *strings.Builder, record *types.ChangeRecord) {
	if !record.HasChanges() {
		sb.WriteString("No fields changed\n")
		return
	}
	fields := []struct {
		name   string
		change *types.FieldChange
	}{
		{"Headline", record.Headline},
		{"About", record.About},
		{"Title", record.Title},
		{"Overview", record.Overview},
		{"Rate", record.HourlyRate},
	}
	for _, f := range fields {
		if f.change == nil {
			continue
		}
		before := f.change.Before
		if before == "" {
			before = "(empty)"
		}
		sb.WriteString(fmt.Sprintf("%s:\n  - %s\n  + %s\n", f.name, clip(firstLine(before), 45), clip(firstLine(f.change.After), 45)))
	}
	writeList(sb, "Skills added", record.SkillsAdded)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// PrintChangeRecords outputs update log entries, newest first as given.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintChangeRecords(records []types.ChangeRecord) {
	if len(records) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "No profile updates logged")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	for i := range records {
		r := &records[i]
		sb.WriteString(fmt.Sprintf("%s  %s\n", r.Timestamp, r.Platform))
		if r.ProfileURL != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", r.ProfileURL))
		}
		writeChanges(&sb, r)
		if i < len(records)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(fmt.Sprintf("PROFILE UPDATES (%d)", len(records)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStatus outputs the model host status.
func (p *Printer) PrintStatus(status, model, message string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Status: %s", status))
	if model != "" {
		sb.WriteString(fmt.Sprintf("\nModel:  %s", model))
	}
	if message != "" {
		sb.WriteString(fmt.Sprintf("\n%s", message))
	}
	p.printBox("MODEL HOST", sb.String())
}
