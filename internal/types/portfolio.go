// Package types provides type definitions for structured data used throughout the profile agent.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// TimestampLayout is the fixed-width UTC layout used for every persisted timestamp.
// Fixed width keeps lexical order identical to chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Timestamp formats t with TimestampLayout in UTC.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// PortfolioData is the structured professional profile scraped from a portfolio site.
// It is produced by the extractor and treated as read-only downstream.
type PortfolioData struct {
	BasicInfo    BasicInfo     `json:"basic_info"`
	About        About         `json:"about"`
	Experience   []Experience  `json:"experience"`
	Education    []Education   `json:"education"`
	Skills       Skills        `json:"skills"`
	Testimonials []Testimonial `json:"testimonials"`
	LastUpdated  string        `json:"last_updated,omitempty"`
}

// BasicInfo holds identity and headline fields.
type BasicInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Title    string `json:"title"`
	Location string `json:"location"`
}

// About holds the free-form summary section.
type About struct {
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights"`
}

// Experience is a single position.
type Experience struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Duration     string   `json:"duration"`
	Location     string   `json:"location"`
	Achievements []string `json:"achievements"`
}

// Education is a single degree entry.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Duration    string `json:"duration"`
	Location    string `json:"location"`
}

// Skills splits skills into technical and soft groups.
type Skills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
}

// Testimonial is a quote from a colleague or client.
type Testimonial struct {
	Name        string `json:"name"`
	Position    string `json:"position"`
	Company     string `json:"company"`
	Testimonial string `json:"testimonial"`
}

// All returns technical skills followed by soft skills in a new slice.
func (s Skills) All() []string {
	all := make([]string, 0, len(s.Technical)+len(s.Soft))
	all = append(all, s.Technical...)
	all = append(all, s.Soft...)
	return all
}

// RecentExperience returns at most n leading experience entries.
func (p *PortfolioData) RecentExperience(n int) []Experience {
	if n >= len(p.Experience) {
		return p.Experience
	}
	return p.Experience[:n]
}
