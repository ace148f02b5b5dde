package types

// GeneratedContent is the platform-tailored copy produced for one build.
// It is not persisted; only the fields actually written to a remote profile
// end up in a ChangeRecord.
type GeneratedContent struct {
	Platform   Platform `json:"platform"`
	Title      string   `json:"title"`
	Overview   string   `json:"overview"`
	Skills     []string `json:"skills"`
	HourlyRate *int     `json:"hourly_rate,omitempty"`
	// Fallbacks names the fields that were filled by deterministic fallbacks
	// instead of model output.
	Fallbacks []string `json:"fallbacks,omitempty"`
}

// LiveProfile is the current state of a remote profile as read by the browser.
type LiveProfile struct {
	Name       string           `json:"name"`
	Headline   string           `json:"headline"`
	About      string           `json:"about"`
	Experience []LiveExperience `json:"experience"`
	Skills     []string         `json:"skills"`
}

// LiveExperience is an experience entry read from a remote profile.
type LiveExperience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// SuggestionSource tells whether suggestions were parsed from model output
// or synthesized from the individual generator operations.
type SuggestionSource string

const (
	// SuggestionsFromModel means the model returned a valid suggestion document
	SuggestionsFromModel SuggestionSource = "model"
	// SuggestionsSynthesized means the suggestion set was assembled from fallbacks
	SuggestionsSynthesized SuggestionSource = "synthesized"
)

// ProfileSuggestions is the structured improvement set for a live profile.
type ProfileSuggestions struct {
	Headline    string                `json:"headline"`
	About       string                `json:"about"`
	Experiences []SuggestedExperience `json:"experiences"`
	SkillsToAdd []string              `json:"skills_to_add"`
	Source      SuggestionSource      `json:"source"`
}

// SuggestedExperience is a rewritten experience entry.
type SuggestedExperience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
}
