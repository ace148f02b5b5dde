package types

// ChangeRecord describes the fields written to a remote profile in one session.
// Records are appended to the update log and never mutated afterwards.
type ChangeRecord struct {
	ID          string       `json:"id,omitempty"`
	Timestamp   string       `json:"timestamp"`
	Platform    Platform     `json:"platform"`
	ProfileURL  string       `json:"profile_url"`
	Headline    *FieldChange `json:"headline,omitempty"`
	About       *FieldChange `json:"about,omitempty"`
	Title       *FieldChange `json:"title,omitempty"`
	Overview    *FieldChange `json:"overview,omitempty"`
	HourlyRate  *FieldChange `json:"hourly_rate,omitempty"`
	SkillsAdded []string     `json:"skills_added,omitempty"`
}

// FieldChange holds the before and after value of a text field.
type FieldChange struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// HasChanges reports whether any field was written.
func (r *ChangeRecord) HasChanges() bool {
	if r == nil {
		return false
	}
	return r.Headline != nil || r.About != nil || r.Title != nil ||
		r.Overview != nil || r.HourlyRate != nil || len(r.SkillsAdded) > 0
}
