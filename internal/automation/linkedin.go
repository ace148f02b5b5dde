package automation

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/jonathan/profile-agent/internal/types"
)

// LinkedIn pages.
const (
	LinkedInLoginURL     = "https://www.linkedin.com/login"
	LinkedInOwnProfile   = "https://www.linkedin.com/in/me/"
	LinkedInEditAboutURL = "https://www.linkedin.com/in/me/edit/about/"
	LinkedInEditSkillURL = "https://www.linkedin.com/in/me/edit/skills/"
)

// LinkedIn selectors.
const (
	liUsername      = "#username"
	liPassword      = "#password"
	liSubmit        = `button[type="submit"]`
	liGlobalNav     = ".global-nav"
	liChallenge     = ".challenge-dialog"
	liName          = "h1"
	liHeadline      = "div.text-body-medium"
	liAbout         = "section:has(#about) div.display-flex"
	liExperienceRow = "section:has(#experience) li.artdeco-list__item"
	liSkillNames    = "section:has(#skills) .pv-skill-category-entity__name, section:has(#skills) li.artdeco-list__item .t-bold"
	liEditIntro     = `button[aria-label="Edit intro"]`
	liHeadlineInput = "input#single-line-text-form-component-headline"
	liSave          = `button[aria-label="Save"]`
	liEditSummary   = `button[aria-label="Edit summary"]`
	liAboutEditor   = `div[aria-label="Text editor for About"]`
	liAddSkill      = `button[aria-label="Add skill"]`
	liSkillInput    = `input[aria-label="Skill"]`
	liSuggestion    = `ul[role="listbox"] li`
	liFirstOption   = `ul[role="listbox"] li:first-child`
	liConfirmSkill  = `button[aria-label="Add"]`
)

// MaxLinkedInSkillsPerSession caps skills added in one session.
const MaxLinkedInSkillsPerSession = 10

const (
	loginWait      = 10 * time.Second
	suggestionWait = 5 * time.Second
)

// LinkedInSession is a logged-in LinkedIn browser session.
type LinkedInSession struct {
	browser Browser
	logger  *log.Logger
}

// OpenLinkedIn launches a browser and logs in.
func OpenLinkedIn(ctx context.Context, launch Launcher, headless bool, creds *types.Credentials, logger *log.Logger) (*LinkedInSession, error) {
	if err := checkCredentials(creds); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	b, err := launch(ctx, headless)
	if err != nil {
		return nil, err
	}
	s := &LinkedInSession{browser: b, logger: logger}
	if err := s.login(ctx, creds); err != nil {
		_ = b.Close()
		return nil, err
	}
	return s, nil
}

func (s *LinkedInSession) login(ctx context.Context, creds *types.Credentials) error {
	s.logger.Printf("[AUTOMATION] logging into LinkedIn")
	b := s.browser
	err := steps(ctx,
		func(ctx context.Context) error { return b.Navigate(ctx, LinkedInLoginURL) },
		func(ctx context.Context) error { return b.Fill(ctx, liUsername, creds.Username) },
		func(ctx context.Context) error { return b.Fill(ctx, liPassword, creds.Password) },
		func(ctx context.Context) error { return b.Click(ctx, liSubmit) },
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	if err := b.WaitVisible(ctx, liGlobalNav, loginWait); err != nil {
		if challenged, _ := b.Exists(ctx, liChallenge); challenged {
			s.logger.Printf("[AUTOMATION] LinkedIn is requesting security verification")
			return ErrVerificationRequired
		}
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	s.logger.Printf("[AUTOMATION] logged into LinkedIn")
	return nil
}

// ReadProfile reads the live profile at profileURL, or the member's own
// profile when profileURL is empty. Missing sections read as empty.
func (s *LinkedInSession) ReadProfile(ctx context.Context, profileURL string) (*types.LiveProfile, error) {
	if profileURL == "" {
		profileURL = LinkedInOwnProfile
	}
	b := s.browser
	if err := b.Navigate(ctx, profileURL); err != nil {
		return nil, fmt.Errorf("failed to open profile: %w", err)
	}
	if err := b.WaitVisible(ctx, liName, 0); err != nil {
		return nil, fmt.Errorf("profile did not load: %w", err)
	}

	profile := &types.LiveProfile{Experience: []types.LiveExperience{}, Skills: []string{}}
	profile.Name = s.optionalText(ctx, "name", liName)
	profile.Headline = s.optionalText(ctx, "headline", liHeadline)
	profile.About = s.optionalText(ctx, "about", liAbout)

	if titles, err := b.Texts(ctx, liExperienceRow+" .t-bold"); err == nil {
		companies, _ := b.Texts(ctx, liExperienceRow+" .t-normal")
		for i, title := range titles {
			exp := types.LiveExperience{Title: title}
			if i < len(companies) {
				exp.Company = companies[i]
			}
			profile.Experience = append(profile.Experience, exp)
		}
	} else {
		s.logger.Printf("[AUTOMATION] experience not read: %v", err)
	}

	if skills, err := b.Texts(ctx, liSkillNames); err == nil {
		profile.Skills = uniqueFold(skills)
	} else {
		s.logger.Printf("[AUTOMATION] skills not read: %v", err)
	}

	s.logger.Printf("[AUTOMATION] read LinkedIn profile of %q (%d skills)", profile.Name, len(profile.Skills))
	return profile, nil
}

func (s *LinkedInSession) optionalText(ctx context.Context, field, selector string) string {
	exists, err := s.browser.Exists(ctx, selector)
	if err != nil || !exists {
		return ""
	}
	text, err := s.browser.Text(ctx, selector)
	if err != nil {
		s.logger.Printf("[AUTOMATION] %s not read: %v", field, err)
		return ""
	}
	return text
}

// ApplySuggestions writes headline, about and new skills, then returns the
// fields that actually changed. current supplies the before values and the
// skills already on the profile. Individual field failures are logged and
// skipped.
func (s *LinkedInSession) ApplySuggestions(ctx context.Context, current *types.LiveProfile, suggestions *types.ProfileSuggestions) *types.ChangeRecord {
	if current == nil {
		current = &types.LiveProfile{}
	}
	record := &types.ChangeRecord{
		Timestamp: types.Timestamp(time.Now()),
		Platform:  types.PlatformLinkedIn,
	}

	var ops []FieldOp
	if h := strings.TrimSpace(suggestions.Headline); h != "" && h != current.Headline {
		ops = append(ops, LinkedInHeadlineOp(h))
	}
	if a := strings.TrimSpace(suggestions.About); a != "" && a != current.About {
		ops = append(ops, LinkedInAboutOp(a))
	}

	applied, _ := RunFieldOps(ctx, s.browser, ops, s.logger)
	for _, name := range applied {
		switch name {
		case "headline":
			record.Headline = &types.FieldChange{Before: current.Headline, After: strings.TrimSpace(suggestions.Headline)}
		case "about":
			record.About = &types.FieldChange{Before: current.About, After: strings.TrimSpace(suggestions.About)}
		}
	}

	toAdd := NewSkills(suggestions.SkillsToAdd, current.Skills, MaxLinkedInSkillsPerSession)
	if len(toAdd) > 0 {
		added, err := s.AddSkills(ctx, toAdd)
		if err != nil {
			s.logger.Printf("[AUTOMATION] skills not saved: %v", err)
		}
		record.SkillsAdded = added
	}
	return record
}

// LinkedInHeadlineOp edits the headline from the intro dialog.
func LinkedInHeadlineOp(headline string) FieldOp {
	return FieldOp{Name: "headline", Apply: func(ctx context.Context, b Browser) error {
		return steps(ctx,
			func(ctx context.Context) error { return b.Navigate(ctx, LinkedInOwnProfile) },
			func(ctx context.Context) error { return b.Click(ctx, liEditIntro) },
			func(ctx context.Context) error { return b.WaitVisible(ctx, liHeadlineInput, 0) },
			func(ctx context.Context) error { return b.Fill(ctx, liHeadlineInput, headline) },
			func(ctx context.Context) error { return b.Click(ctx, liSave) },
		)
	}}
}

// LinkedInAboutOp edits the about section.
func LinkedInAboutOp(about string) FieldOp {
	return FieldOp{Name: "about", Apply: func(ctx context.Context, b Browser) error {
		return steps(ctx,
			func(ctx context.Context) error { return b.Navigate(ctx, LinkedInEditAboutURL) },
			func(ctx context.Context) error { return b.Click(ctx, liEditSummary) },
			func(ctx context.Context) error { return b.WaitVisible(ctx, liAboutEditor, 0) },
			func(ctx context.Context) error { return b.Fill(ctx, liAboutEditor, about) },
			func(ctx context.Context) error { return b.Click(ctx, liSave) },
		)
	}}
}

// AddSkills adds each skill through the skills editor and saves once at the end.
// It returns the skills that were added; a skill that fails is skipped.
func (s *LinkedInSession) AddSkills(ctx context.Context, skills []string) ([]string, error) {
	b := s.browser
	if err := b.Navigate(ctx, LinkedInEditSkillURL); err != nil {
		return nil, fmt.Errorf("failed to open skills editor: %w", err)
	}

	added := make([]string, 0, len(skills))
	for _, skill := range skills {
		err := steps(ctx,
			func(ctx context.Context) error { return b.Click(ctx, liAddSkill) },
			func(ctx context.Context) error { return b.Fill(ctx, liSkillInput, skill) },
			func(ctx context.Context) error { return b.WaitVisible(ctx, liSuggestion, suggestionWait) },
			func(ctx context.Context) error { return b.Click(ctx, liFirstOption) },
			func(ctx context.Context) error { return b.Click(ctx, liConfirmSkill) },
		)
		if err != nil {
			s.logger.Printf("[AUTOMATION] could not add skill %q: %v", skill, err)
			continue
		}
		s.logger.Printf("[AUTOMATION] added skill %q", skill)
		added = append(added, skill)
	}

	if len(added) == 0 {
		return added, nil
	}
	if err := b.Click(ctx, liSave); err != nil {
		return nil, fmt.Errorf("failed to save skills: %w", err)
	}
	return added, nil
}

// ProfileURL opens the member's own profile and returns its canonical URL.
func (s *LinkedInSession) ProfileURL(ctx context.Context) (string, error) {
	if err := s.browser.Navigate(ctx, LinkedInOwnProfile); err != nil {
		return "", err
	}
	return s.browser.Location(ctx)
}

// Close closes the browser.
func (s *LinkedInSession) Close() error {
	return s.browser.Close()
}

// NewSkills returns up to limit candidates that are not in existing,
// compared case-insensitively, in candidate order.
func NewSkills(candidates, existing []string, limit int) []string {
	have := make(map[string]bool, len(existing)+len(candidates))
	for _, s := range existing {
		have[strings.ToLower(strings.TrimSpace(s))] = true
	}
	out := make([]string, 0, min(limit, len(candidates)))
	for _, c := range candidates {
		if len(out) >= limit {
			break
		}
		key := strings.ToLower(strings.TrimSpace(c))
		if key == "" || have[key] {
			continue
		}
		have[key] = true
		out = append(out, strings.TrimSpace(c))
	}
	return out
}

func uniqueFold(items []string) []string {
	return NewSkills(items, nil, len(items))
}
