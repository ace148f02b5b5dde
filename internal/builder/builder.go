// Package builder turns portfolio data into platform profile content and, when
// credentials are supplied, writes it to the remote profile through browser
// automation.
package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"time"

	"github.com/jonathan/profile-agent/internal/automation"
	"github.com/jonathan/profile-agent/internal/types"
)

// Status is the outcome of a build.
type Status string

const (
	// StatusContentGenerated means content was generated but nothing was written
	StatusContentGenerated Status = "content_generated"
	// StatusProfileUpdated means the remote profile session completed
	StatusProfileUpdated Status = "profile_updated"
	// StatusError means login or navigation failed during the remote session
	StatusError Status = "error"
)

// Skill counts per flow.
const (
	UpworkSkills         = 10
	LinkedInSkills       = 50
	LinkedInDetailSkills = 15
)

// ErrNoPortfolioData is returned when a build is requested without portfolio data.
var ErrNoPortfolioData = errors.New("portfolio data is required")

// UnsupportedPlatformError is returned for a platform without a build handler.
type UnsupportedPlatformError struct {
	Platform types.Platform
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("platform '%s' is not supported", e.Platform)
}

// ContentGenerator produces platform content and live-profile suggestions.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, data *types.PortfolioData, platform types.Platform, maxSkills int) *types.GeneratedContent
	AnalyzeProfile(ctx context.Context, current *types.LiveProfile, data *types.PortfolioData, platform types.Platform) (*types.ProfileSuggestions, error)
}

// Recorder persists change records of remote writes.
type Recorder interface {
	LogProfileUpdate(platform types.Platform, profileURL string, record *types.ChangeRecord) error
}

// Result is the outcome of one build.
type Result struct {
	Status     Status                  `json:"status"`
	Platform   types.Platform          `json:"platform"`
	Timestamp  string                  `json:"timestamp"`
	Content    *types.GeneratedContent `json:"content"`
	Changes    *types.ChangeRecord     `json:"changes,omitempty"`
	ProfileURL string                  `json:"profile_url,omitempty"`
	Message    string                  `json:"message,omitempty"`
}

// Options configures a Builder.
type Options struct {
	Generator ContentGenerator
	// Launcher starts browsers for remote writes. Nil uses headless Chrome.
	Launcher automation.Launcher
	// Recorder receives change records; nil disables the update log.
	Recorder Recorder
	// Headless is the browser mode for Build; BuildLinkedIn takes it per call.
	Headless bool
	Logger   *log.Logger
}

// Builder dispatches builds to per-platform handlers.
type Builder struct {
	generator ContentGenerator
	launch    automation.Launcher
	recorder  Recorder
	headless  bool
	logger    *log.Logger
	handlers  map[types.Platform]handler
	now       func() time.Time
}

// handler is the per-platform part of a build.
type handler struct {
	maxSkills int
	// write applies content to the remote profile and returns what changed.
	write func(ctx context.Context, b *Builder, content *types.GeneratedContent, creds *types.Credentials, headless bool) (*types.ChangeRecord, error)
}

// New creates a Builder.
func New(opts Options) *Builder {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	launch := opts.Launcher
	if launch == nil {
		launch = automation.ChromeLauncher(automation.DefaultActionTimeout, logger)
	}
	return &Builder{
		generator: opts.Generator,
		launch:    launch,
		recorder:  opts.Recorder,
		headless:  opts.Headless,
		logger:    logger,
		now:       time.Now,
		handlers: map[types.Platform]handler{
			types.PlatformUpwork:   {maxSkills: UpworkSkills, write: writeUpwork},
			types.PlatformLinkedIn: {maxSkills: LinkedInSkills, write: writeLinkedIn},
		},
	}
}

// Platforms lists the platforms with a build handler.
func (b *Builder) Platforms() []types.Platform {
	out := make([]types.Platform, 0, len(b.handlers))
	for p := range b.handlers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Supports reports whether platform has a build handler.
func (b *Builder) Supports(platform types.Platform) bool {
	_, ok := b.handlers[platform]
	return ok
}

// Build generates content for platform and writes it when creds are usable.
// An unsupported platform fails before any content is generated. Remote
// session failures are reported in the result, not as an error.
func (b *Builder) Build(ctx context.Context, platform types.Platform, data *types.PortfolioData, creds *types.Credentials) (*Result, error) {
	h, ok := b.handlers[platform]
	if !ok {
		return nil, &UnsupportedPlatformError{Platform: platform}
	}
	if data == nil {
		return nil, ErrNoPortfolioData
	}

	b.logger.Printf("[BUILD] building %s profile", platform)
	content := b.generator.GenerateContent(ctx, data, platform, h.maxSkills)
	result := b.newResult(platform, content)
	if !creds.Usable() {
		b.logger.Printf("[BUILD] no credentials for %s, returning generated content", platform)
		return result, nil
	}

	record, err := h.write(ctx, b, content, creds, b.headless)
	b.finish(result, record, err)
	return result, nil
}

// BuildLinkedIn runs the dedicated LinkedIn flow: generate content, and with
// credentials read the live profile, apply the analysis suggestions and log
// the changes.
func (b *Builder) BuildLinkedIn(ctx context.Context, data *types.PortfolioData, creds *types.Credentials, headless bool) (*Result, error) {
	if data == nil {
		return nil, ErrNoPortfolioData
	}

	b.logger.Printf("[BUILD] building LinkedIn profile from live analysis")
	content := b.generator.GenerateContent(ctx, data, types.PlatformLinkedIn, LinkedInDetailSkills)
	result := b.newResult(types.PlatformLinkedIn, content)
	if !creds.Usable() {
		b.logger.Printf("[BUILD] no credentials for linkedin, returning generated content")
		return result, nil
	}

	record, err := b.analyzeAndApply(ctx, data, creds, headless)
	b.finish(result, record, err)
	return result, nil
}

func (b *Builder) newResult(platform types.Platform, content *types.GeneratedContent) *Result {
	return &Result{
		Status:    StatusContentGenerated,
		Platform:  platform,
		Timestamp: types.Timestamp(b.now()),
		Content:   content,
	}
}

// finish records the remote session outcome on result and logs real changes.
func (b *Builder) finish(result *Result, record *types.ChangeRecord, err error) {
	if err != nil {
		b.logger.Printf("[BUILD] updating %s profile failed: %v", result.Platform, err)
		result.Status = StatusError
		result.Message = err.Error()
		return
	}

	result.Status = StatusProfileUpdated
	result.Changes = record
	result.ProfileURL = record.ProfileURL
	if !record.HasChanges() || b.recorder == nil {
		return
	}
	if err := b.recorder.LogProfileUpdate(result.Platform, record.ProfileURL, record); err != nil {
		b.logger.Printf("[BUILD] failed to log %s update: %v", result.Platform, err)
	}
}

func writeUpwork(ctx context.Context, b *Builder, content *types.GeneratedContent, creds *types.Credentials, headless bool) (*types.ChangeRecord, error) {
	session, err := automation.OpenUpwork(ctx, b.launch, headless, creds, b.logger)
	if err != nil {
		return nil, err
	}
	defer func() { _ = session.Close() }()
	return session.ApplyContent(ctx, content)
}

// writeLinkedIn writes generated content as if it were an analysis result.
func writeLinkedIn(ctx context.Context, b *Builder, content *types.GeneratedContent, creds *types.Credentials, headless bool) (*types.ChangeRecord, error) {
	session, err := automation.OpenLinkedIn(ctx, b.launch, headless, creds, b.logger)
	if err != nil {
		return nil, err
	}
	defer func() { _ = session.Close() }()

	current, err := session.ReadProfile(ctx, "")
	if err != nil {
		return nil, err
	}
	suggestions := &types.ProfileSuggestions{
		Headline:    content.Title,
		About:       content.Overview,
		SkillsToAdd: content.Skills,
	}
	return b.applyLinkedIn(ctx, session, current, suggestions), nil
}

func (b *Builder) analyzeAndApply(ctx context.Context, data *types.PortfolioData, creds *types.Credentials, headless bool) (*types.ChangeRecord, error) {
	session, err := automation.OpenLinkedIn(ctx, b.launch, headless, creds, b.logger)
	if err != nil {
		return nil, err
	}
	defer func() { _ = session.Close() }()

	current, err := session.ReadProfile(ctx, "")
	if err != nil {
		return nil, err
	}
	suggestions, err := b.generator.AnalyzeProfile(ctx, current, data, types.PlatformLinkedIn)
	if err != nil {
		return nil, err
	}
	b.logger.Printf("[BUILD] applying %s LinkedIn suggestions", suggestions.Source)
	return b.applyLinkedIn(ctx, session, current, suggestions), nil
}

func (b *Builder) applyLinkedIn(ctx context.Context, session *automation.LinkedInSession, current *types.LiveProfile, suggestions *types.ProfileSuggestions) *types.ChangeRecord {
	record := session.ApplySuggestions(ctx, current, suggestions)
	url, err := session.ProfileURL(ctx)
	if err != nil {
		b.logger.Printf("[BUILD] could not read LinkedIn profile URL: %v", err)
	}
	record.ProfileURL = url
	return record
}
