package builder_test

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-agent/internal/automation"
	"github.com/jonathan/profile-agent/internal/automation/automationtest"
	"github.com/jonathan/profile-agent/internal/builder"
	"github.com/jonathan/profile-agent/internal/generation"
	"github.com/jonathan/profile-agent/internal/llm"
	"github.com/jonathan/profile-agent/internal/types"
)

var (
	quiet = log.New(io.Discard, "", 0)
	creds = &types.Credentials{Username: "ada@example.com", Password: "secret"}
)

const (
	headlineSel = "div.text-body-medium"
	aboutSel    = "section:has(#about) div.display-flex"
	skillsSel   = "section:has(#skills) .pv-skill-category-entity__name, section:has(#skills) li.artdeco-list__item .t-bold"
	liPublicURL = "https://www.linkedin.com/in/ada-lovelace/"
)

// modelStub answers prompts containing a marker and fails everything else.
type modelStub struct {
	mu     sync.Mutex
	routes map[string]string
	calls  int
}

func (m *modelStub) Generate(_ context.Context, prompt string, _ llm.Options) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	for marker, reply := range m.routes {
		if strings.Contains(prompt, marker) {
			return reply, nil
		}
	}
	return "", llm.ErrModelUnavailable
}

func (m *modelStub) Chat(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	return m.Generate(ctx, messages[len(messages)-1].Content, opts)
}

func (m *modelStub) Model() string { return "stub" }

func (m *modelStub) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type recorder struct {
	records []*types.ChangeRecord
	urls    []string
	err     error
}

func (r *recorder) LogProfileUpdate(platform types.Platform, profileURL string, record *types.ChangeRecord) error {
	r.urls = append(r.urls, string(platform)+" "+profileURL)
	r.records = append(r.records, record)
	return r.err
}

func portfolio() *types.PortfolioData {
	return &types.PortfolioData{
		BasicInfo: types.BasicInfo{Name: "Ada Lovelace", Title: "Data Engineer"},
		About: types.About{
			Summary:    "I build reliable data platforms.",
			Highlights: []string{"Cloud migrations"},
		},
		Experience: []types.Experience{
			{Title: "Senior Data Engineer", Company: "Acme", Duration: "Jan 2021 - Present"},
			{Title: "Data Engineer", Company: "Globex", Duration: "2018 - 2020"},
		},
		Skills: types.Skills{
			Technical: []string{"SQL", "Python", "Airflow"},
			Soft:      []string{"Leadership"},
		},
	}
}

const fallbackAbout = "I build reliable data platforms.\n- Cloud migrations"

func newBuilder(model *modelStub, b *automationtest.Browser, rec builder.Recorder) *builder.Builder {
	opts := builder.Options{
		Generator: generation.New(model, quiet),
		Recorder:  rec,
		Headless:  true,
		Logger:    quiet,
	}
	if b != nil {
		opts.Launcher = b.Launcher()
	}
	return builder.New(opts)
}

func TestBuild_UnsupportedPlatform(t *testing.T) {
	model := &modelStub{}
	bld := newBuilder(model, nil, nil)

	_, err := bld.Build(context.Background(), "unknown", portfolio(), nil)

	var unsupported *builder.UnsupportedPlatformError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, types.Platform("unknown"), unsupported.Platform)
	assert.Equal(t, "platform 'unknown' is not supported", err.Error())
	assert.Zero(t, model.count())
}

func TestBuild_RequiresPortfolio(t *testing.T) {
	bld := newBuilder(&modelStub{}, nil, nil)
	_, err := bld.Build(context.Background(), types.PlatformUpwork, nil, nil)
	assert.ErrorIs(t, err, builder.ErrNoPortfolioData)

	_, err = bld.BuildLinkedIn(context.Background(), nil, nil, true)
	assert.ErrorIs(t, err, builder.ErrNoPortfolioData)
}

func TestBuild_UpworkWithoutCredentials(t *testing.T) {
	launched := false
	bld := builder.New(builder.Options{
		Generator: generation.New(&modelStub{}, quiet),
		Launcher: func(context.Context, bool) (automation.Browser, error) {
			launched = true
			return nil, errors.New("unexpected launch")
		},
		Logger: quiet,
	})

	result, err := bld.Build(context.Background(), types.PlatformUpwork, portfolio(), &types.Credentials{Username: "ada"})
	require.NoError(t, err)

	assert.Equal(t, builder.StatusContentGenerated, result.Status)
	assert.Equal(t, types.PlatformUpwork, result.Platform)
	assert.NotEmpty(t, result.Timestamp)
	assert.Equal(t, "Data Engineer", result.Content.Title)
	assert.Equal(t, fallbackAbout, result.Content.Overview)
	assert.Equal(t, []string{"SQL", "Python", "Airflow", "Leadership"}, result.Content.Skills)
	require.NotNil(t, result.Content.HourlyRate)
	assert.Contains(t, result.Content.Fallbacks, "title")
	assert.Nil(t, result.Changes)
	assert.False(t, launched)
}

func TestBuild_UpworkSkillCap(t *testing.T) {
	data := portfolio()
	for i := 0; i < 20; i++ {
		data.Skills.Technical = append(data.Skills.Technical, "Skill"+string(rune('A'+i)))
	}
	bld := newBuilder(&modelStub{}, nil, nil)

	result, err := bld.Build(context.Background(), types.PlatformUpwork, data, nil)
	require.NoError(t, err)
	assert.Len(t, result.Content.Skills, builder.UpworkSkills)
}

func TestBuild_UpworkWritesProfile(t *testing.T) {
	b := automationtest.New()
	b.ValueOf[`input[name="title"]`] = "Old title"
	b.ValueOf[`textarea[name="overview"]`] = "Old overview"
	rec := &recorder{}
	bld := newBuilder(&modelStub{}, b, rec)

	result, err := bld.Build(context.Background(), types.PlatformUpwork, portfolio(), creds)
	require.NoError(t, err)

	assert.Equal(t, builder.StatusProfileUpdated, result.Status)
	require.NotNil(t, result.Changes)
	require.NotNil(t, result.Changes.Title)
	assert.Equal(t, "Old title", result.Changes.Title.Before)
	assert.Equal(t, "Data Engineer", result.Changes.Title.After)
	assert.Equal(t, automation.UpworkProfileURL, result.ProfileURL)
	assert.True(t, b.Closed())

	require.Len(t, rec.records, 1)
	assert.Equal(t, "upwork "+automation.UpworkProfileURL, rec.urls[0])
}

func TestBuild_UpworkLoginFailure(t *testing.T) {
	b := automationtest.New()
	b.Hidden[`input[name="title"]`] = true
	rec := &recorder{}
	bld := newBuilder(&modelStub{}, b, rec)

	result, err := bld.Build(context.Background(), types.PlatformUpwork, portfolio(), creds)
	require.NoError(t, err)

	assert.Equal(t, builder.StatusError, result.Status)
	assert.Contains(t, result.Message, automation.ErrLoginFailed.Error())
	assert.NotNil(t, result.Content)
	assert.Nil(t, result.Changes)
	assert.Empty(t, rec.records)
	assert.True(t, b.Closed())
}

func TestBuild_LinkedInWritesChangedFields(t *testing.T) {
	b := automationtest.New()
	b.TextOf["h1"] = "Ada Lovelace"
	b.TextOf[headlineSel] = "Old headline"
	b.ListOf[skillsSel] = []string{"sql"}
	b.Redirect[automation.LinkedInOwnProfile] = liPublicURL
	rec := &recorder{}
	bld := newBuilder(&modelStub{}, b, rec)

	result, err := bld.Build(context.Background(), types.PlatformLinkedIn, portfolio(), creds)
	require.NoError(t, err)

	assert.Equal(t, builder.StatusProfileUpdated, result.Status)
	require.NotNil(t, result.Changes.Headline)
	assert.Equal(t, "Old headline", result.Changes.Headline.Before)
	assert.Equal(t, "Data Engineer", result.Changes.Headline.After)
	require.NotNil(t, result.Changes.About)
	assert.Equal(t, fallbackAbout, result.Changes.About.After)
	assert.Equal(t, []string{"Python", "Airflow", "Leadership"}, result.Changes.SkillsAdded)
	assert.Equal(t, liPublicURL, result.ProfileURL)
	assert.Nil(t, result.Content.HourlyRate)

	require.Len(t, rec.records, 1)
	assert.Equal(t, "linkedin "+liPublicURL, rec.urls[0])
}

func TestBuild_LinkedInNothingToChange(t *testing.T) {
	b := automationtest.New()
	b.TextOf["h1"] = "Ada Lovelace"
	b.TextOf[headlineSel] = "Data Engineer"
	b.TextOf[aboutSel] = fallbackAbout
	b.ListOf[skillsSel] = []string{"SQL", "Python", "Airflow", "Leadership"}
	rec := &recorder{}
	bld := newBuilder(&modelStub{}, b, rec)

	result, err := bld.Build(context.Background(), types.PlatformLinkedIn, portfolio(), creds)
	require.NoError(t, err)

	assert.Equal(t, builder.StatusProfileUpdated, result.Status)
	assert.False(t, result.Changes.HasChanges())
	assert.Empty(t, rec.records)
	assert.Zero(t, b.Count("fill "+"input#single-line-text-form-component-headline"))
}

func TestBuildLinkedIn_AppliesModelSuggestions(t *testing.T) {
	model := &modelStub{routes: map[string]string{
		"Compare the current LinkedIn profile": `{"headline": "Data Platform Lead", "about": "I lead data platform teams.", "experiences": [], "skills_to_add": ["Go", "SQL"]}`,
	}}
	b := automationtest.New()
	b.TextOf["h1"] = "Ada Lovelace"
	b.TextOf[headlineSel] = "Data Engineer"
	b.ListOf[skillsSel] = []string{"SQL"}
	b.Redirect[automation.LinkedInOwnProfile] = liPublicURL
	rec := &recorder{}

	var headless bool
	bld := builder.New(builder.Options{
		Generator: generation.New(model, quiet),
		Launcher:  b.HeadlessLauncher(&headless),
		Recorder:  rec,
		Logger:    quiet,
	})

	result, err := bld.BuildLinkedIn(context.Background(), portfolio(), creds, true)
	require.NoError(t, err)

	assert.True(t, headless)
	assert.Equal(t, builder.StatusProfileUpdated, result.Status)
	assert.Equal(t, "Data Platform Lead", result.Changes.Headline.After)
	assert.Equal(t, "I lead data platform teams.", result.Changes.About.After)
	assert.Equal(t, []string{"Go"}, result.Changes.SkillsAdded)
	assert.Equal(t, liPublicURL, result.ProfileURL)
	require.Len(t, rec.records, 1)
}

func TestBuildLinkedIn_SynthesizedSuggestions(t *testing.T) {
	b := automationtest.New()
	b.TextOf["h1"] = "Ada Lovelace"
	rec := &recorder{}
	bld := newBuilder(&modelStub{}, b, rec)

	result, err := bld.BuildLinkedIn(context.Background(), portfolio(), creds, false)
	require.NoError(t, err)

	assert.Equal(t, builder.StatusProfileUpdated, result.Status)
	assert.Equal(t, "Data Engineer", result.Changes.Headline.After)
	assert.Equal(t, fallbackAbout, result.Changes.About.After)
	assert.Equal(t, []string{"SQL", "Python", "Airflow", "Leadership"}, result.Changes.SkillsAdded)
}

func TestBuildLinkedIn_WithoutCredentials(t *testing.T) {
	bld := newBuilder(&modelStub{}, nil, nil)

	result, err := bld.BuildLinkedIn(context.Background(), portfolio(), nil, true)
	require.NoError(t, err)

	assert.Equal(t, builder.StatusContentGenerated, result.Status)
	assert.Equal(t, types.PlatformLinkedIn, result.Platform)
	assert.LessOrEqual(t, len(result.Content.Skills), builder.LinkedInDetailSkills)
}

func TestBuildLinkedIn_VerificationRequired(t *testing.T) {
	b := automationtest.New()
	b.Hidden[".global-nav"] = true
	b.Present[".challenge-dialog"] = true
	rec := &recorder{}
	bld := newBuilder(&modelStub{}, b, rec)

	result, err := bld.BuildLinkedIn(context.Background(), portfolio(), creds, true)
	require.NoError(t, err)

	assert.Equal(t, builder.StatusError, result.Status)
	assert.Equal(t, automation.ErrVerificationRequired.Error(), result.Message)
	assert.Empty(t, rec.records)
}

func TestBuild_RecorderFailureDoesNotFailBuild(t *testing.T) {
	b := automationtest.New()
	rec := &recorder{err: errors.New("disk full")}
	bld := newBuilder(&modelStub{}, b, rec)

	result, err := bld.Build(context.Background(), types.PlatformUpwork, portfolio(), creds)
	require.NoError(t, err)
	assert.Equal(t, builder.StatusProfileUpdated, result.Status)
	assert.Len(t, rec.records, 1)
}

func TestPlatforms(t *testing.T) {
	bld := newBuilder(&modelStub{}, nil, nil)
	assert.Equal(t, []types.Platform{types.PlatformLinkedIn, types.PlatformUpwork}, bld.Platforms())
	assert.True(t, bld.Supports(types.PlatformUpwork))
	assert.False(t, bld.Supports("fiverr"))
}
