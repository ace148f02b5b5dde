package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/jonathan/profile-agent/internal/types"
)

// Upwork pages.
const (
	UpworkLoginURL   = "https://www.upwork.com/login"
	UpworkProfileURL = "https://www.upwork.com/freelancers/settings/profile"
)

// Upwork selectors.
const (
	upUsername = `input[name="login[username]"]`
	upPassword = `input[name="login[password]"]`
	upSubmit   = `button[type="submit"]`
	upTitle    = `input[name="title"]`
	upOverview = `textarea[name="overview"]`
	upSuccess  = ".success-message"
)

const saveWait = 10 * time.Second

// UpworkSession is a logged-in Upwork browser session on the profile settings page.
type UpworkSession struct {
	browser Browser
	logger  *log.Logger
}

// OpenUpwork launches a browser, logs in and opens the profile settings page.
func OpenUpwork(ctx context.Context, launch Launcher, headless bool, creds *types.Credentials, logger *log.Logger) (*UpworkSession, error) {
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
	s := &UpworkSession{browser: b, logger: logger}
	if err := s.login(ctx, creds); err != nil {
		_ = b.Close()
		return nil, err
	}
	return s, nil
}

func (s *UpworkSession) login(ctx context.Context, creds *types.Credentials) error {
	s.logger.Printf("[AUTOMATION] logging into Upwork")
	b := s.browser
	err := steps(ctx,
		func(ctx context.Context) error { return b.Navigate(ctx, UpworkLoginURL) },
		func(ctx context.Context) error { return b.Fill(ctx, upUsername, creds.Username) },
		func(ctx context.Context) error { return b.Fill(ctx, upPassword, creds.Password) },
		func(ctx context.Context) error { return b.Click(ctx, upSubmit) },
		func(ctx context.Context) error { return b.Navigate(ctx, UpworkProfileURL) },
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	if err := b.WaitVisible(ctx, upTitle, loginWait); err != nil {
		return fmt.Errorf("%w: profile settings did not load: %v", ErrLoginFailed, err)
	}
	s.logger.Printf("[AUTOMATION] logged into Upwork")
	return nil
}

// ApplyContent writes title and overview, submits the form and waits for the
// confirmation. Nothing is recorded unless the save is confirmed.
func (s *UpworkSession) ApplyContent(ctx context.Context, content *types.GeneratedContent) (*types.ChangeRecord, error) {
	b := s.browser
	beforeTitle, _ := b.Value(ctx, upTitle)
	beforeOverview, _ := b.Value(ctx, upOverview)

	ops := []FieldOp{
		{Name: "title", Apply: fillOp(upTitle, content.Title)},
		{Name: "overview", Apply: fillOp(upOverview, content.Overview)},
	}
	applied, _ := RunFieldOps(ctx, b, ops, s.logger)
	if len(applied) == 0 {
		return nil, errors.New("no Upwork profile field could be written")
	}

	if err := b.Click(ctx, upSubmit); err != nil {
		return nil, fmt.Errorf("failed to submit profile: %w", err)
	}
	if err := b.WaitVisible(ctx, upSuccess, saveWait); err != nil {
		return nil, fmt.Errorf("timeout while updating profile: %w", err)
	}

	record := &types.ChangeRecord{
		Timestamp: types.Timestamp(time.Now()),
		Platform:  types.PlatformUpwork,
	}
	if url, err := b.Location(ctx); err == nil {
		record.ProfileURL = url
	}
	for _, name := range applied {
		switch name {
		case "title":
			record.Title = &types.FieldChange{Before: beforeTitle, After: content.Title}
		case "overview":
			record.Overview = &types.FieldChange{Before: beforeOverview, After: content.Overview}
		}
	}
	s.logger.Printf("[AUTOMATION] Upwork profile updated (%v)", applied)
	return record, nil
}

// Close closes the browser.
func (s *UpworkSession) Close() error {
	return s.browser.Close()
}

func fillOp(selector, value string) func(context.Context, Browser) error {
	return func(ctx context.Context, b Browser) error {
		return b.Fill(ctx, selector, value)
	}
}
