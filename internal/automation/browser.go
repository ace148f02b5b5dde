// Package automation drives a real browser through professional-network edit forms.
//
// Platform flows are written against the Browser interface; ChromeBrowser is
// the chromedp implementation used in production.
package automation

import (
	"context"
	"errors"
	"time"

	"github.com/jonathan/profile-agent/internal/types"
)

// DefaultActionTimeout bounds every single browser action.
const DefaultActionTimeout = 15 * time.Second

var (
	// ErrLoginFailed is returned when the post-login page never shows up.
	ErrLoginFailed = errors.New("failed to log in, check your credentials")
	// ErrVerificationRequired is returned when the site asks for a security check.
	ErrVerificationRequired = errors.New("security verification required, complete it manually")
	// ErrNoCredentials is returned when a session is opened without usable credentials.
	ErrNoCredentials = errors.New("username and password are required")
)

// Browser is the set of page actions the platform flows need.
// Selectors are CSS selectors.
type Browser interface {
	Navigate(ctx context.Context, url string) error
	Fill(ctx context.Context, selector, value string) error
	Click(ctx context.Context, selector string) error
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	Text(ctx context.Context, selector string) (string, error)
	Texts(ctx context.Context, selector string) ([]string, error)
	Value(ctx context.Context, selector string) (string, error)
	Exists(ctx context.Context, selector string) (bool, error)
	Location(ctx context.Context) (string, error)
	Close() error
}

// Launcher starts a browser. headless selects the window mode.
type Launcher func(ctx context.Context, headless bool) (Browser, error)

func checkCredentials(creds *types.Credentials) error {
	if !creds.Usable() {
		return ErrNoCredentials
	}
	return nil
}
