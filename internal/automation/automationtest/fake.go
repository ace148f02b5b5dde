// Package automationtest provides an in-memory automation.Browser for tests.
package automationtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/profile-agent/internal/automation"
)

// Browser is a scriptable fake page. Every selector is visible unless listed
// in Hidden; Fail injects errors by "<action> <selector>" or by selector alone.
type Browser struct {
	mu sync.Mutex

	Hidden  map[string]bool
	Present map[string]bool
	TextOf  map[string]string
	ListOf  map[string][]string
	ValueOf map[string]string
	Fail    map[string]error
	// Redirect overrides the URL reported by Location after a navigation to the key.
	Redirect map[string]string

	url     string
	actions []string
	filled  map[string]string
	closed  bool
}

var _ automation.Browser = (*Browser)(nil)

// New returns an empty fake browser.
func New() *Browser {
	return &Browser{
		Hidden:   map[string]bool{},
		Present:  map[string]bool{},
		TextOf:   map[string]string{},
		ListOf:   map[string][]string{},
		ValueOf:  map[string]string{},
		Fail:     map[string]error{},
		Redirect: map[string]string{},
		filled:   map[string]string{},
	}
}

// Launcher returns an automation.Launcher that hands out b.
func (b *Browser) Launcher() automation.Launcher {
	return func(context.Context, bool) (automation.Browser, error) {
		return b, nil
	}
}

// HeadlessLauncher returns a launcher that records the requested window mode.
func (b *Browser) HeadlessLauncher(got *bool) automation.Launcher {
	return func(_ context.Context, headless bool) (automation.Browser, error) {
		*got = headless
		return b, nil
	}
}

// FailingLauncher returns a launcher that always fails with err.
func FailingLauncher(err error) automation.Launcher {
	return func(context.Context, bool) (automation.Browser, error) {
		return nil, err
	}
}

func (b *Browser) record(action, selector string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.actions = append(b.actions, action+" "+selector)
	if err, ok := b.Fail[action+" "+selector]; ok {
		return err
	}
	if err, ok := b.Fail[selector]; ok {
		return err
	}
	return nil
}

// Navigate implements automation.Browser.
func (b *Browser) Navigate(_ context.Context, url string) error {
	if err := b.record("navigate", url); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.url = url
	if to, ok := b.Redirect[url]; ok {
		b.url = to
	}
	return nil
}

// Fill implements automation.Browser.
func (b *Browser) Fill(_ context.Context, selector, value string) error {
	if err := b.record("fill", selector); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filled[selector] = value
	return nil
}

// Click implements automation.Browser.
func (b *Browser) Click(_ context.Context, selector string) error {
	return b.record("click", selector)
}

// WaitVisible implements automation.Browser.
func (b *Browser) WaitVisible(_ context.Context, selector string, _ time.Duration) error {
	if err := b.record("wait", selector); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Hidden[selector] {
		return fmt.Errorf("waiting for %s: %w", selector, context.DeadlineExceeded)
	}
	return nil
}

// Text implements automation.Browser.
func (b *Browser) Text(_ context.Context, selector string) (string, error) {
	if err := b.record("text", selector); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.TextOf[selector], nil
}

// Texts implements automation.Browser.
func (b *Browser) Texts(_ context.Context, selector string) ([]string, error) {
	if err := b.record("texts", selector); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.ListOf[selector]...), nil
}

// Value implements automation.Browser.
func (b *Browser) Value(_ context.Context, selector string) (string, error) {
	if err := b.record("value", selector); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ValueOf[selector], nil
}

// Exists implements automation.Browser. Selectors with configured text exist.
func (b *Browser) Exists(_ context.Context, selector string) (bool, error) {
	if err := b.record("exists", selector); err != nil {
		return false, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, hasText := b.TextOf[selector]
	return b.Present[selector] || hasText, nil
}

// Location implements automation.Browser.
func (b *Browser) Location(context.Context) (string, error) {
	if err := b.record("location", ""); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.url, nil
}

// Close implements automation.Browser.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// Actions returns every recorded action as "<action> <target>".
func (b *Browser) Actions() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.actions...)
}

// Count returns how many recorded actions start with prefix.
func (b *Browser) Count(prefix string) int {
	n := 0
	for _, a := range b.Actions() {
		if strings.HasPrefix(a, prefix) {
			n++
		}
	}
	return n
}

// Filled returns the last value written to selector.
func (b *Browser) Filled(selector string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.filled[selector]
	return v, ok
}

// Closed reports whether Close was called.
func (b *Browser) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
