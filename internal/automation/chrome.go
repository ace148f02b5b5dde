package automation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/profile-agent/internal/fetch"
)

// ChromeOptions configures ChromeBrowser.
type ChromeOptions struct {
	Headless      bool
	ActionTimeout time.Duration
	Logger        *log.Logger
}

// ChromeBrowser implements Browser on top of a chromedp tab.
type ChromeBrowser struct {
	ctx           context.Context
	cancel        context.CancelFunc
	actionTimeout time.Duration
	logger        *log.Logger
}

// NewChromeBrowser launches Chrome and opens a tab.
func NewChromeBrowser(ctx context.Context, opts ChromeOptions) (*ChromeBrowser, error) {
	if opts.ActionTimeout <= 0 {
		opts.ActionTimeout = DefaultActionTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}

	// The browser outlives the launching request context only until Close.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), fetch.AllocatorOptions(opts.Headless)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	cancel := func() {
		tabCancel()
		allocCancel()
	}

	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	opts.Logger.Printf("[BROWSER] started (headless=%t)", opts.Headless)

	return &ChromeBrowser{
		ctx:           tabCtx,
		cancel:        cancel,
		actionTimeout: opts.ActionTimeout,
		logger:        opts.Logger,
	}, nil
}

// ChromeLauncher returns a Launcher that starts ChromeBrowser instances.
func ChromeLauncher(actionTimeout time.Duration, logger *log.Logger) Launcher {
	return func(ctx context.Context, headless bool) (Browser, error) {
		return NewChromeBrowser(ctx, ChromeOptions{Headless: headless, ActionTimeout: actionTimeout, Logger: logger})
	}
}

// run executes actions in the tab, bounded by timeout and by the caller's ctx.
func (b *ChromeBrowser) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(b.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

// Navigate loads url and waits for the body.
func (b *ChromeBrowser) Navigate(ctx context.Context, url string) error {
	b.logger.Printf("[BROWSER] navigate %s", url)
	return b.run(ctx, b.actionTimeout, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery))
}

// fillEditableScript replaces the content of a contenteditable element through
// a synthetic paste so rich-text editors register the change.
const fillEditableScript = `(function(sel, value) {
	const el = document.querySelector(sel);
	if (!el || !el.isContentEditable) { return false; }
	el.focus();
	el.textContent = '';
	const data = new DataTransfer();
	data.setData('text/plain', value);
	el.dispatchEvent(new ClipboardEvent('paste', {clipboardData: data, bubbles: true}));
	return true;
})(%s, %s)`

// Fill replaces the value of an input, textarea or contenteditable element.
func (b *ChromeBrowser) Fill(ctx context.Context, selector, value string) error {
	sel, _ := json.Marshal(selector)
	val, _ := json.Marshal(value)
	var editable bool
	return b.run(ctx, b.actionTimeout,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Evaluate(fmt.Sprintf(fillEditableScript, sel, val), &editable),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if editable {
				return nil
			}
			if err := chromedp.Clear(selector, chromedp.ByQuery).Do(ctx); err != nil {
				return err
			}
			return chromedp.SendKeys(selector, value, chromedp.ByQuery).Do(ctx)
		}),
	)
}

// Click clicks the first visible element matching selector.
func (b *ChromeBrowser) Click(ctx context.Context, selector string) error {
	return b.run(ctx, b.actionTimeout, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
}

// WaitVisible waits up to timeout for selector to become visible.
func (b *ChromeBrowser) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = b.actionTimeout
	}
	return b.run(ctx, timeout, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

// Text returns the trimmed text of the first element matching selector.
func (b *ChromeBrowser) Text(ctx context.Context, selector string) (string, error) {
	var text string
	if err := b.run(ctx, b.actionTimeout, chromedp.Text(selector, &text, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Texts returns the trimmed, non-empty texts of every element matching selector.
// No match is an empty result, not an error.
func (b *ChromeBrowser) Texts(ctx context.Context, selector string) ([]string, error) {
	var nodes []*cdp.Node
	if err := b.run(ctx, b.actionTimeout, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(nodes))
	for _, node := range nodes {
		var text string
		if err := b.run(ctx, b.actionTimeout, chromedp.Text([]cdp.NodeID{node.NodeID}, &text, chromedp.ByNodeID)); err != nil {
			return texts, err
		}
		if text = strings.TrimSpace(text); text != "" {
			texts = append(texts, text)
		}
	}
	return texts, nil
}

// Value returns the current value of a form control.
func (b *ChromeBrowser) Value(ctx context.Context, selector string) (string, error) {
	var value string
	if err := b.run(ctx, b.actionTimeout, chromedp.Value(selector, &value, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return value, nil
}

// Exists reports whether any element matches selector right now.
func (b *ChromeBrowser) Exists(ctx context.Context, selector string) (bool, error) {
	var nodes []*cdp.Node
	if err := b.run(ctx, b.actionTimeout, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return false, err
	}
	return len(nodes) > 0, nil
}

// Location returns the current page URL.
func (b *ChromeBrowser) Location(ctx context.Context) (string, error) {
	var url string
	if err := b.run(ctx, b.actionTimeout, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

// Close shuts the browser down.
func (b *ChromeBrowser) Close() error {
	b.cancel()
	b.logger.Printf("[BROWSER] closed")
	return nil
}
