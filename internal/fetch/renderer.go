package fetch

import (
	"context"
	"errors"
	"log"
)

// Renderer returns the rendered HTML of a page.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, url string) (string, error)

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// HTTPRenderer fetches pages with a plain GET.
type HTTPRenderer struct {
	Options *Options
}

// Render implements Renderer.
func (r *HTTPRenderer) Render(ctx context.Context, url string) (string, error) {
	page, err := GetPage(ctx, url, r.Options)
	if err != nil {
		return "", err
	}
	return page.HTML, nil
}

// BrowserRenderer renders pages in headless Chrome.
type BrowserRenderer struct {
	Options BrowserOptions
	Logger  *log.Logger
}

// Render implements Renderer.
func (r *BrowserRenderer) Render(ctx context.Context, url string) (string, error) {
	return WithBrowser(ctx, url, r.Options, r.Logger)
}

// AutoRenderer tries a plain HTTP fetch first and switches to the browser
// when the page fails to load or its main text is shorter than MinContentLength.
type AutoRenderer struct {
	HTTP    Renderer
	Browser Renderer
	Logger  *log.Logger
}

// NewAutoRenderer wires the default HTTP and browser renderers.
func NewAutoRenderer(httpOpts *Options, browserOpts BrowserOptions, logger *log.Logger) *AutoRenderer {
	return &AutoRenderer{
		HTTP:    &HTTPRenderer{Options: httpOpts},
		Browser: &BrowserRenderer{Options: browserOpts, Logger: logger},
		Logger:  logger,
	}
}

// Render implements Renderer. When the browser fails after a short but
// successful HTTP fetch, the HTTP page is returned.
func (r *AutoRenderer) Render(ctx context.Context, url string) (string, error) {
	logger := orDiscard(r.Logger)

	if err := ValidateURL(url); err != nil {
		return "", err
	}

	html, httpErr := r.HTTP.Render(ctx, url)
	if httpErr == nil {
		text, err := ExtractMainText(html, PortfolioSelectors())
		if err == nil && !ShouldUseBrowser(text) {
			logger.Printf("[FETCH] HTTP fetch succeeded for %s (%d chars of text)", url, len(text))
			return html, nil
		}
		logger.Printf("[FETCH] HTTP content too short for %s, switching to browser", url)
	} else {
		logger.Printf("[FETCH] HTTP fetch failed for %s: %v", url, httpErr)
	}

	if r.Browser == nil {
		if httpErr != nil {
			return "", httpErr
		}
		return html, nil
	}

	rendered, browserErr := r.Browser.Render(ctx, url)
	if browserErr == nil {
		return rendered, nil
	}
	if httpErr == nil {
		logger.Printf("[FETCH] browser failed for %s, using HTTP content: %v", url, browserErr)
		return html, nil
	}
	return "", errors.Join(httpErr, browserErr)
}
