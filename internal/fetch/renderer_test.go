package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const browserHTML = "<html><body>rendered by browser</body></html>"

type countingRenderer struct {
	html  string
	err   error
	calls int
}

func (c *countingRenderer) Render(context.Context, string) (string, error) {
	c.calls++
	return c.html, c.err
}

func longPage() string {
	return "<html><body><main><p>" + strings.Repeat("Experienced data engineer. ", 40) + "</p></main></body></html>"
}

func TestHTTPRenderer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer server.Close()

	html, err := (&HTTPRenderer{}).Render(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, html, "hello")
}

func TestAutoRenderer_UsesHTTPForFullPages(t *testing.T) {
	httpR := &countingRenderer{html: longPage()}
	browser := &countingRenderer{html: browserHTML}
	r := &AutoRenderer{HTTP: httpR, Browser: browser}

	html, err := r.Render(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, longPage(), html)
	assert.Equal(t, 0, browser.calls)
}

func TestAutoRenderer_SwitchesToBrowserForShortPages(t *testing.T) {
	httpR := &countingRenderer{html: `<html><body><div id="root"></div></body></html>`}
	browser := &countingRenderer{html: browserHTML}
	r := &AutoRenderer{HTTP: httpR, Browser: browser}

	html, err := r.Render(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, browserHTML, html)
	assert.Equal(t, 1, browser.calls)
}

func TestAutoRenderer_SwitchesToBrowserOnHTTPError(t *testing.T) {
	httpR := &countingRenderer{err: errors.New("connection reset")}
	browser := &countingRenderer{html: browserHTML}
	r := &AutoRenderer{HTTP: httpR, Browser: browser}

	html, err := r.Render(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, browserHTML, html)
}

func TestAutoRenderer_KeepsShortHTTPPageWhenBrowserFails(t *testing.T) {
	short := "<html><body>tiny</body></html>"
	r := &AutoRenderer{
		HTTP:    &countingRenderer{html: short},
		Browser: &countingRenderer{err: errors.New("chrome not found")},
	}

	html, err := r.Render(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, short, html)
}

func TestAutoRenderer_BothFail(t *testing.T) {
	httpErr := errors.New("connection reset")
	browserErr := errors.New("chrome not found")
	r := &AutoRenderer{
		HTTP:    &countingRenderer{err: httpErr},
		Browser: &countingRenderer{err: browserErr},
	}

	_, err := r.Render(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, httpErr)
	assert.ErrorIs(t, err, browserErr)
}

func TestAutoRenderer_WithoutBrowser(t *testing.T) {
	short := "<html><body>tiny</body></html>"
	r := &AutoRenderer{HTTP: &countingRenderer{html: short}}

	html, err := r.Render(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, short, html)
}

func TestAutoRenderer_InvalidURL(t *testing.T) {
	httpR := &countingRenderer{html: longPage()}
	r := &AutoRenderer{HTTP: httpR}

	_, err := r.Render(context.Background(), "not a url")
	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 0, httpR.calls)
}

func TestRendererFunc(t *testing.T) {
	var r Renderer = RendererFunc(func(_ context.Context, url string) (string, error) {
		return "<p>" + url + "</p>", nil
	})
	html, err := r.Render(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "<p>x</p>", html)
}
