// Package extraction turns a rendered portfolio page into PortfolioData.
//
// Each field is read through an ordered chain of selector strategies that ends
// in a hardcoded default, so a page with no recognisable markup still yields a
// complete profile. Results are cached on disk per URL.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/profile-agent/internal/cache"
	"github.com/jonathan/profile-agent/internal/fetch"
	"github.com/jonathan/profile-agent/internal/types"
)

// DefaultCacheWindow is how long a cached extraction stays valid.
const DefaultCacheWindow = 60 * time.Minute

// ErrInvalidURL is returned for URLs that are not absolute http(s) URLs.
var ErrInvalidURL = errors.New("invalid portfolio URL")

// Request selects the page and caching behaviour of one extraction.
type Request struct {
	URL      string
	UseCache bool
	// ForceRefresh skips the cache read. The fresh result is still cached.
	ForceRefresh bool
}

// Result is the outcome of an extraction.
type Result struct {
	Data      *types.PortfolioData
	FromCache bool
}

// Options configures an Extractor.
type Options struct {
	Renderer    fetch.Renderer
	Cache       *cache.FileCache
	CacheWindow time.Duration
	Logger      *log.Logger
}

// Extractor renders and parses portfolio pages.
type Extractor struct {
	renderer fetch.Renderer
	cache    *cache.FileCache
	window   time.Duration
	logger   *log.Logger
	group    singleflight.Group
	now      func() time.Time
}

// New creates an Extractor. A nil Cache disables caching; a nil Renderer
// uses plain HTTP.
func New(opts Options) *Extractor {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	if opts.Renderer == nil {
		opts.Renderer = &fetch.HTTPRenderer{}
	}
	if opts.CacheWindow <= 0 {
		opts.CacheWindow = DefaultCacheWindow
	}
	return &Extractor{
		renderer: opts.Renderer,
		cache:    opts.Cache,
		window:   opts.CacheWindow,
		logger:   opts.Logger,
		now:      time.Now,
	}
}

// Extract returns portfolio data for req.URL, from cache when allowed.
// Concurrent fresh extractions of the same URL share one render.
func (e *Extractor) Extract(ctx context.Context, req Request) (*Result, error) {
	url := strings.TrimSpace(req.URL)
	if err := fetch.ValidateURL(url); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, req.URL)
	}

	if req.UseCache && !req.ForceRefresh && e.cache != nil {
		if data, ok := e.cache.Get(url, e.window); ok {
			e.logger.Printf("[EXTRACT] using cached data for %s", url)
			return &Result{Data: data, FromCache: true}, nil
		}
	}

	// The shared render outlives any single caller; each caller stops
	// waiting when its own context ends.
	renderCtx := context.WithoutCancel(ctx)
	ch := e.group.DoChan(url, func() (any, error) {
		return e.extractFresh(renderCtx, url)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("extraction of %s abandoned: %w", url, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			e.logger.Printf("[EXTRACT] shared in-flight extraction of %s", url)
		}
		return &Result{Data: res.Val.(*types.PortfolioData)}, nil
	}
}

func (e *Extractor) extractFresh(ctx context.Context, url string) (*types.PortfolioData, error) {
	e.logger.Printf("[EXTRACT] extracting data from %s", url)

	html, err := e.renderer.Render(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", url, err)
	}

	data := e.Parse(html)
	data.LastUpdated = types.Timestamp(e.now())

	if e.cache != nil {
		if err := e.cache.Put(url, data); err != nil {
			e.logger.Printf("[EXTRACT] failed to cache %s: %v", url, err)
		}
	}
	e.logger.Printf("[EXTRACT] portfolio data extracted from %s", url)
	return data, nil
}

// Parse extracts every field from html. Fields without recognisable markup
// get their defaults; Parse never fails.
func (e *Extractor) Parse(html string) *types.PortfolioData {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		e.logger.Printf("[EXTRACT] failed to parse HTML, using defaults: %v", err)
		return DefaultPortfolio()
	}

	return &types.PortfolioData{
		BasicInfo:    runChain("basic info", doc, basicInfoChain(), DefaultBasicInfo, e.logger),
		About:        runChain("about", doc, aboutChain(), DefaultAbout, e.logger),
		Experience:   runChain("experience", doc, experienceChain(), DefaultExperience, e.logger),
		Education:    runChain("education", doc, educationChain(), DefaultEducation, e.logger),
		Skills:       runChain("skills", doc, skillsChain(), DefaultSkills, e.logger),
		Testimonials: runChain("testimonials", doc, testimonialsChain(), DefaultTestimonials, e.logger),
	}
}
