// Package pipeline runs the fetch → extract → compose flow for a batch of
// booking-page URLs. One bad page never fails the batch: it becomes a
// fallback session carrying the error message.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sirwalterjones/sessionmailer2-sub000/core"
	"github.com/sirwalterjones/sessionmailer2-sub000/core/compose"
	"github.com/sirwalterjones/sessionmailer2-sub000/core/images"
	"github.com/sirwalterjones/sessionmailer2-sub000/weburl"
)

const defaultConcurrency = 3

// FetcherSource hands out a fetcher scoped to one request. release frees
// whatever the fetcher started (a browser, typically).
type FetcherSource interface {
	Open(ctx context.Context) (f core.Fetcher, release func(), err error)
}

// Extractor is a core.Extractor that can also build the placeholder
// session for a page that could not be fetched.
type Extractor interface {
	core.Extractor
	Fallback(sourceURL, errMsg string) core.SessionData
}

// Discoverer finds session links on a listing page.
type Discoverer interface {
	Discover(ctx context.Context, fetcher core.Fetcher, listingURL string) ([]string, error)
}

// Options tunes a Pipeline.
type Options struct {
	// AllowedDomain must appear in the host of every requested URL.
	AllowedDomain string
	// Concurrency caps simultaneous fetches per request.
	Concurrency int
	// Discoverer enables Discover. Optional.
	Discoverer Discoverer
}

// Pipeline orchestrates one request at a time; it holds no per-request
// state and is safe for concurrent use.
type Pipeline struct {
	source     FetcherSource
	extractor  Extractor
	normalizer core.Normalizer
	opts       Options
}

// New creates a Pipeline. normalizer may be nil, in which case responses
// carry no plain-text alternative.
func New(source FetcherSource, extractor Extractor, normalizer core.Normalizer, opts Options) *Pipeline {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	return &Pipeline{source: source, extractor: extractor, normalizer: normalizer, opts: opts}
}

// Validate rejects the whole batch when any URL is not an absolute http(s)
// URL on the allowed domain.
func (p *Pipeline) Validate(urls []string) error {
	if len(urls) == 0 {
		return fmt.Errorf("%w: at least one URL is required", core.ErrValidation)
	}
	for _, u := range urls {
		if !weburl.MatchesDomain(u, p.opts.AllowedDomain) {
			if p.opts.AllowedDomain == "" {
				return fmt.Errorf("%w: invalid URL %q", core.ErrValidation, u)
			}
			return fmt.Errorf("%w: %q is not a %s URL", core.ErrValidation, u, p.opts.AllowedDomain)
		}
	}
	return nil
}

// Process fetches and extracts every URL in req, then composes the email.
// The returned error is either a validation failure (wrapping
// core.ErrValidation) or the context's error when ctx ends mid-batch.
func (p *Pipeline) Process(ctx context.Context, req Request) (*Response, error) {
	urls := req.AllURLs()
	if err := p.Validate(urls); err != nil {
		return nil, err
	}

	fetcher, release, err := p.source.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening fetcher: %w", err)
	}
	defer release()

	start := time.Now()
	sessions := make([]core.SessionData, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)
	for i, u := range urls {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sessions[i] = p.session(gctx, fetcher, u, req.BrandingOptions)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failed := 0
	for _, s := range sessions {
		if s.Error != "" {
			failed++
		}
	}
	slog.InfoContext(ctx, "request processed",
		"urls", len(urls), "failed", failed, "duration", time.Since(start))

	return p.Recompose(ctx, sessions, req.BrandingOptions)
}

// Discover lists the session pages linked from listingURL, which must
// itself pass Validate.
func (p *Pipeline) Discover(ctx context.Context, listingURL string) ([]string, error) {
	if p.opts.Discoverer == nil {
		return nil, errors.New("session discovery is not configured")
	}
	if err := p.Validate([]string{listingURL}); err != nil {
		return nil, err
	}

	fetcher, release, err := p.source.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening fetcher: %w", err)
	}
	defer release()

	links, err := p.opts.Discoverer.Discover(ctx, fetcher, listingURL)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "sessions discovered", "listing", listingURL, "sessions", len(links))
	return links, nil
}

// session runs fetch and extract for one URL. It never fails.
func (p *Pipeline) session(ctx context.Context, fetcher core.Fetcher, u string, branding core.BrandingOptions) core.SessionData {
	start := time.Now()
	res, err := fetcher.Fetch(ctx, u)
	if err != nil {
		slog.WarnContext(ctx, "session fetch failed",
			"url", u, "error", err, "duration", time.Since(start))
		return p.extractor.Fallback(u, err.Error())
	}

	s := p.extractor.Extract(res.HTML, u)
	if override, ok := branding.HeroOverride(u); ok {
		s.Images = images.PromoteHero(s.Images, override)
		s.SyncFirstImage()
	}
	slog.InfoContext(ctx, "session extracted",
		"url", u,
		"images", len(s.Images),
		"time_slots", len(s.TimeSlots),
		"browser", res.UsedBrowser,
		"duration", time.Since(start))
	return s
}

// Recompose renders already extracted sessions with the given branding,
// without fetching anything. One session yields the single-session
// document; several share one combined document.
func (p *Pipeline) Recompose(ctx context.Context, sessions []core.SessionData, branding core.BrandingOptions) (*Response, error) {
	if len(sessions) == 0 {
		return nil, fmt.Errorf("%w: no sessions to compose", core.ErrValidation)
	}

	var email string
	if len(sessions) == 1 {
		email = compose.ComposeSingle(sessions[0], branding, sessions[0].URL)
	} else {
		email = compose.ComposeMultiple(sessions, branding)
	}

	resp := &Response{
		Success:   true,
		Sessions:  sessions,
		EmailHTML: email,
		RawHTML:   email,
	}
	if p.normalizer != nil {
		text, err := p.normalizer.Normalize(email)
		if err != nil {
			slog.WarnContext(ctx, "plain-text alternative failed", "error", err)
		} else {
			resp.EmailText = text
		}
	}
	return resp, nil
}
