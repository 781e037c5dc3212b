// Package fetch implements the Fetcher interface.
// Three strategies are provided: a static HTTP fetcher, a headless Chrome
// fetcher that executes the page's JavaScript, and a smart fetcher that
// tries the first and falls back to the second.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirwalterjones/sessionmailer2-sub000/core"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultSettleDelay = 2 * time.Second
	defaultIdleWait    = 10 * time.Second
	defaultUserAgent   = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	maxBodyBytes = 10 << 20
)

// Options configures every fetch strategy.
type Options struct {
	UserAgent string
	// Timeout bounds one URL's fetch, navigation and rendering included.
	Timeout time.Duration
	// SettleDelay is how long the browser waits after network idle for
	// client-side rendering to finish.
	SettleDelay time.Duration
	// IdleWait caps the wait for network idle.
	IdleWait time.Duration
	// ChromePath overrides Chrome auto-detection.
	ChromePath string
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		UserAgent:   defaultUserAgent,
		Timeout:     defaultTimeout,
		SettleDelay: defaultSettleDelay,
		IdleWait:    defaultIdleWait,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.UserAgent == "" {
		o.UserAgent = d.UserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	if o.SettleDelay < 0 {
		o.SettleDelay = 0
	}
	if o.IdleWait <= 0 {
		o.IdleWait = d.IdleWait
	}
	return o
}

// HTTPFetcher fetches pages with a plain HTTP GET. It does not run
// JavaScript.
type HTTPFetcher struct {
	client *http.Client
	opts   Options
}

// New creates an HTTPFetcher.
func New(opts Options) *HTTPFetcher {
	opts = opts.withDefaults()
	return &HTTPFetcher{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
	}
}

// Fetch retrieves the HTML content of the given URL.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*core.FetchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: KindHTTP, URL: url, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, wrap(KindHTTP, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Kind: KindHTTP, URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, wrap(KindHTTP, url, fmt.Errorf("reading response body: %w", err))
	}

	return &core.FetchResult{
		URL:        url,
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		HTML:       string(body),
	}, nil
}
