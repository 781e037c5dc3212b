package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/sirwalterjones/sessionmailer2-sub000/core"
)

var errBrowserClosed = errors.New("browser already closed")

// BrowserFetcher renders pages in headless Chrome. One browser process is
// started on first use and shared by every Fetch; each URL gets its own
// tab. Close must be called to stop the process.
type BrowserFetcher struct {
	opts Options

	mu            sync.Mutex
	closed        bool
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewBrowser creates a BrowserFetcher. Chrome is not started until the
// first Fetch.
func NewBrowser(opts Options) *BrowserFetcher {
	return &BrowserFetcher{opts: opts.withDefaults()}
}

// browser returns the shared browser context, launching Chrome if needed.
func (b *BrowserFetcher) browser() (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, errBrowserClosed
	}
	if b.browserCtx != nil {
		return b.browserCtx, nil
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(b.opts.UserAgent),
		chromedp.WindowSize(1280, 1024),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if b.opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(b.opts.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// A Run with no actions launches the process.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("starting browser: %w", err)
	}
	slog.Debug("headless browser started")

	b.allocCancel = allocCancel
	b.browserCtx = browserCtx
	b.browserCancel = browserCancel
	return browserCtx, nil
}

// Fetch opens url in a new tab, waits for the network to go idle plus the
// settle delay, and returns the rendered DOM. Cancelling ctx closes the tab.
func (b *BrowserFetcher) Fetch(ctx context.Context, url string) (*core.FetchResult, error) {
	browserCtx, err := b.browser()
	if err != nil {
		return nil, &Error{Kind: KindNavigation, URL: url, Err: err}
	}

	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	runCtx, cancel := context.WithTimeout(tabCtx, b.opts.Timeout)
	defer cancel()

	idle := waitNetworkIdle(runCtx)

	var html, finalURL string
	err = chromedp.Run(runCtx,
		page.SetLifecycleEventsEnabled(true),
		network.SetExtraHTTPHeaders(network.Headers(map[string]any{
			"Accept-Language": "en-US,en;q=0.9",
		})),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			select {
			case <-idle:
			case <-time.After(b.opts.IdleWait):
				slog.Debug("network never went idle, capturing anyway", "url", url)
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		}),
		chromedp.Sleep(b.opts.SettleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Location(&finalURL),
	)
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, &Error{Kind: KindTimeout, URL: url, Err: err}
		}
		return nil, wrap(KindNavigation, url, err)
	}

	return &core.FetchResult{
		URL:         url,
		FinalURL:    finalURL,
		StatusCode:  200,
		HTML:        html,
		UsedBrowser: true,
	}, nil
}

// waitNetworkIdle returns a channel closed on the first networkIdle
// lifecycle event of the navigation started in ctx's tab.
func waitNetworkIdle(ctx context.Context) <-chan struct{} {
	idle := make(chan struct{})
	var once sync.Once
	var navigating atomic.Bool
	chromedp.ListenTarget(ctx, func(ev any) {
		e, ok := ev.(*page.EventLifecycleEvent)
		if !ok {
			return
		}
		switch e.Name {
		case "init":
			navigating.Store(true)
		case "networkIdle":
			if navigating.Load() {
				once.Do(func() { close(idle) })
			}
		}
	})
	return idle
}

// Close stops the browser process if one was started. It is safe to call
// more than once.
func (b *BrowserFetcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	if b.browserCtx == nil {
		return nil
	}

	err := chromedp.Cancel(b.browserCtx)
	b.browserCancel()
	b.allocCancel()
	slog.Debug("headless browser stopped")
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("closing browser: %w", err)
	}
	return nil
}
