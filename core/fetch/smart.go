package fetch

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sirwalterjones/sessionmailer2-sub000/core"
)

// minRenderedText is the visible body text below which a statically fetched
// page is treated as an unrendered JavaScript shell.
const minRenderedText = 500

// SmartFetcher tries a fast static fetch first and falls back to the
// browser when that fails or returns a page that needs JavaScript.
type SmartFetcher struct {
	static  core.Fetcher
	browser core.Fetcher
}

// NewSmart combines a static and a browser fetcher.
func NewSmart(static, browser core.Fetcher) *SmartFetcher {
	return &SmartFetcher{static: static, browser: browser}
}

// Fetch implements core.Fetcher.
func (s *SmartFetcher) Fetch(ctx context.Context, url string) (*core.FetchResult, error) {
	res, err := s.static.Fetch(ctx, url)
	if err == nil && !NeedsRendering(res.HTML) {
		return res, nil
	}
	if err != nil {
		slog.Debug("static fetch failed, trying browser", "url", url, "error", err)
	} else {
		slog.Debug("page needs rendering, trying browser", "url", url)
	}

	rendered, berr := s.browser.Fetch(ctx, url)
	if berr != nil {
		if err == nil {
			// The static page is thin but still better than nothing.
			slog.Warn("browser fetch failed, using static page", "url", url, "error", berr)
			return res, nil
		}
		return nil, berr
	}
	return rendered, nil
}

// NeedsRendering reports whether html looks like a client-side app shell:
// too little visible body text once scripts and styles are removed.
func NeedsRendering(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return true
	}
	doc.Find("script, style, noscript, template").Remove()
	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	return len(text) < minRenderedText
}
