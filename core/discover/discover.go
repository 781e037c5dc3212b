// Package discover finds the booking-session pages linked from a listing
// page, such as a photographer's profile or an index of upcoming sessions.
package discover

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sirwalterjones/sessionmailer2-sub000/core"
	"github.com/sirwalterjones/sessionmailer2-sub000/weburl"
)

// DefaultPathPattern matches the path of a single session page.
const DefaultPathPattern = `^/(?:s|sessions?|book)/[^/]+/?$`

const defaultLimit = 20

// Options controls which links count as sessions.
type Options struct {
	// Domain must appear in a link's host. Empty accepts any host.
	Domain string
	// PathPattern is matched against a link's path.
	PathPattern string
	// Limit caps the number of links returned.
	Limit int
}

// Discoverer extracts session links from listing pages.
type Discoverer struct {
	domain string
	path   *regexp.Regexp
	limit  int
}

// New compiles opts. An invalid PathPattern is an error.
func New(opts Options) (*Discoverer, error) {
	pattern := opts.PathPattern
	if pattern == "" {
		pattern = DefaultPathPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling session path pattern: %w", err)
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Discoverer{domain: opts.Domain, path: re, limit: limit}, nil
}

// Discover fetches listingURL and returns the session links on it in
// document order, without duplicates. The listing page itself is never
// part of the result.
func (d *Discoverer) Discover(ctx context.Context, fetcher core.Fetcher, listingURL string) ([]string, error) {
	res, err := fetcher.Fetch(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("fetching listing page: %w", err)
	}
	base := res.FinalURL
	if base == "" {
		base = listingURL
	}
	return d.Links(res.HTML, base)
}

// Links returns the session links found in html, resolved against baseURL.
func (d *Discoverer) Links(html, baseURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing listing page: %w", err)
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing listing URL: %w", err)
	}

	self := weburl.Normalize(base.String())
	found := weburl.NewSet()
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		link := weburl.Resolve(href, base)
		if link == "" || !d.isSession(link) {
			return true
		}
		link = weburl.Normalize(link)
		if link != self {
			found.Add(link)
		}
		return found.Len() < d.limit
	})
	return found.All(), nil
}

func (d *Discoverer) isSession(link string) bool {
	if !weburl.MatchesDomain(link, d.domain) || weburl.IsImageAsset(link) {
		return false
	}
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return d.path.MatchString(u.Path)
}
