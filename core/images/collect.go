package images

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sirwalterjones/sessionmailer2-sub000/weburl"
)

// Source identifies where a candidate image was found.
type Source int

const (
	// SourceMeta is an og:image / twitter:image / image meta tag.
	SourceMeta Source = iota
	// SourceImg is an <img> src or lazy-load attribute.
	SourceImg
	// SourceBackground is an inline CSS background-image.
	SourceBackground
)

// Candidate is an absolute image URL plus the markup context it came from.
type Candidate struct {
	URL    string
	Source Source
	// Tokens are the lowercased class/id tokens of the element and its
	// closest ancestors.
	Tokens []string
	Alt    string
	// InChrome is true when the element sits inside a footer or nav.
	InChrome bool
}

// metaSelectors are checked first; they name the page's intended share image.
var metaSelectors = []string{
	`meta[property="og:image"]`,
	`meta[name="og:image"]`,
	`meta[name="image"]`,
	`meta[itemprop="image"]`,
	`meta[name="twitter:image"]`,
	`meta[property="twitter:image"]`,
}

// imgAttrs are the <img> attributes that may carry the real image URL.
var imgAttrs = []string{"src", "data-src", "data-lazy"}

var backgroundURLRegex = regexp.MustCompile(`url\(\s*['"]?([^'")]+?)['"]?\s*\)`)

var tokenSplitRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Collect gathers candidate images from doc in priority order: meta tags,
// then <img> elements, then inline background images. Relative URLs are
// resolved against sourceURL; unresolvable ones are skipped.
func Collect(doc *goquery.Document, sourceURL string, contextDepth int) []Candidate {
	base, err := url.Parse(sourceURL)
	if err != nil || !base.IsAbs() {
		base = nil
	}

	var out []Candidate

	for _, sel := range metaSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			content, _ := s.Attr("content")
			if abs := weburl.Resolve(content, base); abs != "" {
				out = append(out, Candidate{URL: abs, Source: SourceMeta})
			}
		})
	}

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		alt, _ := s.Attr("alt")
		tokens := contextTokens(s, contextDepth)
		chrome := s.Closest("footer, nav").Length() > 0
		for _, attr := range imgAttrs {
			v, ok := s.Attr(attr)
			if !ok {
				continue
			}
			if abs := weburl.Resolve(v, base); abs != "" {
				out = append(out, Candidate{
					URL:      abs,
					Source:   SourceImg,
					Tokens:   tokens,
					Alt:      strings.TrimSpace(alt),
					InChrome: chrome,
				})
			}
		}
	})

	doc.Find(`[style*="background"]`).Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		if !strings.Contains(strings.ToLower(style), "background") {
			return
		}
		tokens := contextTokens(s, contextDepth)
		chrome := s.Closest("footer, nav").Length() > 0
		for _, m := range backgroundURLRegex.FindAllStringSubmatch(style, -1) {
			if abs := weburl.Resolve(m[1], base); abs != "" {
				out = append(out, Candidate{
					URL:      abs,
					Source:   SourceBackground,
					Tokens:   tokens,
					InChrome: chrome,
				})
			}
		}
	})

	return out
}

// contextTokens returns class and id tokens for s and up to depth ancestors.
func contextTokens(s *goquery.Selection, depth int) []string {
	var tokens []string
	cur := s
	for i := 0; i <= depth && cur.Length() > 0; i++ {
		if goquery.NodeName(cur) == "body" {
			break
		}
		class, _ := cur.Attr("class")
		id, _ := cur.Attr("id")
		for _, tok := range tokenSplitRegex.Split(strings.ToLower(class+" "+id), -1) {
			if tok != "" {
				tokens = append(tokens, tok)
			}
		}
		cur = cur.Parent()
	}
	return tokens
}
