// Package extract implements the Extractor interface.
// It recovers a SessionData from an arbitrary booking page by running an
// ordered cascade of strategies per field:
//  1. Markup hints (class names, semantic tags) for the field
//  2. Pattern scans over the page's visible text
//  3. A documented fallback value
//
// Extraction never fails. A strategy that finds nothing hands over to the
// next one, and the last resort is always a placeholder.
package extract

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/microcosm-cc/bluemonday"

	"github.com/sirwalterjones/sessionmailer2-sub000/core"
	"github.com/sirwalterjones/sessionmailer2-sub000/core/images"
)

// HTMLExtractor extracts session data from rendered HTML.
// It is safe for concurrent use.
type HTMLExtractor struct {
	rules      Rules
	classifier *images.Classifier
	strip      *bluemonday.Policy

	pricePattern   *regexp.Regexp
	timePattern    *regexp.Regexp
	datePatterns   []*regexp.Regexp
	addressPattern *regexp.Regexp
}

// New creates an HTMLExtractor from a heuristics table. Every pattern and
// selector in rules is compiled up front; a bad entry is an error here
// rather than a silent miss later.
func New(rules Rules) (*HTMLExtractor, error) {
	e := &HTMLExtractor{
		rules: rules,
		strip: bluemonday.StripTagsPolicy(),
	}

	var err error
	if e.pricePattern, err = compile("price", rules.PricePattern); err != nil {
		return nil, err
	}
	if e.timePattern, err = compile("time", rules.TimePattern); err != nil {
		return nil, err
	}
	if e.addressPattern, err = compile("address", rules.AddressPattern); err != nil {
		return nil, err
	}
	for _, p := range rules.DatePatterns {
		re, err := compile("date", p)
		if err != nil {
			return nil, err
		}
		e.datePatterns = append(e.datePatterns, re)
	}

	selectorLists := [][]string{
		rules.TitleSelectors, rules.DescriptionSelectors, rules.BlockSelectors,
		rules.DateSelectors, rules.LocationSelectors, rules.SlotSelectors,
	}
	for _, list := range selectorLists {
		for _, sel := range list {
			if _, err := cascadia.ParseGroup(sel); err != nil {
				return nil, fmt.Errorf("parsing selector %q: %w", sel, err)
			}
		}
	}

	if e.classifier, err = images.NewClassifier(rules.Images); err != nil {
		return nil, err
	}
	return e, nil
}

func compile(name, pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%s pattern is empty", name)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling %s pattern: %w", name, err)
	}
	return re, nil
}

// Extract parses html and returns the session it describes. Fields the page
// does not yield are filled with fallbacks, so Title, Description and
// Images are always non-empty.
func (e *HTMLExtractor) Extract(html string, sourceURL string) (session core.SessionData) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("extraction panicked, using fallback session", "url", sourceURL, "panic", r)
			session = e.Fallback(sourceURL, "")
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		slog.Debug("unparsable HTML, using fallback session", "url", sourceURL, "error", err)
		return e.Fallback(sourceURL, "")
	}
	p := newPage(doc, html, sourceURL)

	var degraded []string
	field := func(name string, s Strategy[string], fallback string) string {
		if v, ok := s(p); ok {
			return v
		}
		degraded = append(degraded, name)
		return fallback
	}

	session.URL = sourceURL
	session.Title = field("title", e.title(), fallbackTitle)
	session.Price = field("price", e.price(), fallbackPrice)
	session.Location = field("location", e.location(), fallbackLocation)

	dates, ok := e.dates()(p)
	session.Date = strings.Join(dates, ", ")
	if !ok {
		degraded = append(degraded, "date")
		session.Date = fallbackDate
	}

	slots, ok := e.timeSlots()(p)
	if !ok {
		degraded = append(degraded, "timeSlots")
		slots = []core.TimeSlot{}
	}
	session.TimeSlots = slots

	session.Description = e.description(p, session.Title, session.Price, dates, &degraded)

	found := e.classifier.Classify(images.Collect(doc, sourceURL, e.rules.Images.ContextDepth))
	if len(found) == 0 {
		degraded = append(degraded, "images")
	}
	session.Images = e.classifier.WithFallback(found)
	session.SyncFirstImage()

	if len(degraded) > 0 {
		slog.Debug("extraction degraded", "url", sourceURL, "fallbacks", degraded)
	}
	return session
}

func (e *HTMLExtractor) description(p *Page, title, price string, dates []string, degraded *[]string) string {
	raw, ok := e.rawDescription()(p)
	if !ok {
		*degraded = append(*degraded, "description")
		return fallbackDescription(title)
	}

	leaked := append([]string{price}, dates...)

	cleaned := e.cleanDescription(raw, leaked)
	if !e.plausible(cleaned) {
		*degraded = append(*degraded, "description")
		return implausibleDescription
	}
	return cleaned
}

// Fallback returns the placeholder session used when a page could not be
// fetched or parsed. errMsg, when set, is carried in the Error field.
func (e *HTMLExtractor) Fallback(sourceURL, errMsg string) core.SessionData {
	s := core.SessionData{
		URL:         sourceURL,
		Title:       fallbackTitle,
		Description: fallbackDescription(fallbackTitle),
		Price:       fallbackPrice,
		Date:        fallbackDate,
		Location:    fallbackLocation,
		TimeSlots:   []core.TimeSlot{},
		Images:      e.classifier.WithFallback(nil),
		Error:       errMsg,
	}
	s.SyncFirstImage()
	return s
}
