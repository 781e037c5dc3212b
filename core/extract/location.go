package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	fallbackLocation  = "Location details available upon booking"
	minLocationLength = 3
	minShortText      = 10
	maxShortText      = 100
)

var locationLabel = regexp.MustCompile(`(?i)^(?:location|address|venue|where)\s*:\s*`)

func (e *HTMLExtractor) location() Strategy[string] {
	return FirstOf(e.hintedLocation, e.addressInBody, e.addressInShortText)
}

// hintedLocation takes the first short text inside a location/address/venue
// element outside the page chrome.
func (e *HTMLExtractor) hintedLocation(p *Page) (string, bool) {
	for _, sel := range e.rules.LocationSelectors {
		var found string
		p.Doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if inChrome(s) {
				return true
			}
			t := collapse(visibleText(s))
			if t == "" || len(t) >= e.rules.MaxLocationLength {
				return true
			}
			t = locationLabel.ReplaceAllString(t, "")
			if len(t) < minLocationLength {
				return true
			}
			found = t
			return false
		})
		if found != "" {
			return found, true
		}
	}
	return "", false
}

// addressInBody matches the address pattern one line at a time so an
// address is never stitched together from neighbouring blocks.
func (e *HTMLExtractor) addressInBody(p *Page) (string, bool) {
	for _, line := range strings.Split(p.BodyText(), "\n") {
		if m := e.addressPattern.FindString(line); m != "" {
			return collapse(m), true
		}
	}
	return "", false
}

func (e *HTMLExtractor) addressInShortText(p *Page) (string, bool) {
	var found string
	eachTextNode(p, func(text string) bool {
		if len(text) < minShortText || len(text) > maxShortText {
			return true
		}
		found = e.addressPattern.FindString(text)
		return found == ""
	})
	return found, found != ""
}
