package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	fallbackTitle  = "Photography Session"
	maxTitleLength = 200
)

// titleSeparators split a document title from the site name appended to it.
var titleSeparators = []string{" | ", " - ", " – ", " — "}

func (e *HTMLExtractor) title() Strategy[string] {
	return FirstOf(
		firstText("h1"),
		documentTitle,
		firstText(e.rules.TitleSelectors...),
	)
}

// firstText returns the first non-empty, reasonably short text among the
// elements matching selectors, tried in order.
func firstText(selectors ...string) Strategy[string] {
	return func(p *Page) (string, bool) {
		for _, sel := range selectors {
			var found string
			p.Doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
				t := collapse(visibleText(s))
				if t == "" || len(t) > maxTitleLength {
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
}

// documentTitle reads <title>, dropping a trailing " | Site Name".
func documentTitle(p *Page) (string, bool) {
	t := collapse(p.Doc.Find("title").First().Text())
	for _, sep := range titleSeparators {
		if i := strings.Index(t, sep); i > 0 {
			t = strings.TrimSpace(t[:i])
			break
		}
	}
	return t, t != ""
}
