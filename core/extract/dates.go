package extract

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const fallbackDate = "Contact for available dates"

func (e *HTMLExtractor) dates() Strategy[[]string] {
	return FirstOf(e.hintedDates, e.bodyDates)
}

// hintedDates looks only inside elements whose markup says they hold a date.
func (e *HTMLExtractor) hintedDates(p *Page) ([]string, bool) {
	var texts []string
	for _, sel := range e.rules.DateSelectors {
		p.Doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if t := visibleText(s); t != "" {
				texts = append(texts, t)
			}
		})
	}
	found := e.matchDates(strings.Join(texts, "\n"))
	return found, len(found) > 0
}

func (e *HTMLExtractor) bodyDates(p *Page) ([]string, bool) {
	found := e.matchDates(p.BodyText())
	return found, len(found) > 0
}

type span struct {
	start, end, priority int
}

// matchDates returns every distinct date in text in order of appearance.
// Where patterns overlap (a weekday date also contains a month/day/year
// date) the earliest, then highest-priority, match is kept.
func (e *HTMLExtractor) matchDates(text string) []string {
	var spans []span
	for prio, re := range e.datePatterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			spans = append(spans, span{start: loc[0], end: loc[1], priority: prio})
		}
	}
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].priority < spans[j].priority
	})

	var out []string
	seen := make(map[string]bool)
	end := 0
	for _, s := range spans {
		if s.start < end {
			continue
		}
		end = s.end
		d := collapse(text[s.start:s.end])
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
