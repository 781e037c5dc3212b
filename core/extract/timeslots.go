package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sirwalterjones/sessionmailer2-sub000/core"
	"github.com/sirwalterjones/sessionmailer2-sub000/weburl"
)

// bookingAttrs may carry a slot's deep link on non-anchor elements.
var bookingAttrs = []string{"data-url", "data-href", "data-booking-url"}

var onclickURL = regexp.MustCompile(`['"]((?:https?:)?//[^'"\s]+|/[^'"\s]*)['"]`)

func (e *HTMLExtractor) timeSlots() Strategy[[]core.TimeSlot] {
	return FirstOf(e.clickableSlots, e.textSlots)
}

// slotList collects slots deduplicated by normalized time. A slot first
// seen with only the fallback link is upgraded when a later element for
// the same time carries a real one.
type slotList struct {
	slots   []core.TimeSlot
	derived []bool
	index   map[string]int
}

func newSlotList() *slotList {
	return &slotList{index: make(map[string]int)}
}

func (l *slotList) add(t, bookingURL string, derived bool) {
	if i, ok := l.index[t]; ok {
		if derived && !l.derived[i] {
			l.slots[i].BookingURL = bookingURL
			l.derived[i] = true
		}
		return
	}
	l.index[t] = len(l.slots)
	l.slots = append(l.slots, core.TimeSlot{Time: t, BookingURL: bookingURL})
	l.derived = append(l.derived, derived)
}

// clickableSlots scans buttons, anchors and time/slot-hinted elements in
// document order.
func (e *HTMLExtractor) clickableSlots(p *Page) ([]core.TimeSlot, bool) {
	list := newSlotList()
	p.Doc.Find(strings.Join(e.rules.SlotSelectors, ", ")).Each(func(_ int, s *goquery.Selection) {
		text := collapse(visibleText(s))
		if text == "" || len(text) > e.rules.MaxSlotTextLength {
			return
		}
		matches := e.timePattern.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			return
		}
		link, derived := e.bookingURL(p, s)
		for _, m := range matches {
			t := normalizeTime(m)
			if derived {
				list.add(t, link, true)
			} else {
				list.add(t, fallbackBookingURL(p, t), false)
			}
		}
	})
	return list.slots, len(list.slots) > 0
}

// textSlots is the last resort: any times in the page text, capped.
func (e *HTMLExtractor) textSlots(p *Page) ([]core.TimeSlot, bool) {
	list := newSlotList()
	for _, m := range e.timePattern.FindAllStringSubmatch(p.BodyText(), -1) {
		if len(list.slots) >= e.rules.MaxFallbackSlots {
			break
		}
		t := normalizeTime(m)
		list.add(t, fallbackBookingURL(p, t), false)
	}
	return list.slots, len(list.slots) > 0
}

// bookingURL derives a deep link for a slot element: its own href, a data
// attribute, a URL literal in onclick, or an enclosing anchor.
func (e *HTMLExtractor) bookingURL(p *Page, s *goquery.Selection) (string, bool) {
	resolve := func(href string) string { return weburl.Resolve(href, p.Base) }

	if goquery.NodeName(s) == "a" {
		if href, ok := s.Attr("href"); ok {
			if u := resolve(href); u != "" {
				return u, true
			}
		}
	}
	for _, attr := range bookingAttrs {
		if v, ok := s.Attr(attr); ok {
			if u := resolve(v); u != "" {
				return u, true
			}
		}
	}
	if onclick, ok := s.Attr("onclick"); ok {
		if m := onclickURL.FindStringSubmatch(onclick); m != nil {
			if u := resolve(m[1]); u != "" {
				return u, true
			}
		}
	}
	if href, ok := s.Parent().Closest("a[href]").Attr("href"); ok {
		if u := resolve(href); u != "" {
			return u, true
		}
	}
	return "", false
}

func fallbackBookingURL(p *Page, t string) string {
	return weburl.WithQuery(p.SourceURL, "time", t)
}

// normalizeTime renders a time match as "9:00 AM". m is a submatch slice
// from the time pattern (hour, minute, meridiem); patterns with another
// shape are collapsed and upper-cased as matched.
func normalizeTime(m []string) string {
	if len(m) < 4 {
		return strings.ToUpper(collapse(m[0]))
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return strings.ToUpper(collapse(m[0]))
	}
	return fmt.Sprintf("%d:%s %sM", hour, m[2], strings.ToUpper(m[3]))
}
