package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Page is a parsed booking page handed to every strategy.
type Page struct {
	Doc       *goquery.Document
	RawHTML   string
	SourceURL string
	Base      *url.URL

	bodyText *string
}

func newPage(doc *goquery.Document, raw, sourceURL string) *Page {
	base, err := url.Parse(sourceURL)
	if err != nil || !base.IsAbs() {
		base = nil
	}
	return &Page{Doc: doc, RawHTML: raw, SourceURL: sourceURL, Base: base}
}

// BodyText returns the visible text of <body>, one line per block element.
func (p *Page) BodyText() string {
	if p.bodyText == nil {
		body := p.Doc.Find("body")
		if body.Length() == 0 {
			body = p.Doc.Selection
		}
		t := visibleText(body)
		p.bodyText = &t
	}
	return *p.bodyText
}

// Strategy is one heuristic for a field. It reports false when it found
// nothing usable, letting the next strategy run.
type Strategy[T any] func(p *Page) (T, bool)

// FirstOf combines strategies so the first success wins.
func FirstOf[T any](strategies ...Strategy[T]) Strategy[T] {
	return func(p *Page) (T, bool) {
		for _, s := range strategies {
			if v, ok := s(p); ok {
				return v, true
			}
		}
		var zero T
		return zero, false
	}
}

// skipTags never contribute visible text.
var skipTags = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Noscript: true,
	atom.Template: true, atom.Svg: true, atom.Iframe: true,
}

// blockTags start a new line in visible text.
var blockTags = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.Header: true, atom.Footer: true, atom.Main: true, atom.Aside: true,
	atom.Nav: true, atom.Li: true, atom.Ul: true, atom.Ol: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Br: true, atom.Tr: true, atom.Td: true, atom.Th: true, atom.Table: true,
	atom.Blockquote: true, atom.Form: true, atom.Button: true, atom.Dd: true, atom.Dt: true,
}

// visibleText renders the text of sel, skipping scripts and styles, with a
// newline at every block boundary. Each line is whitespace-collapsed and
// empty lines are dropped.
func visibleText(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if skipTags[n.DataAtom] {
				return
			}
		case html.CommentNode:
			return
		}
		block := n.Type == html.ElementNode && blockTags[n.DataAtom]
		if block {
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteByte('\n')
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if l := collapse(line); l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}

// collapse trims s and folds every run of whitespace into one space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// wordCount counts whitespace-separated words.
func wordCount(s string) int {
	return len(strings.Fields(s))
}

// inChrome reports whether sel sits inside page chrome that never holds
// session content.
func inChrome(sel *goquery.Selection) bool {
	return sel.Closest("nav, header, footer, script, style, noscript").Length() > 0
}

// containsAny reports whether lower contains any of phrases (case-insensitive).
func containsAny(s string, phrases []string) bool {
	lower := strings.ToLower(s)
	for _, p := range phrases {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
