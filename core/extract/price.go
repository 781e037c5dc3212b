package extract

import (
	"golang.org/x/net/html"
)

const fallbackPrice = "Contact for pricing"

// price scans leaf text nodes only, so a container repeating its
// children's text never wins over the element that actually holds it.
func (e *HTMLExtractor) price() Strategy[string] {
	return func(p *Page) (string, bool) {
		var found string
		eachTextNode(p, func(text string) bool {
			if m := e.pricePattern.FindString(text); m != "" {
				found = collapse(m)
				return false
			}
			return true
		})
		return found, found != ""
	}
}

// eachTextNode calls fn with the collapsed text of every visible text node
// under <body> in document order until fn returns false.
func eachTextNode(p *Page, fn func(text string) bool) {
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		switch n.Type {
		case html.TextNode:
			if t := collapse(n.Data); t != "" {
				return fn(t)
			}
			return true
		case html.ElementNode:
			if skipTags[n.DataAtom] {
				return true
			}
		case html.CommentNode:
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	for _, n := range p.Doc.Find("body").Nodes {
		if !walk(n) {
			return
		}
	}
}
