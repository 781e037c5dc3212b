// Package normalize implements the Normalizer interface.
// It converts a composed HTML email into Markdown, which doubles as the
// plain-text part of a multipart message for clients that cannot show
// HTML.
package normalize

import (
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// dropSelectors never belong in the text part.
var dropSelectors = []string{"head", "style", "script", ".hero-image", ".gallery"}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// TextNormalizer converts email HTML to Markdown text.
type TextNormalizer struct{}

// New creates a TextNormalizer.
func New() *TextNormalizer {
	return &TextNormalizer{}
}

// Normalize converts a composed email document into Markdown. Images and
// layout-only elements are dropped; sessions are separated by a rule.
func (n *TextNormalizer) Normalize(emailHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(emailHTML))
	if err != nil {
		return "", fmt.Errorf("parsing email HTML: %w", err)
	}
	doc.Find(".session-divider").ReplaceWithHtml("<hr>")
	for _, sel := range dropSelectors {
		doc.Find(sel).Remove()
	}

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("serializing email body: %w", err)
	}

	markdown, err := htmltomarkdown.ConvertString(body)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return strings.TrimSpace(blankRuns.ReplaceAllString(markdown, "\n\n")) + "\n", nil
}
