package compose

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode"
)

const (
	maxSentencesPerParagraph = 3
	longSentence             = 100
	emptyDescription         = "Beautiful photography session available for booking."
)

// transitions open a new paragraph when a sentence starts with one.
var transitions = []string{"However", "But", "Additionally", "Furthermore", "Moreover", "Also"}

var (
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
	sentenceBreak  = regexp.MustCompile(`[.!?]['")\x{2019}\x{201D}]*\s+[A-Z]`)
)

// FormatDescription turns plain text into inline-styled <p> elements.
// Sentences are grouped up to three per paragraph; a long sentence or one
// opening with a transition word starts a new paragraph. Blank lines in
// text always break paragraphs. Empty text yields one placeholder
// paragraph with the same styling.
func FormatDescription(text, font string, fontSize int, color string) string {
	return formatDescription(text, newParagraphStyle(font, fontSize, color))
}

func newParagraphStyle(font string, size int, color string) string {
	return paragraphStyle(fontStack(cssValue(font), "Arial, sans-serif"), size, cssValue(color))
}

func paragraphStyle(stack string, size int, color string) string {
	return fmt.Sprintf("margin: 0 0 16px 0; font-family: %s; font-size: %dpx; line-height: 1.6; color: %s;", stack, size, color)
}

func formatDescription(text, style string) string {
	var groups [][]string
	for _, para := range paragraphBreak.Split(strings.TrimSpace(text), -1) {
		groups = append(groups, groupSentences(splitSentences(para))...)
	}

	var b strings.Builder
	for _, g := range groups {
		fmt.Fprintf(&b, "<p style=\"%s\">%s</p>\n", style, html.EscapeString(strings.Join(g, " ")))
	}
	if b.Len() == 0 {
		fmt.Fprintf(&b, "<p style=\"%s\">%s</p>\n", style, html.EscapeString(emptyDescription))
	}
	return b.String()
}

// splitSentences cuts p after terminal punctuation followed by whitespace
// and a capital letter.
func splitSentences(p string) []string {
	p = strings.Join(strings.Fields(p), " ")
	if p == "" {
		return nil
	}
	var out []string
	start := 0
	for _, loc := range sentenceBreak.FindAllStringIndex(p, -1) {
		cut := loc[1] - 1 // the capital letter opening the next sentence
		if s := strings.TrimSpace(p[start:cut]); s != "" {
			out = append(out, s)
		}
		start = cut
	}
	if s := strings.TrimSpace(p[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

func groupSentences(sentences []string) [][]string {
	var groups [][]string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			groups = append(groups, cur)
			cur = nil
		}
	}
	for _, s := range sentences {
		if len(cur) >= maxSentencesPerParagraph || len(s) > longSentence || startsWithTransition(s) {
			flush()
		}
		cur = append(cur, s)
		if len(s) > longSentence {
			flush()
		}
	}
	flush()
	return groups
}

func startsWithTransition(s string) bool {
	for _, w := range transitions {
		if !strings.HasPrefix(s, w) {
			continue
		}
		rest := s[len(w):]
		if rest == "" {
			return true
		}
		r := []rune(rest)[0]
		if !unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
