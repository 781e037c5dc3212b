package extract

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

const implausibleDescription = "Beautiful photography session available for booking."

const fallbackDescriptionFormat = "Join us for %s, a photography session designed to capture the moments that matter most to you.\n\n" +
	"Every session is relaxed and guided, so you can simply enjoy the time while we take care of the details. " +
	"You will receive a curated gallery of professionally edited images.\n\n" +
	"Spots are limited. Reserve your time today to secure your session."

// trackingPatterns strip analytics calls and script fragments that leak into
// page text when a site inlines them next to the content.
var trackingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)\bfunction\s*\w*\s*\([^)]*\)\s*\{.*?\}`),
	regexp.MustCompile(`\b(?:gtag|fbq|ga|_paq\.push|dataLayer\.push)\s*\([^)]*\)\s*;?`),
	regexp.MustCompile(`\bwindow\.[\w.]+\s*=\s*[^;\n]*;?`),
	regexp.MustCompile(`\b(?:var|let|const)\s+\w+\s*=\s*[^;\n]*;`),
}

var (
	spaceBeforePunct = regexp.MustCompile(`\s+([,.;:!?])`)
	missingSpace     = regexp.MustCompile(`([a-z][.!?])([A-Z])`)
	repeatedPunct    = regexp.MustCompile(`([,;])(?:\s*[,;])+`)
	sentenceEnd      = regexp.MustCompile(`[.!?:"')\x{201D}]$`)
)

// rawDescription tries, in order: content-hinted containers, the largest
// plausible text block, and the readability article text.
func (e *HTMLExtractor) rawDescription() Strategy[string] {
	return FirstOf(e.hintedDescription, e.largestBlock, e.readableText)
}

// nestedChrome is stripped from a content container before its text is
// measured.
const nestedChrome = "nav, header, footer, form, button, h1, script, style, noscript"

// contentText is the visible text of s without the chrome nested inside it.
func contentText(s *goquery.Selection) string {
	if s.Find(nestedChrome).Length() == 0 {
		return visibleText(s)
	}
	c := s.Clone()
	c.Find(nestedChrome).Remove()
	return visibleText(c)
}

func (e *HTMLExtractor) hintedDescription(p *Page) (string, bool) {
	for _, sel := range e.rules.DescriptionSelectors {
		var found string
		p.Doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if name := goquery.NodeName(s); name == "body" || name == "html" || inChrome(s) {
				return true
			}
			t := contentText(s)
			flat := collapse(t)
			if n := len(flat); n <= e.rules.MinDescriptionLength || n > e.rules.MaxBlockLength {
				return true
			}
			if containsAny(flat, e.rules.BookingPhrases) {
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

// largestBlock picks the longest block element that reads like prose rather
// than a booking widget.
func (e *HTMLExtractor) largestBlock(p *Page) (string, bool) {
	var best string
	bestLen := 0
	p.Doc.Find(strings.Join(e.rules.BlockSelectors, ", ")).Each(func(_ int, s *goquery.Selection) {
		if s.Closest("nav, header, footer, script, style, button").Length() > 0 {
			return
		}
		t := contentText(s)
		flat := collapse(t)
		n := len(flat)
		if n < e.rules.MinDescriptionLength || n > e.rules.MaxBlockLength || n <= bestLen {
			return
		}
		if containsAny(flat, e.rules.BookingPhrases) || wordCount(flat) <= e.rules.MinBlockWords {
			return
		}
		best, bestLen = t, n
	})
	return best, best != ""
}

func (e *HTMLExtractor) readableText(p *Page) (string, bool) {
	doc := p.Doc.Selection.Clone()
	doc.Find(nestedChrome).Remove()
	raw, err := goquery.OuterHtml(doc)
	if err != nil {
		return "", false
	}
	article, err := readability.FromReader(strings.NewReader(raw), p.Base)
	if err != nil {
		return "", false
	}
	t := strings.TrimSpace(article.TextContent)
	if len(collapse(t)) < e.rules.MinDescriptionLength {
		return "", false
	}
	return t, true
}

// fallbackDescription is the canned copy used when nothing on the page
// reads like a description.
func fallbackDescription(title string) string {
	return fmt.Sprintf(fallbackDescriptionFormat, title)
}

// cleanDescription turns raw block text into paragraphs of prose: tags and
// tracking code are stripped, values already shown elsewhere in the email
// (price, dates, times) are removed, and whitespace is normalized. The
// paragraph breaks of raw survive as blank lines.
func (e *HTMLExtractor) cleanDescription(raw string, leaked []string) string {
	text := html.UnescapeString(e.strip.Sanitize(raw))
	for _, re := range trackingPatterns {
		text = re.ReplaceAllString(text, " ")
	}
	for _, v := range leaked {
		if v != "" {
			text = leakPattern(v).ReplaceAllString(text, " ${1}")
		}
	}
	text = e.timePattern.ReplaceAllString(text, " ")

	var paras []string
	for _, line := range strings.Split(text, "\n") {
		line = collapse(line)
		line = spaceBeforePunct.ReplaceAllString(line, "$1")
		line = repeatedPunct.ReplaceAllString(line, "$1")
		line = missingSpace.ReplaceAllString(line, "$1 $2")
		line = strings.Trim(line, " ,;:-|")
		if wordCount(line) < 2 {
			continue
		}
		if n := len(paras); n > 0 && !sentenceEnd.MatchString(paras[n-1]) {
			paras[n-1] += " " + line
			continue
		}
		paras = append(paras, line)
	}
	return strings.Join(paras, "\n\n")
}

// leakPattern matches v only as a whole token, so a leaked "$150" leaves
// "$1500" and "$150.00" alone. The trailing character is captured and must
// be put back.
func leakPattern(v string) *regexp.Regexp {
	prefix := ""
	if r, _ := utf8.DecodeRuneInString(v); unicode.IsLetter(r) || unicode.IsDigit(r) {
		prefix = `\b`
	}
	return regexp.MustCompile(prefix + regexp.QuoteMeta(v) + `([.,]?(?:[^\d.,]|$))`)
}

// plausible reports whether cleaned text reads like a human description.
func (e *HTMLExtractor) plausible(text string) bool {
	if len(text) < e.rules.MinCleanLength || wordCount(text) < e.rules.MinCleanWords {
		return false
	}
	return !containsAny(text, e.rules.CodeTokens)
}
