// Package compose renders extracted sessions into self-contained HTML
// email documents. Everything here is a pure function of its inputs:
// the same sessions and branding always produce byte-identical output.
package compose

import (
	"fmt"
	"strings"

	"github.com/sirwalterjones/sessionmailer2-sub000/core"
	"github.com/sirwalterjones/sessionmailer2-sub000/core/images"
)

const multiSessionTitle = "Upcoming Photography Sessions"

// ComposeSingle renders one session as a complete HTML document. The call
// to action links to sourceURL, or to the session's own URL when empty.
func ComposeSingle(session core.SessionData, branding core.BrandingOptions, sourceURL string) string {
	t := newTheme(branding)
	body := sessionContent(session, branding, sourceURL, t)
	return document(session.Title, body, t)
}

// ComposeMultiple renders every session into one document, separated by
// dividers and sharing a single style block and font import.
func ComposeMultiple(sessions []core.SessionData, branding core.BrandingOptions) string {
	t := newTheme(branding)
	parts := make([]string, 0, len(sessions))
	for _, s := range sessions {
		parts = append(parts, sessionContent(s, branding, s.URL, t))
	}
	return document(multiSessionTitle, strings.Join(parts, divider(t)), t)
}

func divider(t theme) string {
	return fmt.Sprintf(`<div class="session-divider" role="separator" style="height: 4px; margin: 40px 0; background-color: %s; background: linear-gradient(90deg, %s 0%%, %s 100%%);"></div>`+"\n",
		t.primary, t.primary, t.secondary)
}

// SessionContent renders the sections of one session without the outer
// document, for embedding in a larger template.
func SessionContent(session core.SessionData, branding core.BrandingOptions, sourceURL string) string {
	return sessionContent(session, branding, sourceURL, newTheme(branding))
}

func sessionContent(s core.SessionData, branding core.BrandingOptions, sourceURL string, t theme) string {
	if sourceURL == "" {
		sourceURL = s.URL
	}
	if override, ok := branding.HeroOverride(s.URL); ok {
		s.Images = images.PromoteHero(s.Images, override)
	}

	var b strings.Builder
	b.WriteString(`<div class="session">` + "\n")
	heroSection(&b, s)
	titleSection(&b, s, t)
	b.WriteString(`<div class="content" style="padding: 32px 24px;">` + "\n")
	descriptionSection(&b, s, t)
	gallerySection(&b, s)
	detailsSection(&b, s, t)
	timeSlotsSection(&b, s, sourceURL, t)
	ctaSection(&b, sourceURL, t)
	b.WriteString("</div>\n</div>\n")
	return b.String()
}

func document(title, body string, t theme) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString(`<html lang="en">` + "\n<head>\n")
	b.WriteString(`<meta charset="UTF-8">` + "\n")
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1.0">` + "\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", esc(title))
	if link := fontLink(t.headingFont, t.textFont); link != "" {
		b.WriteString(link + "\n")
	}
	b.WriteString(styleSheet(t) + "\n")
	b.WriteString("</head>\n")
	b.WriteString(`<body style="margin: 0; padding: 0; background-color: #f4f4f4;">` + "\n")
	b.WriteString(`<div class="email-container" style="max-width: 600px; margin: 0 auto; background-color: #ffffff;">` + "\n")
	b.WriteString(body)
	b.WriteString("</div>\n</body>\n</html>\n")
	return b.String()
}
