package compose

import (
	"fmt"
	"html"
	"strings"

	"github.com/sirwalterjones/sessionmailer2-sub000/core"
	"github.com/sirwalterjones/sessionmailer2-sub000/weburl"
)

const (
	galleryCap = 4
	ctaLabel   = "Book Your Session"
)

var esc = html.EscapeString

func heroSection(b *strings.Builder, s core.SessionData) {
	hero := s.Hero()
	if hero == "" {
		return
	}
	fmt.Fprintf(b, `<img class="hero-image" src="%s" alt="%s" width="600" style="display: block; width: 100%%; max-width: 600px; height: auto; border: 0;">`+"\n",
		esc(hero), esc(s.Title))
}

func titleSection(b *strings.Builder, s core.SessionData, t theme) {
	fmt.Fprintf(b, `<div class="title-banner" style="background-color: %s; background: linear-gradient(135deg, %s 0%%, %s 100%%); padding: 40px 24px; text-align: center;">`+"\n",
		t.primary, t.primary, t.secondary)
	fmt.Fprintf(b, `<h1 class="session-title" style="margin: 0; font-family: %s; font-size: %dpx; font-weight: 700; line-height: 1.2; color: %s;">%s</h1>`+"\n",
		t.headingStack, t.headingSize, t.headingColor, esc(s.Title))
	b.WriteString("</div>\n")
}

func descriptionSection(b *strings.Builder, s core.SessionData, t theme) {
	b.WriteString(`<div class="description">` + "\n")
	b.WriteString(formatDescription(s.Description, paragraphStyle(t.textStack, t.textSize, t.textColor)))
	b.WriteString("</div>\n")
}

// gallerySection shows the images after the hero, capped.
func gallerySection(b *strings.Builder, s core.SessionData) {
	if len(s.Images) < 2 {
		return
	}
	rest := s.Images[1:]
	if len(rest) > galleryCap {
		rest = rest[:galleryCap]
	}
	b.WriteString(`<div class="gallery" style="margin: 24px 0; font-size: 0; text-align: center;">` + "\n")
	for i, img := range rest {
		fmt.Fprintf(b, `<img class="gallery-image" src="%s" alt="%s photo %d" width="282" style="display: inline-block; width: 48%%; height: auto; margin: 0 1%% 8px 1%%; border-radius: 6px;">`+"\n",
			esc(img), esc(s.Title), i+2)
	}
	b.WriteString("</div>\n")
}

func detailsSection(b *strings.Builder, s core.SessionData, t theme) {
	fmt.Fprintf(b, `<div class="details" style="margin: 24px 0; padding: 20px 24px; background-color: #f8f9fa; border-left: 4px solid %s; border-radius: 6px;">`+"\n", t.primary)
	detail := func(icon, label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(b, `<p class="detail" style="margin: 0 0 8px 0; font-family: %s; font-size: %dpx; line-height: 1.5; color: %s;">%s <strong>%s:</strong> %s</p>`+"\n",
			t.textStack, t.textSize, t.textColor, icon, label, esc(value))
	}
	detail("📅", "Date", s.Date)
	detail("📍", "Location", s.Location)
	detail("💰", "Price", s.Price)
	b.WriteString("</div>\n")
}

// timeSlotsSection renders each slot as a chip linking to its booking URL.
func timeSlotsSection(b *strings.Builder, s core.SessionData, sourceURL string, t theme) {
	if len(s.TimeSlots) == 0 {
		return
	}
	b.WriteString(`<div class="time-slots" style="margin: 24px 0; text-align: center;">` + "\n")
	fmt.Fprintf(b, `<h2 style="margin: 0 0 12px 0; font-family: %s; font-size: %dpx; color: %s;">Available Times</h2>`+"\n",
		t.headingStack, max(18, t.headingSize-10), t.textColor)
	for _, slot := range s.TimeSlots {
		link := slot.BookingURL
		if link == "" {
			link = weburl.WithQuery(sourceURL, "time", slot.Time)
		}
		fmt.Fprintf(b, `<a class="time-slot" href="%s" style="display: inline-block; margin: 0 6px 8px 0; padding: 8px 16px; border: 2px solid %s; border-radius: 20px; font-family: %s; font-size: 14px; font-weight: 600; color: %s; text-decoration: none;">%s</a>`+"\n",
			esc(link), t.primary, t.textStack, t.primary, esc(slot.Time))
	}
	b.WriteString("</div>\n")
}

func ctaSection(b *strings.Builder, sourceURL string, t theme) {
	b.WriteString(`<div class="cta" style="margin: 32px 0 8px 0; text-align: center;">` + "\n")
	fmt.Fprintf(b, `<a class="cta-button" href="%s" style="display: inline-block; padding: 16px 40px; background-color: %s; background: linear-gradient(135deg, %s 0%%, %s 100%%); border-radius: 30px; font-family: %s; font-size: 18px; font-weight: 700; color: #ffffff; text-decoration: none;">%s</a>`+"\n",
		esc(sourceURL), t.primary, t.primary, t.secondary, t.textStack, ctaLabel)
	b.WriteString("</div>\n")
}
