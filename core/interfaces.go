// Package core defines the pipeline types and stage interfaces for SessionMailer.
// Each stage of the pipeline (fetch, extract, compose, render) is a small,
// testable interface or pure function operating on these types.
package core

import (
	"context"
	"errors"
)

// ErrValidation marks request-level failures (malformed or foreign URLs).
// These abort the whole request; per-URL failures never use it.
var ErrValidation = errors.New("validation failed")

// FetchResult holds the rendered HTML and response metadata from a fetch.
type FetchResult struct {
	URL         string
	FinalURL    string // URL after redirects or client-side navigation
	StatusCode  int
	HTML        string
	UsedBrowser bool
}

// TimeSlot is a bookable time of day with an optional deep link.
type TimeSlot struct {
	Time       string `json:"time"`
	BookingURL string `json:"bookingUrl,omitempty"`
}

// SessionData is the normalized record extracted from one booking page.
// Title, Description and Images are never empty once produced by the extractor.
type SessionData struct {
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       string     `json:"price"`
	Date        string     `json:"date"`
	Location    string     `json:"location"`
	TimeSlots   []TimeSlot `json:"timeSlots"`
	Images      []string   `json:"images"`
	FirstImage  *string    `json:"firstImage"`
	Error       string     `json:"error,omitempty"`
}

// Hero returns the effective hero image, or "" when there is none.
func (s SessionData) Hero() string {
	if len(s.Images) == 0 {
		return ""
	}
	return s.Images[0]
}

// SyncFirstImage sets FirstImage from the current image order.
func (s *SessionData) SyncFirstImage() {
	if len(s.Images) == 0 {
		s.FirstImage = nil
		return
	}
	first := s.Images[0]
	s.FirstImage = &first
}

// BrandingOptions carries the user's customization for one request.
// Zero values mean "use the default"; see WithDefaults.
type BrandingOptions struct {
	PrimaryColor       string `json:"primaryColor,omitempty"`
	SecondaryColor     string `json:"secondaryColor,omitempty"`
	HeadingTextColor   string `json:"headingTextColor,omitempty"`
	ParagraphTextColor string `json:"paragraphTextColor,omitempty"`
	HeadingFont        string `json:"headingFont,omitempty"`
	ParagraphFont      string `json:"paragraphFont,omitempty"`
	HeadingFontSize    int    `json:"headingFontSize,omitempty"`
	ParagraphFontSize  int    `json:"paragraphFontSize,omitempty"`

	// SessionHeroImages maps a session URL to the image the user picked as hero.
	SessionHeroImages map[string]string `json:"sessionHeroImages,omitempty"`
}

// DefaultBranding returns the stock look used when the caller supplies nothing.
func DefaultBranding() BrandingOptions {
	return BrandingOptions{
		PrimaryColor:       "#667eea",
		SecondaryColor:     "#764ba2",
		HeadingTextColor:   "#ffffff",
		ParagraphTextColor: "#333333",
		HeadingFont:        "Playfair Display",
		ParagraphFont:      "Open Sans",
		HeadingFontSize:    32,
		ParagraphFontSize:  16,
	}
}

// WithDefaults returns a copy where every unset field holds its default.
func (b BrandingOptions) WithDefaults() BrandingOptions {
	d := DefaultBranding()
	if b.PrimaryColor == "" {
		b.PrimaryColor = d.PrimaryColor
	}
	if b.SecondaryColor == "" {
		b.SecondaryColor = d.SecondaryColor
	}
	if b.HeadingTextColor == "" {
		b.HeadingTextColor = d.HeadingTextColor
	}
	if b.ParagraphTextColor == "" {
		b.ParagraphTextColor = d.ParagraphTextColor
	}
	if b.HeadingFont == "" {
		b.HeadingFont = d.HeadingFont
	}
	if b.ParagraphFont == "" {
		b.ParagraphFont = d.ParagraphFont
	}
	if b.HeadingFontSize <= 0 {
		b.HeadingFontSize = d.HeadingFontSize
	}
	if b.ParagraphFontSize <= 0 {
		b.ParagraphFontSize = d.ParagraphFontSize
	}
	return b
}

// HeroOverride returns the user's hero choice for a session URL, if any.
func (b BrandingOptions) HeroOverride(sessionURL string) (string, bool) {
	img, ok := b.SessionHeroImages[sessionURL]
	return img, ok && img != ""
}

// Fetcher retrieves the rendered HTML of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Extractor turns rendered HTML into a SessionData. It never fails:
// anything it cannot find is replaced by a documented fallback.
type Extractor interface {
	Extract(html string, sourceURL string) SessionData
}

// Normalizer converts a composed email document into its plain-text
// alternative.
type Normalizer interface {
	Normalize(emailHTML string) (string, error)
}

// Renderer converts a composed result into a final output format.
type Renderer interface {
	Render(emailHTML string, sessions []SessionData) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".html", ".pdf").
	Extension() string
}
