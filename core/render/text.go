package render

import (
	"github.com/sirwalterjones/sessionmailer2-sub000/core"
)

// TextRenderer writes the plain-text alternative of the email.
type TextRenderer struct {
	normalizer core.Normalizer
}

// NewTextRenderer creates a TextRenderer using n for the conversion.
func NewTextRenderer(n core.Normalizer) *TextRenderer {
	return &TextRenderer{normalizer: n}
}

// Render converts emailHTML to plain text. The sessions are unused.
func (r *TextRenderer) Render(emailHTML string, _ []core.SessionData) ([]byte, error) {
	text, err := r.normalizer.Normalize(emailHTML)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// Extension returns ".txt".
func (r *TextRenderer) Extension() string {
	return ".txt"
}
