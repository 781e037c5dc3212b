// Package render provides output renderers for composed emails.
// This file implements the HTML renderer, a passthrough of the composed
// document, which is already the canonical output.
package render

import (
	"github.com/sirwalterjones/sessionmailer2-sub000/core"
)

// HTMLRenderer writes the email document as-is.
type HTMLRenderer struct{}

// NewHTMLRenderer creates an HTMLRenderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// Render returns the email HTML as bytes.
func (r *HTMLRenderer) Render(emailHTML string, _ []core.SessionData) ([]byte, error) {
	return []byte(emailHTML), nil
}

// Extension returns the file extension for HTML output.
func (r *HTMLRenderer) Extension() string {
	return ".html"
}
