package pipeline

import "github.com/sirwalterjones/sessionmailer2-sub000/core"

// Request is the body accepted by the extraction entry point. Branding
// fields sit at the top level next to the URLs.
type Request struct {
	URLs []string `json:"urls"`
	URL  string   `json:"url,omitempty"`
	core.BrandingOptions
}

// AllURLs returns URLs, or the single URL when the list is empty.
func (r Request) AllURLs() []string {
	if len(r.URLs) > 0 {
		return r.URLs
	}
	if r.URL != "" {
		return []string{r.URL}
	}
	return nil
}

// Response is what the caller gets back. Sessions always has one entry per
// requested URL; per-URL failures live in Sessions[i].Error.
type Response struct {
	Success   bool               `json:"success"`
	Sessions  []core.SessionData `json:"sessions"`
	EmailHTML string             `json:"emailHtml"`
	RawHTML   string             `json:"rawHtml"`
	EmailText string             `json:"emailText,omitempty"`
	Error     string             `json:"error,omitempty"`
}
