// Package weburl provides helpers to resolve, match, and normalize URLs
// found on scraped booking pages.
package weburl

import (
	"net/url"
	"path"
	"strings"
)

// imageExtensions are file extensions treated as image assets.
var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".svg": true, ".webp": true, ".avif": true, ".bmp": true,
}

// MatchesDomain reports whether rawURL is an absolute http(s) URL whose host
// contains domain. An empty domain matches any absolute http(s) URL.
func MatchesDomain(rawURL string, domain string) bool {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	if parsed.Host == "" {
		return false
	}
	return strings.Contains(strings.ToLower(parsed.Host), strings.ToLower(domain))
}

// IsImageAsset checks if a URL path ends in a known image extension.
func IsImageAsset(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	ext := strings.ToLower(path.Ext(parsed.Path))
	return imageExtensions[ext]
}

// Normalize strips fragments and trailing slashes for deduplication.
func Normalize(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	parsed.Fragment = ""

	// Keep root "/".
	if parsed.Path != "/" {
		parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	}

	return parsed.String()
}

// Resolve resolves a potentially relative href against base. It handles
// root-relative ("/x"), protocol-relative ("//host/x") and bare relative
// paths. Non-navigable schemes and empty values resolve to "".
func Resolve(href string, base *url.URL) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "tel:") || strings.HasPrefix(lower, "data:") ||
		strings.HasPrefix(href, "#") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		if !parsed.IsAbs() {
			return ""
		}
		return parsed.String()
	}

	resolved := base.ResolveReference(parsed)
	resolved.Fragment = ""
	return resolved.String()
}

// WithQuery appends key=value to rawURL, choosing "?" or "&" as needed. The
// value is encoded the way browsers' encodeURIComponent does (space → %20).
func WithQuery(rawURL, key, value string) string {
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + key + "=" + EncodeComponent(value)
}

// EncodeComponent percent-encodes s for use as a query value.
func EncodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
