// Package output handles file naming and writing for composed emails.
// A single session is named after its URL (e.g. app_usesession_com_s_fall.html);
// a multi-session email is named after the first URL plus a count suffix.
package output

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Write stores data under a name derived from the session URLs and returns
// the file path.
func (w *Writer) Write(urls []string, data []byte, ext string) (string, error) {
	path := filepath.Join(w.OutputDir, Filename(urls)+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// Filename derives a flat base name for a set of session URLs.
func Filename(urls []string) string {
	switch len(urls) {
	case 0:
		return "email"
	case 1:
		return filenameFromURL(urls[0])
	default:
		return fmt.Sprintf("%s_and_%d_more", filenameFromURL(urls[0]), len(urls)-1)
	}
}

// filenameFromURL converts a URL into a flat filename.
// Example: https://app.usesession.com/s/fall → app_usesession_com_s_fall
func filenameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return sanitize(rawURL)
	}

	parts := []string{sanitize(parsed.Host)}
	path := strings.Trim(parsed.Path, "/")
	if path != "" {
		for _, seg := range strings.Split(path, "/") {
			parts = append(parts, sanitize(seg))
		}
	}
	return strings.Join(parts, "_")
}

// sanitize replaces non-alphanumeric characters with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
