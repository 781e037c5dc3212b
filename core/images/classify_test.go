package images

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sourceURL = "https://app.usesession.com/sessions/fall-minis"

func classifyHTML(t *testing.T, html string) []string {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	c, err := NewClassifier(DefaultRules())
	require.NoError(t, err)
	return c.Classify(Collect(doc, sourceURL, DefaultRules().ContextDepth))
}

func TestClassify_LogoExcludedEvenWhenFirst(t *testing.T) {
	html := `<html><body>
		<img src="/assets/logo-sm.png">
		<img src="/photos/field-golden-hour.jpg">
	</body></html>`

	got := classifyHTML(t, html)
	assert.Equal(t, []string{"https://app.usesession.com/photos/field-golden-hour.jpg"}, got)
}

func TestClassify_MetaFirstAndDeduplicated(t *testing.T) {
	html := `<html><head>
		<meta property="og:image" content="https://cdn.example.com/hero.jpg">
		<meta name="twitter:image" content="https://cdn.example.com/hero.jpg">
	</head><body>
		<img src="https://cdn.example.com/a.jpg">
		<img src="https://cdn.example.com/hero.jpg">
		<img data-src="//cdn.example.com/b.jpg" src="data:image/gif;base64,R0lGOD">
		<div style="background-image: url('/bg/c.jpg')"></div>
	</body></html>`

	got := classifyHTML(t, html)
	assert.Equal(t, []string{
		"https://cdn.example.com/hero.jpg",
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/b.jpg",
		"https://app.usesession.com/bg/c.jpg",
	}, got)
}

func TestClassify_ExclusionRules(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"keyword in url", `<img src="/uploads/brand-mark.jpg">`},
		{"small suffix", `<img src="/uploads/family-thumb.jpg">`},
		{"small dimensions", `<img src="/uploads/photo-150x150.jpg">`},
		{"avatar cdn path", `<img src="https://cdn.example.com/avatars/u123.jpg">`},
		{"profile photos path", `<img src="https://cdn.example.com/profile_photos/u123.jpg">`},
		{"svg icon", `<img src="/img/calendar.svg">`},
		{"logo class on parent", `<div class="site-logo"><img src="/img/a.jpg"></div>`},
		{"footer", `<footer><img src="/img/b.jpg"></footer>`},
		{"logo alt", `<img src="/img/c.jpg" alt="Company Logo">`},
		{"business name alt", `<img src="/img/d.jpg" alt="Jane Doe Photography">`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyHTML(t, "<html><body>"+tt.html+"</body></html>")
			assert.Empty(t, got)
		})
	}
}

func TestClassify_KeepsLargeDimensions(t *testing.T) {
	got := classifyHTML(t, `<html><body><img src="/uploads/photo-1200x800.jpg" alt="Family in a pumpkin patch"></body></html>`)
	assert.Equal(t, []string{"https://app.usesession.com/uploads/photo-1200x800.jpg"}, got)
}

func TestWithFallback(t *testing.T) {
	c, err := NewClassifier(DefaultRules())
	require.NoError(t, err)

	stock := c.WithFallback(nil)
	assert.Len(t, stock, 2)

	imgs := []string{"https://a/x.jpg"}
	assert.Equal(t, imgs, c.WithFallback(imgs))
}

func TestPromoteHero(t *testing.T) {
	imgs := []string{"a", "b", "c", "d"}

	tests := []struct {
		name     string
		override string
		want     []string
	}{
		{"present", "c", []string{"c", "a", "b", "d"}},
		{"already first", "a", []string{"a", "b", "c", "d"}},
		{"absent ignored", "zzz", []string{"a", "b", "c", "d"}},
		{"empty ignored", "", []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PromoteHero(imgs, tt.override))
		})
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, imgs, "input must not be modified")
}

func TestNewClassifier_InvalidPattern(t *testing.T) {
	rules := DefaultRules()
	rules.AvatarPatterns = []string{"("}
	_, err := NewClassifier(rules)
	assert.Error(t, err)
}
