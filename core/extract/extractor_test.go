package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirwalterjones/sessionmailer2-sub000/core"
)

const pageURL = "https://app.usesession.com/sessions/fall-minis"

const bookingPage = `<!DOCTYPE html>
<html>
<head>
  <title>Fall Mini Sessions | Jane Doe Photography</title>
  <meta property="og:image" content="https://cdn.usesession.com/uploads/pumpkin-patch.jpg">
  <script>gtag('config', 'G-XYZ');</script>
</head>
<body>
  <header class="site-header"><img src="/assets/logo-sm.png" alt="Jane Doe Photography"></header>
  <main>
    <h1>Fall Mini Sessions</h1>
    <div class="session-description">
      <p>Celebrate the season with a relaxed twenty minute session in the golden fields at Maple Farm.</p>
      <p>Each family receives ten edited images delivered in a private online gallery within two weeks.</p>
    </div>
    <div class="session-details">
      <div class="price-wrap"><span class="price">$150 + Tax</span></div>
      <div class="session-date">Monday, June 5, 2024</div>
      <div class="session-date">Tuesday, June 6, 2024</div>
      <div class="session-location">Location: Maple Farm, 123 Main St, Springfield, IL 62701</div>
    </div>
    <div class="time-slots">
      <a class="slot" href="/book/fall-minis?slot=1">9:00 AM</a>
      <button class="slot" data-url="https://app.usesession.com/book/fall-minis?slot=2">9:30 am</button>
      <button class="slot" onclick="window.location='/book/fall-minis?slot=3'">10:00 AM</button>
      <button class="slot">10:30 AM</button>
      <a href="/book/fall-minis?slot=1"><span class="slot-label">9:00 AM</span></a>
    </div>
    <img src="/uploads/family-1200x800.jpg" alt="Family walking in a field">
    <img src="/uploads/family-1200x800.jpg">
  </main>
  <footer><img src="/uploads/badge.png"></footer>
</body>
</html>`

func newExtractor(t *testing.T) *HTMLExtractor {
	t.Helper()
	e, err := New(DefaultRules())
	require.NoError(t, err)
	return e
}

func page(t *testing.T, html string) *Page {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return newPage(doc, html, pageURL)
}

func TestExtract_BookingPage(t *testing.T) {
	s := newExtractor(t).Extract(bookingPage, pageURL)

	assert.Equal(t, pageURL, s.URL)
	assert.Equal(t, "Fall Mini Sessions", s.Title)
	assert.Equal(t, "$150 + Tax", s.Price)
	assert.Equal(t, "Monday, June 5, 2024, Tuesday, June 6, 2024", s.Date)
	assert.Equal(t, "Maple Farm, 123 Main St, Springfield, IL 62701", s.Location)
	assert.Empty(t, s.Error)

	assert.Contains(t, s.Description, "golden fields at Maple Farm.")
	assert.Contains(t, s.Description, "\n\nEach family receives")

	assert.Equal(t, []core.TimeSlot{
		{Time: "9:00 AM", BookingURL: "https://app.usesession.com/book/fall-minis?slot=1"},
		{Time: "9:30 AM", BookingURL: "https://app.usesession.com/book/fall-minis?slot=2"},
		{Time: "10:00 AM", BookingURL: "https://app.usesession.com/book/fall-minis?slot=3"},
		{Time: "10:30 AM", BookingURL: pageURL + "?time=10%3A30%20AM"},
	}, s.TimeSlots)

	assert.Equal(t, []string{
		"https://cdn.usesession.com/uploads/pumpkin-patch.jpg",
		"https://app.usesession.com/uploads/family-1200x800.jpg",
	}, s.Images)
	require.NotNil(t, s.FirstImage)
	assert.Equal(t, s.Images[0], *s.FirstImage)
}

func TestExtract_FallbackInvariant(t *testing.T) {
	inputs := map[string]string{
		"empty":        "",
		"no body text": "<html><head></head><body></body></html>",
		"garbage":      "<<<>>>not html at all",
		"script only":  "<html><body><script>var x = 1;</script></body></html>",
	}
	e := newExtractor(t)

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			s := e.Extract(in, pageURL)
			assert.Equal(t, "Photography Session", s.Title)
			assert.NotEmpty(t, s.Description)
			assert.Len(t, s.Images, 2)
			assert.Equal(t, "Contact for pricing", s.Price)
			assert.Equal(t, "Contact for available dates", s.Date)
			assert.Equal(t, "Location details available upon booking", s.Location)
			assert.NotNil(t, s.TimeSlots)
			assert.NotNil(t, s.FirstImage)
		})
	}
}

func TestTitle(t *testing.T) {
	e := newExtractor(t)
	tests := []struct {
		name string
		html string
		want string
	}{
		{"h1", `<title>Other</title><h1> Spring  Portraits </h1>`, "Spring Portraits"},
		{"document title", `<title>Beach Minis | Studio</title><p>x</p>`, "Beach Minis"},
		{"class hint", `<div class="session-title">Holiday Minis</div>`, "Holiday Minis"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.title()(page(t, tt.html))
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := e.title()(page(t, `<p>nothing here</p>`))
	assert.False(t, ok)
}

func TestPrice_LeafTextOnly(t *testing.T) {
	e := newExtractor(t)

	got, ok := e.price()(page(t, `<div>Sessions from <b>$1,250.00</b> per family</div><p>Deposit $50</p>`))
	require.True(t, ok)
	assert.Equal(t, "$1,250.00", got)

	_, ok = e.price()(page(t, `<script>var p = "$99";</script><p>Free</p>`))
	assert.False(t, ok)
}

func TestDates(t *testing.T) {
	e := newExtractor(t)
	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			"weekday dates in body",
			`<p>Join us Monday, June 5, 2024 or Tuesday, June 6, 2024. See you Monday, June 5, 2024!</p>`,
			[]string{"Monday, June 5, 2024", "Tuesday, June 6, 2024"},
		},
		{
			"numeric formats",
			`<p>Either 10/12/2024 or 2024-10-13.</p>`,
			[]string{"10/12/2024", "2024-10-13"},
		},
		{
			"hinted element wins over body",
			`<p>Booked out until March 1, 2025.</p><time>October 12, 2024</time>`,
			[]string{"October 12, 2024"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.dates()(page(t, tt.html))
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocation(t *testing.T) {
	e := newExtractor(t)
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"address in body text",
			`<p>We meet at 123 Main St, Springfield, IL 62701 near the old barn.</p>`,
			"123 Main St, Springfield, IL 62701",
		},
		{
			"venue hint with label",
			`<div class="venue">Venue: Riverside Park</div>`,
			"Riverside Park",
		},
		{
			"hint in footer ignored",
			`<footer><div class="address">1 Studio Way</div></footer><p>Meet at 42 Oak Avenue, Portland, OR 97201.</p>`,
			"42 Oak Avenue, Portland, OR 97201",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.location()(page(t, tt.html))
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocation_AddressNotStitchedAcrossBlocks(t *testing.T) {
	e := newExtractor(t)
	_, ok := e.location()(page(t, `<div>Suite 12</div><div>Oak Street, Springfield, IL 62701</div>`))
	assert.False(t, ok)
}

func TestTimeSlots_DedupAndUpgrade(t *testing.T) {
	e := newExtractor(t)
	html := `<div class="times">
		<div class="time">2:00 PM</div>
		<a href="https://app.usesession.com/book?t=2pm"><span>2:00 pm</span></a>
		<div class="time">2:00 PM</div>
	</div>`

	got, ok := e.timeSlots()(page(t, html))
	require.True(t, ok)
	assert.Equal(t, []core.TimeSlot{
		{Time: "2:00 PM", BookingURL: "https://app.usesession.com/book?t=2pm"},
	}, got)
}

func TestTimeSlots_TextFallbackCapped(t *testing.T) {
	e := newExtractor(t)
	var b strings.Builder
	b.WriteString("<p>Times: ")
	for h := 1; h <= 12; h++ {
		fmt.Fprintf(&b, "%d:00 PM, ", h)
	}
	b.WriteString("</p>")

	got, ok := e.timeSlots()(page(t, b.String()))
	require.True(t, ok)
	assert.Len(t, got, DefaultRules().MaxFallbackSlots)
	for _, s := range got {
		assert.True(t, strings.HasPrefix(s.BookingURL, pageURL+"?time="))
	}
}

func TestDescription_LargestBlockSkipsBookingWidgets(t *testing.T) {
	e := newExtractor(t)
	html := `<nav><p>` + strings.Repeat("navigation words here ", 20) + `</p></nav>
	<section><p>Book now and select time for your session. Book now and select time for your session. Lots of words here.</p></section>
	<section><p>Our newborn sessions take place in a warm studio with every prop provided, and parents are welcome to join a few frames at the end.</p></section>`

	got, ok := e.largestBlock(page(t, html))
	require.True(t, ok)
	assert.Contains(t, got, "newborn sessions")
}

func TestDescription_HintedContainerSkipsChrome(t *testing.T) {
	e := newExtractor(t)
	tests := []struct {
		name    string
		html    string
		want    string
		missing []string
	}{
		{
			"body class is not a description container",
			`<html><body class="page-body">
			<nav>Home About Contact Portfolio Pricing Blog Testimonials Frequently Asked Questions Gift Cards</nav>
			<h1>Minis</h1><p>Short.</p>
			<footer>Copyright 2024 Jane Doe Photography. All rights reserved. Privacy policy and terms of service.</footer>
			</body></html>`,
			"",
			[]string{"Home About", "Copyright"},
		},
		{
			"heading and booking button inside content wrapper",
			`<div class="main-content">
			<h1>Spring Minis</h1>
			<p>Join us for spring minis among the cherry blossoms, with twenty minutes of relaxed posing and a gallery of edited images.</p>
			<button>Book Now</button>
			</div>`,
			"Join us for spring minis among the cherry blossoms, with twenty minutes of relaxed posing and a gallery of edited images.",
			[]string{"Spring Minis", "Book Now"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.hintedDescription(page(t, tt.html))
			assert.Equal(t, tt.want != "", ok)
			if tt.want != "" {
				assert.Equal(t, tt.want, got)
			}

			full := e.Extract(tt.html, pageURL).Description
			for _, m := range tt.missing {
				assert.NotContains(t, full, m)
			}
		})
	}
}

func TestCleanDescription_LeakedValueWholeTokenOnly(t *testing.T) {
	e := newExtractor(t)
	raw := "Mini sessions cost $150. The family package is $1500 and covers two hours with every edited image included."

	got := e.cleanDescription(raw, []string{"$150"})
	assert.Contains(t, got, "family package is $1500 and covers")
	assert.Contains(t, got, "Mini sessions cost. The family")
}

func TestCleanDescription(t *testing.T) {
	e := newExtractor(t)
	raw := "Golden hour family portraits by the lake , with a short walk to the dock.Bring your dog!\n" +
		"gtag('event', 'view');\n" +
		"Only $150 on Monday, June 5, 2024 at 9:00 AM for the whole family to enjoy together."

	got := e.cleanDescription(raw, []string{"$150", "Monday, June 5, 2024"})
	assert.NotContains(t, got, "gtag")
	assert.NotContains(t, got, "$150")
	assert.NotContains(t, got, "June 5")
	assert.NotContains(t, got, "9:00")
	assert.Contains(t, got, "by the lake, with a short walk to the dock. Bring your dog!")
}

func TestDescription_Implausible(t *testing.T) {
	e := newExtractor(t)
	assert.False(t, e.plausible("function() { return 1; } and more words to pass the count"))
	assert.False(t, e.plausible("Too short."))
	assert.True(t, e.plausible("A calm session in the park with plenty of time for play."))
}

func TestNew_InvalidRules(t *testing.T) {
	rules := DefaultRules()
	rules.TimePattern = "("
	_, err := New(rules)
	assert.Error(t, err)

	rules = DefaultRules()
	rules.SlotSelectors = []string{"[[["}
	_, err = New(rules)
	assert.Error(t, err)
}

func TestLoadRules_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
booking_phrases: ["reserve"]
max_fallback_slots: 3
images:
  min_dimension: 500
`), 0o600))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"reserve"}, rules.BookingPhrases)
	assert.Equal(t, 3, rules.MaxFallbackSlots)
	assert.Equal(t, 500, rules.Images.MinDimension)
	assert.Equal(t, DefaultRules().TimePattern, rules.TimePattern)
	assert.Equal(t, DefaultRules().Images.StockImages, rules.Images.StockImages)
}

func TestFirstOf(t *testing.T) {
	none := Strategy[int](func(*Page) (int, bool) { return 0, false })
	seven := Strategy[int](func(*Page) (int, bool) { return 7, true })
	nine := Strategy[int](func(*Page) (int, bool) { return 9, true })

	v, ok := FirstOf(none, seven, nine)(nil)
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	_, ok = FirstOf(none)(nil)
	assert.False(t, ok)
}
