package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirwalterjones/sessionmailer2-sub000/core"
)

func sessions() []core.SessionData {
	s := core.SessionData{
		URL:         "https://app.usesession.com/s/fall",
		Title:       "Fall Minis – Maple Farm",
		Description: "Golden fields.\n\nTen edited images.",
		Price:       "$150",
		Date:        "Monday, June 5, 2024",
		Location:    "123 Main St, Springfield, IL 62701",
		TimeSlots:   []core.TimeSlot{{Time: "9:00 AM", BookingURL: "https://app.usesession.com/book/1"}},
		Images:      []string{"https://cdn/hero.jpg", "https://cdn/1.jpg"},
	}
	s.SyncFirstImage()
	failed := core.SessionData{URL: "https://app.usesession.com/s/x", Title: "Photography Session", Description: "x", Error: "timed out"}
	return []core.SessionData{s, failed}
}

func TestRenderers_Extensions(t *testing.T) {
	assert.Equal(t, ".html", NewHTMLRenderer().Extension())
	assert.Equal(t, ".txt", NewTextRenderer(nil).Extension())
	assert.Equal(t, ".json", NewJSONRenderer().Extension())
	assert.Equal(t, ".pdf", NewPDFRenderer().Extension())
}

func TestHTMLRenderer(t *testing.T) {
	out, err := NewHTMLRenderer().Render("<html></html>", nil)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(out))
}

type fakeNormalizer struct {
	out string
	err error
}

func (f fakeNormalizer) Normalize(string) (string, error) { return f.out, f.err }

func TestTextRenderer(t *testing.T) {
	out, err := NewTextRenderer(fakeNormalizer{out: "# Fall Minis\n"}).Render("<h1>Fall Minis</h1>", nil)
	require.NoError(t, err)
	assert.Equal(t, "# Fall Minis\n", string(out))

	_, err = NewTextRenderer(fakeNormalizer{err: errors.New("boom")}).Render("", nil)
	assert.Error(t, err)
}

func TestJSONRenderer(t *testing.T) {
	out, err := NewJSONRenderer().Render("<html></html>", sessions())
	require.NoError(t, err)

	var got struct {
		Sessions []map[string]any `json:"sessions"`
		Email    string           `json:"emailHtml"`
	}
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "<html></html>", got.Email)
	require.Len(t, got.Sessions, 2)
	assert.Equal(t, "https://cdn/hero.jpg", got.Sessions[0]["firstImage"])
	assert.NotContains(t, got.Sessions[0], "error")
	assert.Equal(t, "timed out", got.Sessions[1]["error"])
	assert.Nil(t, got.Sessions[1]["firstImage"])

	empty, err := NewJSONRenderer().Render("", nil)
	require.NoError(t, err)
	assert.Contains(t, string(empty), `"sessions": []`)
}

func TestPDFRenderer(t *testing.T) {
	out, err := NewPDFRenderer().Render("", sessions())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 500)
}
