package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirwalterjones/sessionmailer2-sub000/core/render"
)

func TestParseHeroes(t *testing.T) {
	got, err := parseHeroes([]string{
		"https://app.usesession.com/s/a=https://cdn.example.com/hero.jpg?w=1200",
		"https://app.usesession.com/s/b?ref=x=https://cdn.example.com/b.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"https://app.usesession.com/s/a":       "https://cdn.example.com/hero.jpg?w=1200",
		"https://app.usesession.com/s/b?ref=x": "https://cdn.example.com/b.jpg",
	}, got)

	none, err := parseHeroes(nil)
	require.NoError(t, err)
	assert.Nil(t, none)

	for _, bad := range []string{"no-separator", "=https://cdn/x.jpg", "https://app.usesession.com/s/a="} {
		_, err := parseHeroes([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestComposeFlags_Renderer(t *testing.T) {
	_, err := (&composeFlags{}).renderer()
	assert.ErrorContains(t, err, "exactly one output format")

	_, err = (&composeFlags{html: true, pdf: true}).renderer()
	assert.ErrorContains(t, err, "only one output format")

	r, err := (&composeFlags{pdf: true}).renderer()
	require.NoError(t, err)
	assert.IsType(t, &render.PDFRenderer{}, r)

	r, err = (&composeFlags{text: true}).renderer()
	require.NoError(t, err)
	assert.Equal(t, ".txt", r.Extension())
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"compose", "serve"} {
		c, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, c.Name())
	}
}
