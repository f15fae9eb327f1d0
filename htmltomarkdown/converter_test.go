package htmltomarkdown_test

import (
	"testing"

	"github.com/alqudimi/deepdoc/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts headings and paragraphs", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><h1>Dashboard</h1><p>Shows <strong>live</strong> metrics.</p></body></html>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "# Dashboard")
		assert.Contains(t, md, "**live**")
		assert.True(t, md[len(md)-1] == '\n', "output ends with a newline")
	})

	t.Run("converts links and lists", func(t *testing.T) {
		t.Parallel()

		html := `<ul><li><a href="/docs">Docs</a></li><li>Second</li></ul>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "[Docs](/docs)")
		assert.Contains(t, md, "Second")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		html := `<table><thead><tr><th>Key</th><th>Value</th></tr></thead><tbody><tr><td>port</td><td>8080</td></tr></tbody></table>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "Key")
		assert.Contains(t, md, "8080")
		assert.Contains(t, md, "|")
		assert.Contains(t, md, "---")
	})

	t.Run("returns empty output for blank input", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert("  \n\t")

		require.NoError(t, err)
		assert.Empty(t, md)
	})
}

func TestIsHTML(t *testing.T) {
	t.Parallel()

	assert.True(t, htmltomarkdown.IsHTML("web/index.html"))
	assert.True(t, htmltomarkdown.IsHTML("LEGACY.HTM"))
	assert.False(t, htmltomarkdown.IsHTML("main.go"))
	assert.False(t, htmltomarkdown.IsHTML("template.html.tmpl"))
}
