package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	t.Run("renders gfm", func(t *testing.T) {
		html := RenderMarkdown("# Title\n\n**bold** and ~~gone~~")

		assert.Contains(t, html, "<h1")
		assert.Contains(t, html, "Title</h1>")
		assert.Contains(t, html, "<strong>bold</strong>")
		assert.Contains(t, html, "<del>gone</del>")
	})

	t.Run("strips scripts", func(t *testing.T) {
		html := RenderMarkdown("hello <script>alert(1)</script>")

		assert.Contains(t, html, "hello")
		assert.NotContains(t, html, "<script>")
	})

	t.Run("external links open safely", func(t *testing.T) {
		html := RenderMarkdown("[site](https://example.com)")

		assert.Contains(t, html, `href="https://example.com"`)
		assert.Contains(t, html, `target="_blank"`)
		assert.Contains(t, html, "noreferrer")
	})
}
