package util

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	htmlPolicy = bluemonday.UGCPolicy()
)

func init() {
	htmlPolicy.AllowImages()
	htmlPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	htmlPolicy.RequireNoReferrerOnLinks(true)
}

// RenderMarkdown converts post markdown to HTML that is safe to embed.
func RenderMarkdown(source string) string {
	var buf bytes.Buffer
	err := markdownParser.Convert([]byte(source), &buf)
	if err != nil {
		return htmlPolicy.Sanitize(source)
	}

	return string(htmlPolicy.SanitizeBytes(buf.Bytes()))
}
