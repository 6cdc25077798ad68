package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Markdown renders Markdown bodies into HTML fragments. It is stateless and
// safe for reuse across posts.
type Markdown struct {
	engine goldmark.Markdown
}

// NewMarkdown creates a renderer with GFM extensions and auto heading IDs
func NewMarkdown() *Markdown {
	return &Markdown{
		engine: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Render converts a Markdown body to an HTML fragment
func (m *Markdown) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := m.engine.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
