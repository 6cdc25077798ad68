package render

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// Summarize produces a plain-text summary from an HTML fragment: all markup
// stripped, whitespace collapsed, truncated to limit runes. Used for feed
// descriptions and meta descriptions.
func Summarize(fragment string, limit int) string {
	text := stripPolicy.Sanitize(fragment)
	text = html.UnescapeString(text)
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if limit > 0 && len(runes) > limit {
		text = strings.TrimSpace(string(runes[:limit]))
	}
	return text
}
