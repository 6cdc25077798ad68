package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/gaurv/sitegen/pkg/domain"
)

// Generator creates the RSS 2.0 document for the aggregated feed
type Generator struct {
	baseURL     string
	title       string
	description string
	feedFile    string
}

// NewGenerator creates a feed generator with the site's channel identity.
// feedFile is the feed's path relative to the site root, used for the self
// link, empty defaults to rss.xml.
func NewGenerator(baseURL, title, description, feedFile string) *Generator {
	if feedFile == "" {
		feedFile = "rss.xml"
	}
	return &Generator{
		baseURL:     strings.TrimRight(baseURL, "/"),
		title:       title,
		description: description,
		feedFile:    feedFile,
	}
}

// Generate emits the RSS document for the given items, truncated to maxItems.
// Items must already be sorted newest first, truncation happens only here so
// the merged set stays complete for this run.
func (g *Generator) Generate(items []domain.FeedItem, maxItems int) (string, error) {
	if maxItems > 0 && len(items) > maxItems {
		items = items[:maxItems]
	}

	rssItems := make([]*RSSItem, 0, len(items))
	for _, item := range items {
		rssItems = append(rssItems, &RSSItem{
			Title:       item.Title,
			Link:        item.Link,
			Description: item.Description,
			// canonical zone, a parsed-back pubDate may carry any offset
			// for the same instant and must re-emit identically
			PubDate:  item.PubDate.In(domain.IST).Format(time.RFC1123Z),
			Category: item.Category,
		})
	}

	doc := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:       g.title,
			Link:        g.baseURL + "/",
			Description: g.description,
			AtomLink:    &AtomLink{Href: g.baseURL + "/" + g.feedFile, Rel: "self", Type: "application/rss+xml"},
			Items:       rssItems,
		},
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}

	return xml.Header + string(output) + "\n", nil
}
