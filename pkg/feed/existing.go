package feed

import (
	"log"
	"os"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/gaurv/sitegen/pkg/domain"
)

// LoadExisting parses the previously generated feed file into items in
// document order. The file is authoritative for pubDate and displayed text of
// every item it contains. A missing or unparseable file yields an empty set,
// the feed is then rebuilt from scratch, never a fatal error.
func LoadExisting(path string) []domain.FeedItem {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[WARN] can't read existing feed %s: %v", path, err)
		}
		return nil
	}

	parsed, err := gofeed.NewParser().ParseString(string(data))
	if err != nil {
		log.Printf("[WARN] existing feed %s unparseable, rebuilding: %v", path, err)
		return nil
	}

	items := make([]domain.FeedItem, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link == "" {
			continue // link is the identity key, an item without one can't be tracked
		}

		var pubDate time.Time
		if item.PublishedParsed != nil {
			pubDate = *item.PublishedParsed
		}

		var category string
		if len(item.Categories) > 0 {
			category = item.Categories[0]
		}

		items = append(items, domain.FeedItem{
			Title:       item.Title,
			Link:        item.Link,
			Description: item.Description,
			PubDate:     pubDate,
			Category:    category,
		})
	}

	return items
}
