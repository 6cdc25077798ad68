package domain

import "time"

// FeedItem represents one entry of the aggregated RSS feed.
// Link is the identity key across generator runs: once an item has been
// published with a given pubDate it keeps that pubDate forever.
type FeedItem struct {
	Title       string
	Link        string
	Description string
	PubDate     time.Time
	Category    string
}
