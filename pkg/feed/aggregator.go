package feed

import (
	"sort"
	"time"

	"github.com/gaurv/sitegen/pkg/domain"
)

// Aggregator merges freshly computed candidate items with the previously
// written feed file. The previous output is the only cross-run state: items
// it already contains keep their stored title, description, pubDate and
// category verbatim, so content edits never flip read/unread state in
// subscribers' readers.
type Aggregator struct {
	path string
	now  func() time.Time
}

// NewAggregator creates an aggregator reading previous output from path
func NewAggregator(path string, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{path: path, now: now}
}

// Merge reconciles candidates against the existing feed at the aggregator's
// path and returns the merged set sorted by pubDate descending. Candidates
// already present keep the existing item unchanged, new candidates without a
// date get the current time. Existing items no longer produced by any source
// stay in the set, they only disappear by scrolling past the emitted cap.
func (a *Aggregator) Merge(candidates []domain.FeedItem) []domain.FeedItem {
	existing := LoadExisting(a.path)

	byLink := make(map[string]domain.FeedItem, len(existing))
	for _, item := range existing {
		byLink[item.Link] = item
	}

	merged := make([]domain.FeedItem, 0, len(candidates)+len(existing))
	seen := make(map[string]bool, len(candidates))

	for _, cand := range candidates {
		if seen[cand.Link] {
			continue
		}
		seen[cand.Link] = true

		if old, ok := byLink[cand.Link]; ok {
			merged = append(merged, old)
			continue
		}
		if cand.PubDate.IsZero() {
			cand.PubDate = a.now()
		}
		merged = append(merged, cand)
	}

	// carry over existing items not covered by any candidate
	for _, item := range existing {
		if !seen[item.Link] {
			seen[item.Link] = true
			merged = append(merged, item)
		}
	}

	// newest first, ties keep insertion order
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].PubDate.After(merged[j].PubDate) })

	return merged
}
