package domain

import "time"

// IST is the site's canonical timezone, a fixed UTC+5:30 offset.
// All filename-derived and defaulted dates are anchored to it.
var IST = time.FixedZone("IST", 5*3600+30*60)

// Post represents a single piece of content in one of the site's collections
type Post struct {
	Title       string
	Slug        string
	Collection  string
	Date        time.Time
	Tags        []string
	Description string
	Markdown    string // raw Markdown body as loaded from the source
	Body        string // rendered HTML fragment, set once and never mutated
	File        string // source file name, empty for API-sourced posts

	// neighbor links, attached once the full collection is known.
	// prev points to the chronologically older post, next to the newer one.
	PrevSlug string
	NextSlug string
}

// TagIndex maps a tag string to its posts, newest first within each tag.
// Tags are compared verbatim, no case folding or normalization.
type TagIndex map[string][]*Post
