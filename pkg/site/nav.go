package site

import (
	"sort"

	"github.com/gaurv/sitegen/pkg/domain"
)

// SortByDate orders posts ascending by publication date, ties broken by slug
// so repeated runs produce identical ordering
func SortByDate(posts []*domain.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Slug < posts[j].Slug
		}
		return posts[i].Date.Before(posts[j].Date)
	})
}

// LinkNeighbors attaches prev/next slugs over posts sorted ascending by date.
// Direction is chronological: prev points at the older neighbor, next at the
// newer one. Boundary posts keep one link empty.
func LinkNeighbors(posts []*domain.Post) {
	for i, post := range posts {
		if i > 0 {
			post.PrevSlug = posts[i-1].Slug
		}
		if i < len(posts)-1 {
			post.NextSlug = posts[i+1].Slug
		}
	}
}
