package site

import (
	"sort"

	"github.com/gaurv/sitegen/pkg/domain"
)

// BuildTagIndex groups posts by tag string, newest first within each tag.
// Tags are matched verbatim, no case folding or normalization.
func BuildTagIndex(posts []*domain.Post) domain.TagIndex {
	index := domain.TagIndex{}
	for _, post := range posts {
		for _, tag := range post.Tags {
			index[tag] = append(index[tag], post)
		}
	}

	for tag := range index {
		tagged := index[tag]
		sort.SliceStable(tagged, func(i, j int) bool { return tagged[i].Date.After(tagged[j].Date) })
	}

	return index
}

// TagNames returns the index keys in lexical order for stable page output
func TagNames(index domain.TagIndex) []string {
	names := make([]string, 0, len(index))
	for tag := range index {
		names = append(names, tag)
	}
	sort.Strings(names)
	return names
}
