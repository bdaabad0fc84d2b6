// Package search filters and ranks loaded collections on the client.
package search

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/mediabox/internal/domain"
)

// MediaMatch is a media item that passed the filter.
type MediaMatch struct {
	Item domain.MediaItem

	// MatchedIndexes are byte positions in Item.DisplayTitle() for highlighting
	MatchedIndexes []int
	Score          int
}

// titleIndex implements fuzzy.Source over pre-lowered display titles.
type titleIndex []string

func (idx titleIndex) String(i int) string { return idx[i] }
func (idx titleIndex) Len() int            { return len(idx) }

// FilterMedia keeps the items whose display title fuzzy-matches query, best
// match first. An empty query keeps every item in list order.
func FilterMedia(query string, items []domain.MediaItem) []MediaMatch {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]MediaMatch, len(items))
		for i, it := range items {
			out[i] = MediaMatch{Item: it}
		}
		return out
	}

	idx := make(titleIndex, len(items))
	for i, it := range items {
		idx[i] = strings.ToLower(it.DisplayTitle())
	}

	matches := fuzzy.FindFrom(query, idx)
	out := make([]MediaMatch, len(matches))
	for i, m := range matches {
		out[i] = MediaMatch{
			Item:           items[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return out
}
