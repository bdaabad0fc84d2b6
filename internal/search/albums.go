package search

import (
	"sort"
	"strings"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/mediabox/internal/domain"
)

// RankAlbums reorders server search results so albums whose label matches
// query come first, closest first. Albums the server matched on another part
// of their name keep their relative order at the end.
func RankAlbums(query string, albums []domain.Album) []domain.Album {
	query = strings.TrimSpace(query)
	if query == "" || len(albums) < 2 {
		return albums
	}

	labels := make([]string, len(albums))
	for i, a := range albums {
		labels[i] = a.Label()
	}

	ranks := lfuzzy.RankFindNormalizedFold(query, labels)
	sort.Stable(ranks)

	out := make([]domain.Album, 0, len(albums))
	ranked := make(map[int]bool, len(ranks))
	for _, r := range ranks {
		ranked[r.OriginalIndex] = true
		out = append(out, albums[r.OriginalIndex])
	}
	for i, a := range albums {
		if !ranked[i] {
			out = append(out, a)
		}
	}
	return out
}

// LabelMatches returns the byte positions of label that match query, for
// highlighting. It is nil when nothing matches.
func LabelMatches(query, label string) []int {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	matches := fuzzy.Find(query, []string{strings.ToLower(label)})
	if len(matches) == 0 {
		return nil
	}
	return matches[0].MatchedIndexes
}
