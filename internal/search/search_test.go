package search

import (
	"testing"

	"github.com/mmcdole/mediabox/internal/domain"
)

func TestFilterMedia_EmptyQueryKeepsOrder(t *testing.T) {
	items := []domain.MediaItem{{ID: "1", Title: "b"}, {ID: "2", Title: "a"}}
	got := FilterMedia("  ", items)
	if len(got) != 2 || got[0].Item.ID != "1" || got[1].Item.ID != "2" {
		t.Fatalf("FilterMedia = %+v", got)
	}
}

func TestFilterMedia_MatchesDisplayTitle(t *testing.T) {
	items := []domain.MediaItem{
		{ID: "1", Title: "Cooking with Gas"},
		{ID: "2", Title: "Mountain Biking Alps"},
		{ID: "3", SourceURL: "https://video.example/alps-hike"},
	}
	got := FilterMedia("ALPS", items)
	if len(got) != 2 {
		t.Fatalf("matches = %d, want 2: %+v", len(got), got)
	}
	for _, m := range got {
		if m.Item.ID == "1" {
			t.Fatal("unrelated title matched")
		}
		if len(m.MatchedIndexes) != 4 {
			t.Fatalf("MatchedIndexes = %v, want 4 positions", m.MatchedIndexes)
		}
	}
}

func TestRankAlbums_LabelMatchesFirst(t *testing.T) {
	albums := []domain.Album{
		{ID: "1", Name: "trip=summer"},
		{ID: "2", Name: "summerhouse=garden"},
		{ID: "3", Name: "Summer"},
	}
	got := RankAlbums("summer", albums)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].ID != "1" && got[0].ID != "3" {
		t.Fatalf("first = %s, want an exact label match", got[0].ID)
	}
	if got[2].ID != "2" {
		t.Fatalf("last = %s, want the album matched only by prefix", got[2].ID)
	}
}

func TestRankAlbums_EmptyQueryUnchanged(t *testing.T) {
	albums := []domain.Album{{ID: "1"}, {ID: "2"}}
	if got := RankAlbums("", albums); got[0].ID != "1" {
		t.Fatalf("RankAlbums reordered without a query: %v", got)
	}
}

func TestLabelMatches(t *testing.T) {
	if got := LabelMatches("hol", "Holiday"); len(got) != 3 || got[0] != 0 {
		t.Fatalf("LabelMatches = %v, want [0 1 2]", got)
	}
	if got := LabelMatches("xyz", "Holiday"); got != nil {
		t.Fatalf("LabelMatches = %v, want nil", got)
	}
}
