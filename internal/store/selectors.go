package store

import (
	"github.com/mmcdole/mediabox/internal/dialog"
	"github.com/mmcdole/mediabox/internal/domain"
	"github.com/mmcdole/mediabox/internal/search"
	"github.com/mmcdole/mediabox/internal/status"
)

// Snapshot returns a deep copy of every partition. The copy never changes
// after it is returned.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return State{
		Main:          s.main.clone(),
		Albums:        s.albums.clone(),
		Media:         s.media.clone(),
		Status:        s.tracker.Snapshot(),
		Notifications: s.notes.Items(),
	}
}

// StatusOf reads the current phase of an operation.
func (s *Store) StatusOf(name string) status.Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker.StatusOf(name)
}

// The selectors below are pure functions of a snapshot.

func (st State) StatusOf(name string) status.Phase {
	return st.Status[name]
}

// IsPending reports whether any of the named operations is in flight.
func (st State) IsPending(names ...string) bool {
	for _, n := range names {
		if st.Status[n] == status.Pending {
			return true
		}
	}
	return false
}

// IsAuthenticated returns the authenticated flag and whether it is known yet.
func (st State) IsAuthenticated() (authenticated, known bool) {
	if st.Main.Authenticated == nil {
		return false, false
	}
	return *st.Main.Authenticated, true
}

// Unauthorized reports the dedicated indicator shown after a failed ping.
func (st State) Unauthorized() bool {
	auth, known := st.IsAuthenticated()
	return known && !auth
}

func (st State) AlbumItems() []domain.Album {
	return st.Albums.Collection.Items()
}

// VisibleAlbums orders the server's search results by how well their labels
// match the search text.
func (st State) VisibleAlbums() []domain.Album {
	return search.RankAlbums(st.Albums.Collection.Filter(), st.Albums.Collection.Items())
}

func (st State) MediaItems() []domain.MediaItem {
	return st.Media.Collection.Items()
}

// VisibleMedia applies the client-side media filter.
func (st State) VisibleMedia() []search.MediaMatch {
	return search.FilterMedia(st.Media.Collection.Filter(), st.Media.Collection.Items())
}

// Dialog returns the draft of kind from whichever partition declares it.
func (st State) Dialog(kind dialog.Kind) dialog.Draft {
	if st.Albums.Dialogs.Has(kind) {
		return st.Albums.Dialogs.Draft(kind)
	}
	return st.Media.Dialogs.Draft(kind)
}

// AddingCount is the number of media adds in flight.
func (st State) AddingCount() int {
	return st.Media.Adding.Value()
}

// Busy reports whether the list shown by v is loading its first page.
func (st State) Busy(v View) bool {
	switch v {
	case ViewAlbums:
		return st.IsPending(OpQueryAlbums)
	case ViewMedia:
		return st.IsPending(OpQueryMedia) || st.Media.FirstLoad && !st.Media.Collection.Loaded()
	}
	return false
}
