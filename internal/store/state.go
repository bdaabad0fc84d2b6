package store

import (
	"github.com/mmcdole/mediabox/internal/dialog"
	"github.com/mmcdole/mediabox/internal/domain"
	"github.com/mmcdole/mediabox/internal/mutation"
	"github.com/mmcdole/mediabox/internal/notify"
	"github.com/mmcdole/mediabox/internal/pager"
	"github.com/mmcdole/mediabox/internal/status"
)

// View is a top-level route of the presentation layer.
type View string

const (
	ViewMedia    View = "media"
	ViewAlbums   View = "albums"
	ViewSettings View = "settings"
)

// Mode is the list interaction mode.
type Mode string

const (
	ModeView   Mode = "view"
	ModeSelect Mode = "select"
)

// Operation names, as recorded by the status tracker.
const (
	OpPing          = "main/ping"
	OpUpdateCookies = "main/updateCookies"

	OpQueryAlbums     = "album/query"
	OpQueryMoreAlbums = "album/queryMore"
	OpAddAlbum        = "album/add"
	OpRenameAlbum     = "album/rename"
	OpDeleteAlbums    = "album/delete"

	OpQueryMedia     = "media/query"
	OpQueryMoreMedia = "media/queryMore"
	OpAddMedia       = "media/add"
	OpDeleteMedia    = "media/delete"
)

// MainState is the application-wide partition.
type MainState struct {
	// Authenticated is nil until the first ping settles.
	Authenticated  *bool
	Username       string
	LoginAttempted bool
	ToolsOpen      bool
	View           View
	Modal          notify.Modal
	NewCookiesPath string
}

// AlbumState is the albums partition.
type AlbumState struct {
	Collection *pager.Collection[domain.Album]
	Dialogs    *dialog.Set
	Mode       Mode
}

// MediaState is the media partition.
type MediaState struct {
	Collection *pager.Collection[domain.MediaItem]
	Dialogs    *dialog.Set
	Adding     mutation.Counter
	Mode       Mode

	// FirstLoad stays set until the first media page has settled.
	FirstLoad bool
}

// State is a read-only snapshot of every partition.
type State struct {
	Main          MainState
	Albums        AlbumState
	Media         MediaState
	Status        map[string]status.Phase
	Notifications []notify.Notification
}

func (m MainState) clone() MainState {
	out := m
	if m.Authenticated != nil {
		v := *m.Authenticated
		out.Authenticated = &v
	}
	return out
}

func (a AlbumState) clone() AlbumState {
	return AlbumState{
		Collection: a.Collection.Clone(),
		Dialogs:    a.Dialogs.Clone(),
		Mode:       a.Mode,
	}
}

func (m MediaState) clone() MediaState {
	out := m
	out.Collection = m.Collection.Clone()
	out.Dialogs = m.Dialogs.Clone()
	return out
}

func specsFor(kinds ...dialog.Kind) []dialog.Spec {
	var out []dialog.Spec
	for _, spec := range dialog.DefaultSpecs() {
		for _, k := range kinds {
			if spec.Kind == k {
				out = append(out, spec)
			}
		}
	}
	return out
}
