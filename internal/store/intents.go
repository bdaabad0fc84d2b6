package store

import (
	"github.com/mmcdole/mediabox/internal/dialog"
	"github.com/mmcdole/mediabox/internal/notify"
)

// Operation is an intent that runs as a named asynchronous unit. Its phase
// is observable through the status tracker under OperationName.
type Operation interface {
	OperationName() string
}

// Main

// Ping checks the current credentials.
type Ping struct{}

// SaveCredentials stores and injects credentials, then pings.
type SaveCredentials struct {
	Username string
	Password string
}

// Logout forgets the credentials and every loaded collection.
type Logout struct{}

// SetCookiesFile records the cookies.txt path to upload.
type SetCookiesFile struct {
	Path string
}

// UpdateCookies uploads the recorded cookies file.
type UpdateCookies struct{}

type AddNotification struct {
	Content string
	Kind    notify.Kind
}

type DismissNotification struct {
	ID string
}

type ShowModal struct {
	Header  string
	Message string
	Kind    notify.Kind
}

type CloseModal struct{}

// SetToolsOpen toggles the tools panel. While it is open, finished media
// adds do not reload the media list.
type SetToolsOpen struct {
	Open bool
}

type Navigate struct {
	View View
}

// RouteError reports an unexpected failure at the routing boundary.
type RouteError struct {
	Err error
}

// Albums

type QueryAlbums struct{}
type QueryMoreAlbums struct{}

// SetAlbumSearch sets the server-side album search and reloads.
type SetAlbumSearch struct {
	Query string
}

// SelectAlbums replaces the album selection.
type SelectAlbums struct {
	IDs []string
}

type ToggleAlbum struct {
	ID string
}

// ToggleAlbumActionsMode switches between view and select. Leaving select
// mode clears the selection.
type ToggleAlbumActionsMode struct{}

// AddAlbum submits the new-album dialog.
type AddAlbum struct{}

// RenameAlbum submits the rename dialog. When ID is set, ID and Name are
// written into the draft first.
type RenameAlbum struct {
	ID   string
	Name string
}

// DeleteAlbums deletes IDs, or the current selection when IDs is empty.
type DeleteAlbums struct {
	IDs []string
}

// ResetAlbums drops the loaded albums and every album dialog.
type ResetAlbums struct{}

// Media

type QueryMedia struct{}
type QueryMoreMedia struct{}

// AddMedia adds one URL without a dialog. An empty URL is reported as a
// notification and starts nothing.
type AddMedia struct {
	URL string
}

// DeleteMedia deletes IDs, or the current selection when IDs is empty.
type DeleteMedia struct {
	IDs []string
}

type SelectMedia struct {
	IDs []string
}

type ToggleMedia struct {
	ID string
}

// ToggleMediaListMode switches between view and select and clears the
// selection.
type ToggleMediaListMode struct{}

// SetMediaFilter sets the client-side media filter.
type SetMediaFilter struct {
	Text string
}

// Dialogs

type OpenDialog struct {
	Kind   dialog.Kind
	Values map[string]string
}

type CloseDialog struct {
	Kind dialog.Kind
}

type EditDialog struct {
	Kind  dialog.Kind
	Field string
	Value string
}

// SubmitDialog validates the live draft and starts the dialog's operation.
type SubmitDialog struct {
	Kind dialog.Kind
}

func (Ping) OperationName() string            { return OpPing }
func (UpdateCookies) OperationName() string   { return OpUpdateCookies }
func (QueryAlbums) OperationName() string     { return OpQueryAlbums }
func (QueryMoreAlbums) OperationName() string { return OpQueryMoreAlbums }
func (AddAlbum) OperationName() string        { return OpAddAlbum }
func (RenameAlbum) OperationName() string     { return OpRenameAlbum }
func (DeleteAlbums) OperationName() string    { return OpDeleteAlbums }
func (QueryMedia) OperationName() string      { return OpQueryMedia }
func (QueryMoreMedia) OperationName() string  { return OpQueryMoreMedia }
func (AddMedia) OperationName() string        { return OpAddMedia }
func (DeleteMedia) OperationName() string     { return OpDeleteMedia }
