package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/mediabox/internal/dialog"
	"github.com/mmcdole/mediabox/internal/domain"
	"github.com/mmcdole/mediabox/internal/mutation"
	"github.com/mmcdole/mediabox/internal/notify"
	"github.com/mmcdole/mediabox/internal/op"
	"github.com/mmcdole/mediabox/internal/status"
)

// User-facing messages
const (
	MsgAlbumRenamed    = "Album renamed"
	MsgAlbumsDeleted   = "Albums deleted"
	MsgMediaDeleted    = "Media(s) deleted"
	MsgNoClipboardURL  = "No URL found in clipboard"
	MsgNoCookiesFile   = "No cookies file selected"
	MsgCookiesUpdated  = "Cookies updated"
	MsgUnexpectedError = "Something went wrong"
)

// authLost is dispatched when a request was rejected as unauthorized.
type authLost struct{}

func (s *Store) reduce(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case resumed:
		return s.resume(msg)
	case status.Started, status.Settled:
		return nil

	case Ping:
		return s.run(msg, s.ping())
	case SaveCredentials:
		return s.saveCredentials(msg)
	case Logout:
		s.logout()
	case authLost:
		s.setAuthenticated(false)
	case SetCookiesFile:
		s.main.NewCookiesPath = msg.Path
	case UpdateCookies:
		return s.run(msg, s.updateCookies())
	case AddNotification:
		s.notes.Enqueue(msg.Content, msg.Kind)
	case DismissNotification:
		s.notes.Dismiss(msg.ID)
	case ShowModal:
		s.main.Modal.Show(msg.Header, msg.Message, msg.Kind)
	case CloseModal:
		s.main.Modal.Hide()
	case SetToolsOpen:
		s.main.ToolsOpen = msg.Open
	case Navigate:
		s.main.View = msg.View
	case RouteError:
		s.routeError(msg.Err)

	case QueryAlbums:
		return s.run(msg, s.albumLoader.LoadFirst())
	case QueryMoreAlbums:
		return s.run(msg, s.albumLoader.LoadMore())
	case SetAlbumSearch:
		s.albums.Collection.SetFilter(msg.Query)
		return s.run(QueryAlbums{}, s.albumLoader.LoadFirst())
	case SelectAlbums:
		s.albums.Collection.Select(msg.IDs...)
	case ToggleAlbum:
		s.albums.Collection.Toggle(msg.ID)
	case ToggleAlbumActionsMode:
		s.albums.Mode = toggleMode(s.albums.Mode)
		if s.albums.Mode == ModeView {
			s.albums.Collection.ClearSelection()
		}
	case AddAlbum:
		return s.run(msg, s.addAlbum())
	case RenameAlbum:
		return s.run(msg, s.renameAlbum(msg))
	case DeleteAlbums:
		return s.run(msg, s.deleteAlbums(msg.IDs))
	case ResetAlbums:
		s.resetAlbums()

	case QueryMedia:
		return s.run(msg, s.mediaLoader.LoadFirst())
	case QueryMoreMedia:
		return s.run(msg, s.mediaLoader.LoadMore())
	case AddMedia:
		return s.addMedia(msg.URL)
	case DeleteMedia:
		return s.run(msg, s.deleteMedia(msg.IDs))
	case SelectMedia:
		s.media.Collection.Select(msg.IDs...)
	case ToggleMedia:
		s.media.Collection.Toggle(msg.ID)
	case ToggleMediaListMode:
		s.media.Mode = toggleMode(s.media.Mode)
		s.media.Collection.ClearSelection()
	case SetMediaFilter:
		s.media.Collection.SetFilter(msg.Text)

	case OpenDialog:
		if set := s.dialogsFor(msg.Kind); set != nil {
			set.Open(msg.Kind, msg.Values)
		}
	case CloseDialog:
		if set := s.dialogsFor(msg.Kind); set != nil {
			set.Close(msg.Kind)
		}
	case EditDialog:
		if set := s.dialogsFor(msg.Kind); set != nil {
			set.SetField(msg.Kind, msg.Field, msg.Value)
		}
	case SubmitDialog:
		return s.submitDialog(msg.Kind)
	}
	return nil
}

func toggleMode(m Mode) Mode {
	if m == ModeSelect {
		return ModeView
	}
	return ModeSelect
}

func (s *Store) dialogsFor(kind dialog.Kind) *dialog.Set {
	switch {
	case s.albums.Dialogs.Has(kind):
		return s.albums.Dialogs
	case s.media.Dialogs.Has(kind):
		return s.media.Dialogs
	}
	s.logger.Warn("unknown dialog", "dialog", kind)
	return nil
}

func (s *Store) setAuthenticated(v bool) {
	s.main.Authenticated = &v
}

// routeError is the boundary for failures nothing else classified: the user
// lands on the default view with a generic notification.
func (s *Store) routeError(err error) tea.Cmd {
	s.logger.Error("unexpected error", "error", err, "view", s.main.View)
	s.notes.Enqueue(MsgUnexpectedError, notify.KindError)
	s.main.View = s.opts.DefaultView
	return nil
}

// loadFailed classifies a collection fetch failure.
func (s *Store) loadFailed(err error) []tea.Msg {
	if errors.Is(err, domain.ErrUnauthorized) {
		return []tea.Msg{authLost{}}
	}
	return []tea.Msg{AddNotification{Content: domain.ErrorMessage(err), Kind: notify.KindError}}
}

// === Main ===

func (s *Store) ping() *op.Job {
	return op.Call(s.api.Ping, func(err error) op.Step {
		if err != nil {
			if !errors.Is(err, domain.ErrUnauthorized) {
				s.logger.Error("failed to ping", "error", err)
			}
			s.setAuthenticated(false)
			return op.Fail(err)
		}
		s.setAuthenticated(true)
		return op.Done()
	})
}

func (s *Store) saveCredentials(msg SaveCredentials) tea.Cmd {
	c := domain.Credentials{Username: strings.TrimSpace(msg.Username), Password: msg.Password}
	if s.creds != nil {
		if err := s.creds.Save(c); err != nil {
			s.logger.Error("failed to save credentials", "error", err)
			s.notes.Enqueue("Could not save credentials: "+err.Error(), notify.KindError)
		}
	}
	s.api.SetCredentials(c)
	s.main.Username = c.Username
	s.main.LoginAttempted = true
	return s.run(Ping{}, s.ping())
}

func (s *Store) logout() {
	if s.creds != nil {
		if err := s.creds.Clear(); err != nil {
			s.logger.Error("failed to clear credentials", "error", err)
		}
	}
	s.api.SetCredentials(domain.Credentials{})
	s.setAuthenticated(false)
	s.main.Username = ""
	s.main.LoginAttempted = false
	s.main.View = s.opts.DefaultView
	s.notes.Clear()
	s.resetAlbums()
	s.media.Collection.Reset()
	s.media.Mode = ModeView
	s.media.FirstLoad = true
	s.media.Dialogs.Close(dialog.NewMedia)
}

func (s *Store) updateCookies() *op.Job {
	path := s.main.NewCookiesPath
	if path == "" {
		s.notes.Enqueue(MsgNoCookiesFile, notify.KindError)
		return nil
	}
	return op.Call(func(ctx context.Context) error {
		return s.api.UploadCookies(ctx, path)
	}, func(err error) op.Step {
		if err != nil {
			s.logger.Error("failed to upload cookies", "error", err, "path", path)
			s.notes.Enqueue(domain.ErrorMessage(err), notify.KindError)
			return op.Fail(err)
		}
		if s.main.NewCookiesPath == path {
			s.main.NewCookiesPath = ""
		}
		s.notes.Enqueue(MsgCookiesUpdated, notify.KindSuccess)
		return op.Done()
	})
}

// === Albums ===

func (s *Store) addAlbum() *op.Job {
	return s.albumMut.Create(mutation.Submit{
		Kind: dialog.NewAlbum,
		Call: func(ctx context.Context, v map[string]string) (string, error) {
			a, err := s.api.CreateAlbum(ctx, strings.TrimSpace(v["name"]))
			return a.Name, err
		},
		Success: func(name string) string { return fmt.Sprintf("%s album created", name) },
		Reload:  []tea.Msg{QueryAlbums{}},
	})
}

// renameAlbum submits the rename draft. An intent naming an album replaces
// both fields, so an empty name fails validation instead of falling back to
// whatever the draft held.
func (s *Store) renameAlbum(msg RenameAlbum) *op.Job {
	if msg.ID != "" {
		s.albums.Dialogs.SetField(dialog.RenameAlbum, "id", msg.ID)
		s.albums.Dialogs.SetField(dialog.RenameAlbum, "name", msg.Name)
	}
	return s.albumMut.Rename(mutation.Submit{
		Kind: dialog.RenameAlbum,
		Call: func(ctx context.Context, v map[string]string) (string, error) {
			name := strings.TrimSpace(v["name"])
			return name, s.api.RenameAlbum(ctx, v["id"], name)
		},
		Success: func(string) string { return MsgAlbumRenamed },
		Reload:  []tea.Msg{QueryAlbums{}},
	})
}

func (s *Store) deleteAlbums(ids []string) *op.Job {
	if len(ids) == 0 {
		ids = s.albums.Collection.SelectedIDs()
	}
	if len(ids) == 0 {
		s.logger.Warn("delete albums without ids")
		return nil
	}
	return s.albumMut.Delete(mutation.Delete{
		IDs:     ids,
		Call:    s.api.DeleteAlbums,
		Message: MsgAlbumsDeleted,
		Reload:  []tea.Msg{QueryAlbums{}},
		OnSuccess: func() {
			s.albums.Collection.ClearSelection()
			s.albums.Mode = ModeView
		},
	})
}

func (s *Store) resetAlbums() {
	s.albums.Collection.Reset()
	s.albums.Mode = ModeView
	for _, kind := range s.albums.Dialogs.Kinds() {
		s.albums.Dialogs.Close(kind)
	}
}

// === Media ===

// addMedia starts a counted add. The tools panel state is read when the
// add finishes, not when it starts.
func (s *Store) addMedia(url string) tea.Cmd {
	url = strings.TrimSpace(url)
	if url == "" {
		s.notes.Enqueue(MsgNoClipboardURL, notify.KindError)
		return nil
	}
	return s.run(AddMedia{URL: url}, s.mediaMut.AddWithCounter(mutation.Add{
		Counter: &s.media.Adding,
		Call: func(ctx context.Context) error {
			_, err := s.api.AddMedia(ctx, url)
			return err
		},
		Reload: func() []tea.Msg {
			if s.main.ToolsOpen {
				return nil
			}
			return []tea.Msg{QueryMedia{}}
		},
	}))
}

func (s *Store) deleteMedia(ids []string) *op.Job {
	if len(ids) == 0 {
		ids = s.media.Collection.SelectedIDs()
	}
	if len(ids) == 0 {
		s.logger.Warn("delete media without ids")
		return nil
	}
	return s.mediaMut.Delete(mutation.Delete{
		IDs:     ids,
		Call:    s.api.DeleteMedia,
		Message: MsgMediaDeleted,
		Modal:   true,
		Reload:  []tea.Msg{QueryMedia{}},
		OnSuccess: func() {
			s.media.Collection.ClearSelection()
			s.media.Mode = ModeView
		},
	})
}

// === Dialogs ===

func (s *Store) submitDialog(kind dialog.Kind) tea.Cmd {
	switch kind {
	case dialog.NewAlbum:
		return s.run(AddAlbum{}, s.addAlbum())
	case dialog.RenameAlbum:
		return s.run(RenameAlbum{}, s.renameAlbum(RenameAlbum{}))
	case dialog.NewMedia:
		set := s.media.Dialogs
		if !set.Validate(kind) {
			return nil
		}
		url := set.Draft(kind).Value("url")
		set.SetField(kind, "recent", url)
		set.Close(kind)
		return s.addMedia(url)
	}
	s.logger.Warn("submit of unknown dialog", "dialog", kind)
	return nil
}
