package tui

import (
	"context"
	"slices"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/mediabox/internal/dialog"
	"github.com/mmcdole/mediabox/internal/domain"
	"github.com/mmcdole/mediabox/internal/store"
)

// stubAPI answers every request with success. Media queries return media.
type stubAPI struct {
	media []domain.MediaItem
}

func (stubAPI) QueryAlbums(context.Context, domain.Query) (domain.Page[domain.Album], error) {
	return domain.Page[domain.Album]{}, nil
}
func (stubAPI) CreateAlbum(_ context.Context, name string) (domain.Album, error) {
	return domain.Album{ID: "new", Name: name}, nil
}
func (stubAPI) RenameAlbum(context.Context, string, string) error { return nil }
func (stubAPI) DeleteAlbums(context.Context, []string) error      { return nil }
func (a stubAPI) QueryMedia(context.Context, domain.Query) (domain.Page[domain.MediaItem], error) {
	return domain.Page[domain.MediaItem]{Items: a.media}, nil
}
func (stubAPI) AddMedia(_ context.Context, url string) (domain.MediaItem, error) {
	return domain.MediaItem{SourceURL: url}, nil
}
func (stubAPI) DeleteMedia(context.Context, []string) error      { return nil }
func (stubAPI) Ping(context.Context) error                       { return nil }
func (stubAPI) SetCredentials(domain.Credentials)                {}
func (stubAPI) UploadCookies(context.Context, string) error      { return nil }

func newTestModel(t *testing.T) Model {
	t.Helper()
	s := store.New(stubAPI{}, nil, store.Options{}, nil)
	m := NewModel(s, nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestModel_NavigateBetweenViews(t *testing.T) {
	m := newTestModel(t)
	if m.snap.Main.View != store.ViewMedia {
		t.Fatalf("view = %q, want %q", m.snap.Main.View, store.ViewMedia)
	}

	m = press(t, m, "2")
	if m.snap.Main.View != store.ViewAlbums {
		t.Fatalf("view = %q, want %q", m.snap.Main.View, store.ViewAlbums)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	if m.snap.Main.View != store.ViewSettings {
		t.Fatalf("view = %q, want %q", m.snap.Main.View, store.ViewSettings)
	}
}

func TestModel_DialogFormMirrorsDraft(t *testing.T) {
	m := press(t, newTestModel(t), "2", "n")
	if !m.form.IsVisible() {
		t.Fatal("form should be visible after n")
	}
	if !m.snap.Dialog(dialog.NewAlbum).Open {
		t.Fatal("new album dialog should be open in the store")
	}

	m = press(t, m, "T", "r", "i", "p")
	if got := m.snap.Dialog(dialog.NewAlbum).Value("name"); got != "Trip" {
		t.Fatalf("draft name = %q, want Trip", got)
	}

	m = press(t, m, "esc")
	if m.form.IsVisible() {
		t.Fatal("form should hide on esc")
	}
	if m.snap.Dialog(dialog.NewAlbum).Open {
		t.Fatal("dialog should be closed in the store")
	}
}

func TestModel_SubmitEmptyDialogShowsRequired(t *testing.T) {
	m := press(t, newTestModel(t), "2", "n", "enter")

	draft := m.snap.Dialog(dialog.NewAlbum)
	if draft.Errors["name"] != dialog.MsgRequired {
		t.Fatalf("errors = %v, want name required", draft.Errors)
	}
	if !m.form.IsVisible() {
		t.Fatal("form should stay open on validation failure")
	}
}

func TestModel_MediaFilterIsLive(t *testing.T) {
	m := press(t, newTestModel(t), "/", "c", "a", "t")
	if got := m.snap.Media.Collection.Filter(); got != "cat" {
		t.Fatalf("filter = %q, want cat", got)
	}

	m = press(t, m, "esc")
	if got := m.snap.Media.Collection.Filter(); got != "" {
		t.Fatalf("filter after esc = %q, want empty", got)
	}
}

func TestModel_EmptyClipboardNotifies(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(clipboardMsg{Text: ""})
	m = next.(Model)

	if len(m.snap.Notifications) != 1 || m.snap.Notifications[0].Content != store.MsgNoClipboardURL {
		t.Fatalf("notifications = %+v", m.snap.Notifications)
	}
}

func TestModel_ExpireDismissesNotification(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(store.AddNotification{Content: "saved"})
	m = next.(Model)
	if len(m.snap.Notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(m.snap.Notifications))
	}

	next, _ = m.Update(expireMsg{ID: m.snap.Notifications[0].ID})
	m = next.(Model)
	if len(m.snap.Notifications) != 0 {
		t.Fatalf("notifications = %d, want 0", len(m.snap.Notifications))
	}
}

func TestModel_ToggleSelectMode(t *testing.T) {
	m := press(t, newTestModel(t), "v")
	if m.snap.Media.Mode != store.ModeSelect {
		t.Fatalf("mode = %q, want %q", m.snap.Media.Mode, store.ModeSelect)
	}
	m = press(t, m, "v")
	if m.snap.Media.Mode != store.ModeView {
		t.Fatalf("mode = %q, want %q", m.snap.Media.Mode, store.ModeView)
	}
}

func TestModel_DeleteTakesLoadedSelectionInListOrder(t *testing.T) {
	s := store.New(stubAPI{media: []domain.MediaItem{
		{ID: "m1", Title: "One", CreatedAtKSUID: "k2"},
		{ID: "m2", Title: "Two", CreatedAtKSUID: "k1"},
	}}, nil, store.Options{}, nil)
	r := store.NewRunner(s)
	r.Dispatch(store.QueryMedia{})
	if err := r.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	s.Dispatch(store.ToggleMediaListMode{})
	s.Dispatch(store.SelectMedia{IDs: []string{"m2", "gone", "m1"}})

	next, _ := NewModel(s, nil).Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m := press(t, next.(Model), "x")

	if m.State != StateConfirmDelete {
		t.Fatalf("state = %v, want confirm delete", m.State)
	}
	if want := []string{"m1", "m2"}; !slices.Equal(m.pendingDelete, want) {
		t.Fatalf("pendingDelete = %v, want %v", m.pendingDelete, want)
	}
}
