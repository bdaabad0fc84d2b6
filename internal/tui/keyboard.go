package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/mediabox/internal/dialog"
	"github.com/mmcdole/mediabox/internal/domain"
	"github.com/mmcdole/mediabox/internal/store"
	"github.com/mmcdole/mediabox/internal/tui/components"
)

var views = []store.View{store.ViewMedia, store.ViewAlbums, store.ViewSettings}

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle state-specific keys
	switch m.State {
	case StateHelp:
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.State = StateBrowsing
		}
		return m, nil

	case StateConfirmDelete:
		switch {
		case key.Matches(msg, Keys.Confirm):
			m.State = StateBrowsing
			ids := m.pendingDelete
			m.pendingDelete = nil
			if m.deleteView == store.ViewAlbums {
				return m, m.dispatch(store.DeleteAlbums{IDs: ids})
			}
			return m, m.dispatch(store.DeleteMedia{IDs: ids})
		case key.Matches(msg, Keys.Deny):
			m.State = StateBrowsing
			m.pendingDelete = nil
		}
		return m, nil

	case StateConfirmLogout:
		switch {
		case key.Matches(msg, Keys.Confirm):
			m.State = StateBrowsing
			return m, m.dispatch(store.Logout{})
		case key.Matches(msg, Keys.Deny):
			m.State = StateBrowsing
		}
		return m, nil
	}

	if m.snap.Main.Modal.Visible {
		if msg.String() == "enter" || key.Matches(msg, Keys.Escape) {
			return m, m.dispatch(store.CloseModal{})
		}
		return m, nil
	}

	if m.form.IsVisible() {
		return m.updateForm(msg)
	}

	if m.filtering {
		return m.updateFilter(msg)
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.NextView):
		next := views[0]
		for i, v := range views {
			if v == m.snap.Main.View {
				next = views[(i+1)%len(views)]
			}
		}
		return m, m.dispatch(store.Navigate{View: next})

	case key.Matches(msg, Keys.Media):
		return m, m.dispatch(store.Navigate{View: store.ViewMedia})

	case key.Matches(msg, Keys.Albums):
		return m, m.dispatch(store.Navigate{View: store.ViewAlbums})

	case key.Matches(msg, Keys.Settings):
		return m, m.dispatch(store.Navigate{View: store.ViewSettings})

	case key.Matches(msg, Keys.Dismiss):
		if len(m.snap.Notifications) == 0 {
			return m, nil
		}
		return m, m.dispatch(store.DismissNotification{ID: m.snap.Notifications[0].ID})

	case key.Matches(msg, Keys.Tools):
		return m, m.dispatch(store.SetToolsOpen{Open: !m.snap.Main.ToolsOpen})
	}

	switch m.snap.Main.View {
	case store.ViewMedia:
		return m.handleMediaKey(msg)
	case store.ViewAlbums:
		return m.handleAlbumKey(msg)
	case store.ViewSettings:
		return m.handleSettingsKey(msg)
	}
	return m, nil
}

// handleNavKey moves the cursor of l, returning false for other keys
func (m *Model) handleNavKey(msg tea.KeyMsg, l *components.List, n int) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, Keys.Up):
		l.MoveUp()
	case key.Matches(msg, Keys.Down):
		l.MoveDown(n)
	case key.Matches(msg, Keys.PageUp):
		l.PageUp()
	case key.Matches(msg, Keys.PageDown):
		l.PageDown(n)
	case key.Matches(msg, Keys.Home):
		l.Top()
	case key.Matches(msg, Keys.End):
		l.Bottom(n)
	default:
		return nil, false
	}
	return m.maybeLoadMore(), true
}

func (m Model) handleMediaKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.handleNavKey(msg, &m.mediaList, len(m.snap.VisibleMedia())); ok {
		return m, cmd
	}

	selecting := m.snap.Media.Mode == store.ModeSelect
	switch {
	case key.Matches(msg, Keys.Refresh):
		return m, m.dispatch(store.QueryMedia{})

	case key.Matches(msg, Keys.SelectMode):
		return m, m.dispatch(store.ToggleMediaListMode{})

	case key.Matches(msg, Keys.Mark):
		if id, ok := m.cursorMedia(); ok && selecting {
			return m, m.dispatch(store.ToggleMedia{ID: id})
		}

	case key.Matches(msg, Keys.New):
		return m, m.openDialog(dialog.NewMedia, "Add media", "https://...", nil)

	case key.Matches(msg, Keys.Paste):
		return m, ReadClipboardCmd()

	case key.Matches(msg, Keys.Filter):
		return m, m.startFilter(m.snap.Media.Collection.Filter())

	case key.Matches(msg, Keys.Escape):
		if m.snap.Media.Collection.Filter() != "" {
			return m, m.dispatch(store.SetMediaFilter{})
		}

	case key.Matches(msg, Keys.Delete):
		ids := domain.IDs(m.snap.Media.Collection.Selected())
		if len(ids) == 0 {
			if id, ok := m.cursorMedia(); ok {
				ids = []string{id}
			}
		}
		if len(ids) > 0 {
			m.confirmDelete(store.ViewMedia, ids)
		}
	}
	return m, nil
}

func (m Model) handleAlbumKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	albums := m.snap.VisibleAlbums()
	if cmd, ok := m.handleNavKey(msg, &m.albumList, len(albums)); ok {
		return m, cmd
	}

	i, onItem := m.cursorAlbum()
	switch {
	case key.Matches(msg, Keys.Refresh):
		return m, m.dispatch(store.QueryAlbums{})

	case key.Matches(msg, Keys.SelectMode):
		return m, m.dispatch(store.ToggleAlbumActionsMode{})

	case key.Matches(msg, Keys.Mark):
		if onItem && m.snap.Albums.Mode == store.ModeSelect {
			return m, m.dispatch(store.ToggleAlbum{ID: albums[i].ID})
		}

	case key.Matches(msg, Keys.New):
		return m, m.openDialog(dialog.NewAlbum, "New album", "Album name", nil)

	case key.Matches(msg, Keys.Rename):
		if onItem {
			a := albums[i]
			return m, m.openDialog(dialog.RenameAlbum, "Rename "+a.Label(), "New name",
				map[string]string{"id": a.ID, "name": a.Name})
		}

	case key.Matches(msg, Keys.Filter):
		return m, m.startFilter(m.snap.Albums.Collection.Filter())

	case key.Matches(msg, Keys.Escape):
		if m.snap.Albums.Collection.Filter() != "" {
			return m, m.dispatch(store.SetAlbumSearch{})
		}

	case key.Matches(msg, Keys.Delete):
		ids := domain.IDs(m.snap.Albums.Collection.Selected())
		if len(ids) == 0 && onItem {
			ids = []string{albums[i].ID}
		}
		if len(ids) > 0 {
			m.confirmDelete(store.ViewAlbums, ids)
		}
	}
	return m, nil
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Refresh):
		return m, m.dispatch(store.Ping{})

	case key.Matches(msg, Keys.Login):
		m.formPurpose = formUsername
		m.form.SetSecret(false)
		m.form.Show("Username", "username", m.snap.Main.Username)
		return m, nil

	case key.Matches(msg, Keys.Cookies):
		m.formPurpose = formCookies
		m.form.SetSecret(false)
		m.form.Show("Upload cookies.txt", "/path/to/cookies.txt", m.snap.Main.NewCookiesPath)
		return m, nil

	case key.Matches(msg, Keys.Logout):
		m.State = StateConfirmLogout
	}
	return m, nil
}

// openDialog opens a store dialog and mirrors its draft in the form
func (m *Model) openDialog(kind dialog.Kind, title, placeholder string, values map[string]string) tea.Cmd {
	cmd := m.dispatch(store.OpenDialog{Kind: kind, Values: values})
	m.formPurpose = formDialog
	m.formKind = kind
	m.form.SetSecret(false)
	m.form.Show(title, placeholder, m.snap.Dialog(kind).Value(dialogField(kind)))
	return cmd
}

// dialogField is the single user-editable field of each dialog
func dialogField(kind dialog.Kind) string {
	if kind == dialog.NewMedia {
		return "url"
	}
	return "name"
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var ev components.FormEvent
	m.form, cmd, ev = m.form.Update(msg)

	if m.formPurpose == formDialog {
		switch ev {
		case components.FormChanged:
			return m, tea.Batch(cmd, m.dispatch(store.EditDialog{Kind: m.formKind, Field: dialogField(m.formKind), Value: m.form.Value()}))
		case components.FormSubmitted:
			return m, m.dispatch(store.SubmitDialog{Kind: m.formKind})
		case components.FormCancelled:
			return m, m.dispatch(store.CloseDialog{Kind: m.formKind})
		}
		return m, cmd
	}

	switch ev {
	case components.FormSubmitted:
		value := m.form.Value()
		switch m.formPurpose {
		case formUsername:
			m.pendingUser = value
			m.formPurpose = formPassword
			m.form.SetSecret(true)
			m.form.Show("Password for "+value, "password", "")
			return m, nil
		case formPassword:
			m.form.Hide()
			m.form.SetSecret(false)
			user := m.pendingUser
			m.pendingUser = ""
			return m, m.dispatch(store.SaveCredentials{Username: user, Password: value})
		case formCookies:
			m.form.Hide()
			return m, tea.Batch(
				m.dispatch(store.SetCookiesFile{Path: value}),
				m.dispatch(store.UpdateCookies{}),
			)
		}
	case components.FormCancelled:
		m.pendingUser = ""
		m.form.SetSecret(false)
	}
	return m, cmd
}

func (m *Model) startFilter(current string) tea.Cmd {
	m.filtering = true
	m.filter.SetValue(current)
	m.filter.CursorEnd()
	return m.filter.Focus()
}

// updateFilter edits the filter line. Media filter live on the client;
// album search goes to the server on enter.
func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	albums := m.snap.Main.View == store.ViewAlbums

	switch msg.String() {
	case "enter":
		m.filtering = false
		m.filter.Blur()
		if albums {
			m.albumList.Top()
			return m, m.dispatch(store.SetAlbumSearch{Query: m.filter.Value()})
		}
		return m, nil
	case "esc":
		m.filtering = false
		m.filter.Blur()
		if albums {
			return m, nil
		}
		return m, m.dispatch(store.SetMediaFilter{})
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if !albums {
		m.mediaList.Top()
		return m, tea.Batch(cmd, m.dispatch(store.SetMediaFilter{Text: m.filter.Value()}))
	}
	return m, cmd
}

func (m *Model) confirmDelete(view store.View, ids []string) {
	m.State = StateConfirmDelete
	m.deleteView = view
	m.pendingDelete = ids
}
