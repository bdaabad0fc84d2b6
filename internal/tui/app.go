package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/mediabox/internal/dialog"
	"github.com/mmcdole/mediabox/internal/notify"
	"github.com/mmcdole/mediabox/internal/store"
	"github.com/mmcdole/mediabox/internal/tui/components"
	"github.com/mmcdole/mediabox/internal/tui/styles"
)

// ApplicationState is the screen-level interaction state
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
	StateConfirmDelete
	StateConfirmLogout
)

// formPurpose says what a submitted form feeds
type formPurpose int

const (
	formDialog formPurpose = iota
	formUsername
	formPassword
	formCookies
)

// loadMoreThreshold is how close to the end the cursor must be before the
// next page is requested.
const loadMoreThreshold = 5

// ChromeHeight is the header plus the footer line
const ChromeHeight = 2

// Model is the main Bubble Tea model for the application. It holds no
// domain state of its own: everything it renders comes from the latest store
// snapshot, and every change goes through store.Dispatch.
type Model struct {
	State ApplicationState
	Ready bool

	store  *store.Store
	snap   store.State
	logger *slog.Logger

	// UI components
	mediaList components.List
	albumList components.List
	form      components.Form
	filter    textinput.Model
	spinner   spinner.Model

	formPurpose formPurpose
	formKind    dialog.Kind
	pendingUser string

	filtering     bool
	pendingDelete []string
	deleteView    store.View

	// Notifications with an expiry already scheduled
	scheduled map[string]bool

	Width  int
	Height int
}

// NewModel creates a new application model
func NewModel(s *store.Store, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	fi := textinput.New()
	fi.Prompt = "/"
	fi.PromptStyle = styles.AccentStyle
	fi.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.SpinnerStyle

	return Model{
		State:     StateBrowsing,
		store:     s,
		snap:      s.Snapshot(),
		logger:    logger,
		mediaList: components.NewList(),
		albumList: components.NewList(),
		form:      components.NewForm(),
		filter:    fi,
		spinner:   sp,
		scheduled: make(map[string]bool),
	}
}

// Init checks the session and loads both collections
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.store.Dispatch(store.Ping{}),
		m.store.Dispatch(store.QueryMedia{}),
		m.store.Dispatch(store.QueryAlbums{}),
		m.spinner.Tick,
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.snap = m.store.Snapshot()
		m.updateLayout()
		return m, m.maybeLoadMore()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case clipboardMsg:
		if msg.Err != nil {
			m.logger.Error("failed to read clipboard", "error", msg.Err)
			return m, m.dispatch(store.AddNotification{Content: store.MsgNoClipboardURL, Kind: notify.KindError})
		}
		return m, m.dispatch(store.AddMedia{URL: msg.Text})

	case expireMsg:
		delete(m.scheduled, msg.ID)
		return m, m.dispatch(store.DismissNotification{ID: msg.ID})
	}

	// Everything else belongs to the store: operation results, lifecycle
	// messages and follow-up intents.
	return m, m.dispatch(msg)
}

// dispatch sends msg to the store and refreshes the snapshot
func (m *Model) dispatch(msg tea.Msg) tea.Cmd {
	cmd := m.store.Dispatch(msg)
	m.snap = m.store.Snapshot()
	return tea.Batch(cmd, m.sync())
}

// sync reconciles local UI state with a fresh snapshot
func (m *Model) sync() tea.Cmd {
	if m.form.IsVisible() && m.formPurpose == formDialog && !m.snap.Dialog(m.formKind).Open {
		m.form.Hide()
	}

	m.updateLayout()
	m.mediaList.SetSelectMode(m.snap.Media.Mode == store.ModeSelect)
	m.albumList.SetSelectMode(m.snap.Albums.Mode == store.ModeSelect)
	m.mediaList.Clamp(len(m.snap.VisibleMedia()))
	m.albumList.Clamp(len(m.snap.VisibleAlbums()))

	var cmds []tea.Cmd
	for _, n := range m.snap.Notifications {
		if n.Kind == notify.KindError || m.scheduled[n.ID] {
			continue
		}
		m.scheduled[n.ID] = true
		cmds = append(cmds, ExpireCmd(n.ID, notificationTTL))
	}
	return tea.Batch(cmds...)
}

func (m *Model) updateLayout() {
	height := m.Height - ChromeHeight - min(len(m.snap.Notifications), components.MaxToasts)
	m.mediaList.SetSize(m.Width, max(height, 1))
	m.albumList.SetSize(m.Width, max(height, 1))
}

// activeList returns the list of the current view and its length
func (m *Model) activeList() (*components.List, int) {
	switch m.snap.Main.View {
	case store.ViewMedia:
		return &m.mediaList, len(m.snap.VisibleMedia())
	case store.ViewAlbums:
		return &m.albumList, len(m.snap.VisibleAlbums())
	}
	return nil, 0
}

// maybeLoadMore requests the next page when the cursor is close to the end.
// The store ignores the request while a load is already running or the
// collection is exhausted.
func (m *Model) maybeLoadMore() tea.Cmd {
	l, n := m.activeList()
	if l == nil || !l.NearEnd(n, loadMoreThreshold) {
		return nil
	}
	switch m.snap.Main.View {
	case store.ViewMedia:
		if m.snap.Media.Collection.Filter() != "" {
			return nil
		}
		return m.dispatch(store.QueryMoreMedia{})
	case store.ViewAlbums:
		return m.dispatch(store.QueryMoreAlbums{})
	}
	return nil
}

// cursorMedia returns the id under the media cursor
func (m Model) cursorMedia() (string, bool) {
	visible := m.snap.VisibleMedia()
	i := m.mediaList.Cursor()
	if i >= len(visible) {
		return "", false
	}
	return visible[i].Item.ID, true
}

func (m Model) cursorAlbum() (int, bool) {
	i := m.albumList.Cursor()
	return i, i < len(m.snap.VisibleAlbums())
}

// View renders the screen
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	switch m.State {
	case StateHelp:
		return m.renderHelp()
	case StateConfirmDelete:
		return m.renderDeleteConfirmation()
	case StateConfirmLogout:
		return m.renderLogoutConfirmation()
	}

	if m.snap.Main.Modal.Visible {
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center,
			components.RenderModal(m.snap.Main.Modal))
	}
	if m.form.IsVisible() {
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center,
			m.renderForm())
	}

	var body string
	switch m.snap.Main.View {
	case store.ViewAlbums:
		body = m.renderAlbums()
	case store.ViewSettings:
		body = m.renderSettings()
	default:
		body = m.renderMedia()
	}

	parts := []string{m.renderHeader(), body}
	if toasts := components.RenderToasts(m.snap.Notifications, m.Width); toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
