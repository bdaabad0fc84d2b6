package tui

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// notificationTTL is how long success and info notifications stay up.
// Errors stay until dismissed.
const notificationTTL = 4 * time.Second

// clipboardMsg carries the clipboard contents
type clipboardMsg struct {
	Text string
	Err  error
}

// expireMsg dismisses a notification whose time is up
type expireMsg struct {
	ID string
}

// ReadClipboardCmd reads the system clipboard
func ReadClipboardCmd() tea.Cmd {
	return func() tea.Msg {
		text, err := clipboard.ReadAll()
		return clipboardMsg{Text: strings.TrimSpace(text), Err: err}
	}
}

// ExpireCmd returns a command that dismisses a notification after a delay
func ExpireCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return expireMsg{ID: id}
	})
}
