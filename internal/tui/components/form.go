package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/mediabox/internal/tui/styles"
)

// FormEvent is what a keypress did to a form
type FormEvent int

const (
	FormNone FormEvent = iota
	FormChanged
	FormSubmitted
	FormCancelled
)

// Form is a single-field text input modal. It only echoes keystrokes; the
// authoritative draft and its errors live in the store and are passed back
// in through View.
type Form struct {
	visible bool
	title   string
	input   textinput.Model
}

// NewForm creates a hidden form
func NewForm() Form {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 40
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return Form{input: ti}
}

// Show displays the form with an initial value
func (f *Form) Show(title, placeholder, value string) {
	f.visible = true
	f.title = title
	f.input.Placeholder = placeholder
	f.input.SetValue(value)
	f.input.CursorEnd()
	f.input.Focus()
}

// SetSecret masks the input, for passwords
func (f *Form) SetSecret(secret bool) {
	if secret {
		f.input.EchoMode = textinput.EchoPassword
	} else {
		f.input.EchoMode = textinput.EchoNormal
	}
}

// Hide dismisses the form
func (f *Form) Hide() {
	f.visible = false
	f.input.Blur()
}

func (f Form) IsVisible() bool {
	return f.visible
}

func (f Form) Value() string {
	return f.input.Value()
}

// Update handles input events
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd, FormEvent) {
	if !f.visible {
		return f, nil, FormNone
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return f, nil, FormSubmitted
		case "esc":
			f.Hide()
			return f, nil, FormCancelled
		}
	}

	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if f.input.Value() != before {
		return f, cmd, FormChanged
	}
	return f, cmd, FormNone
}

// View renders the form with the validation or remote error, if any
func (f Form) View(errText string, busy bool) string {
	if !f.visible {
		return ""
	}

	const modalWidth = 44

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.White).
		Bold(true).
		Width(modalWidth).
		Background(styles.SlateDark)

	lineStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Background(styles.SlateDark)

	status := styles.DimStyle.Render("enter save · esc cancel")
	switch {
	case busy:
		status = styles.DimStyle.Render("Saving...")
	case errText != "":
		status = styles.ErrorStyle.Render(errText)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(f.title),
		lineStyle.Render(""),
		lineStyle.Render(f.input.View()),
		lineStyle.Render(""),
		lineStyle.Render(status),
	)

	border := styles.Amber
	if errText != "" {
		border = styles.Red
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Background(styles.SlateDark).
		Padding(1, 2).
		Render(content)
}
