package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/mediabox/internal/tui/styles"
)

// Row is one rendered line of a list.
type Row struct {
	ID     string
	Text   string
	Detail string

	// Matches are byte offsets into Text to highlight
	Matches []int

	// Marked rows are part of the selection
	Marked bool
}

// List is a scrollable cursor over rows it does not own. Rows are passed to
// View on every render so the list always reflects the latest snapshot.
type List struct {
	cursor int
	offset int

	width  int
	height int

	// Select mode shows checkboxes
	selectMode bool
}

// NewList creates an empty list
func NewList() List {
	return List{}
}

func (l *List) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.ensureVisible()
}

func (l *List) SetSelectMode(on bool) {
	l.selectMode = on
}

// Cursor returns the cursor index
func (l List) Cursor() int {
	return l.cursor
}

func (l *List) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
	}
	l.ensureVisible()
}

func (l *List) MoveDown(n int) {
	if l.cursor < n-1 {
		l.cursor++
	}
	l.ensureVisible()
}

func (l *List) PageDown(n int) {
	l.cursor = min(l.cursor+max(l.height, 1), max(n-1, 0))
	l.ensureVisible()
}

func (l *List) PageUp() {
	l.cursor = max(l.cursor-max(l.height, 1), 0)
	l.ensureVisible()
}

func (l *List) Top() {
	l.cursor = 0
	l.offset = 0
}

func (l *List) Bottom(n int) {
	l.cursor = max(n-1, 0)
	l.ensureVisible()
}

// Clamp keeps the cursor inside a list that shrank
func (l *List) Clamp(n int) {
	if l.cursor >= n {
		l.cursor = max(n-1, 0)
	}
	l.ensureVisible()
}

// NearEnd reports whether the cursor is within threshold rows of the end
// of n rows.
func (l List) NearEnd(n, threshold int) bool {
	return n > 0 && l.cursor >= n-1-threshold
}

func (l *List) ensureVisible() {
	if l.height <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.height {
		l.offset = l.cursor - l.height + 1
	}
}

// View renders the visible window of rows. footer is shown after the last
// row when the list is scrolled to the end.
func (l List) View(rows []Row, footer string) string {
	if l.height <= 0 {
		return ""
	}

	var lines []string
	end := min(l.offset+l.height, len(rows))
	for i := l.offset; i < end; i++ {
		lines = append(lines, l.renderRow(rows[i], i == l.cursor))
	}
	if footer != "" && end == len(rows) && len(lines) < l.height {
		lines = append(lines, " "+footer)
	}
	for len(lines) < l.height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (l List) renderRow(r Row, atCursor bool) string {
	base, hl := styles.NormalItemStyle, styles.MatchHighlightStyle
	if atCursor {
		base, hl = styles.CursorItemStyle, styles.MatchHighlightCursorStyle
	}

	prefix := "  "
	if l.selectMode {
		prefix = "[ ] "
		if r.Marked {
			prefix = "[x] "
		}
	}
	prefixStyle := base
	if r.Marked {
		prefixStyle = styles.MarkedStyle
		if atCursor {
			prefixStyle = prefixStyle.Background(styles.SlateLight)
		}
	}

	detail := ""
	if r.Detail != "" {
		detail = "  " + r.Detail
	}
	textWidth := l.width - lipgloss.Width(prefix) - lipgloss.Width(detail) - 1
	text := styles.Truncate(r.Text, textWidth)

	line := prefixStyle.Render(prefix) + styles.Highlight(text, r.Matches, base, hl)
	if detail != "" {
		detailStyle := styles.DimStyle
		if atCursor {
			detailStyle = detailStyle.Background(styles.SlateLight)
		}
		line += detailStyle.Render(detail)
	}

	if pad := l.width - lipgloss.Width(line); pad > 0 {
		line += base.Render(strings.Repeat(" ", pad))
	}
	return line
}
