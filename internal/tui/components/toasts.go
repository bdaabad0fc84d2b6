package components

import (
	"strings"

	"github.com/mmcdole/mediabox/internal/notify"
	"github.com/mmcdole/mediabox/internal/tui/styles"
)

// MaxToasts is how many notifications are drawn at once; older ones wait.
const MaxToasts = 3

// RenderToasts renders the newest notifications, one per line.
func RenderToasts(items []notify.Notification, width int) string {
	if len(items) == 0 {
		return ""
	}
	if len(items) > MaxToasts {
		items = items[len(items)-MaxToasts:]
	}

	lines := make([]string, 0, len(items))
	for _, n := range items {
		lines = append(lines, renderToast(n, width))
	}
	return strings.Join(lines, "\n")
}

func renderToast(n notify.Notification, width int) string {
	badge := styles.BadgeStyle.Render("ok")
	text := styles.SuccessStyle
	switch n.Kind {
	case notify.KindError:
		badge = styles.ErrorBadgeStyle.Render("error")
		text = styles.ErrorStyle
	case notify.KindInfo:
		badge = styles.BadgeStyle.Render("info")
		text = styles.InfoStyle
	}
	return badge + " " + text.Render(styles.Truncate(n.Content, width-10))
}

// RenderModal renders a blocking message box
func RenderModal(m notify.Modal) string {
	style := styles.ModalStyle
	if m.Kind == notify.KindError {
		style = styles.ErrorModalStyle
	}
	body := styles.ModalTitleStyle.Render(m.Header) + "\n" +
		m.Message + "\n\n" +
		styles.DimStyle.Render("press enter to close")
	return style.Render(body)
}
