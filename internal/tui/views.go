package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/mediabox/internal/dialog"
	"github.com/mmcdole/mediabox/internal/search"
	"github.com/mmcdole/mediabox/internal/status"
	"github.com/mmcdole/mediabox/internal/store"
	"github.com/mmcdole/mediabox/internal/tui/components"
	"github.com/mmcdole/mediabox/internal/tui/styles"
)

func (m Model) renderHeader() string {
	var tabs []string
	for _, v := range views {
		label := strings.ToUpper(string(v[:1])) + string(v[1:])
		if v == m.snap.Main.View {
			tabs = append(tabs, styles.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(label))
		}
	}
	left := strings.Join(tabs, "")

	var right []string
	if n := m.snap.AddingCount(); n > 0 {
		right = append(right, m.spinner.View()+styles.DimStyle.Render(fmt.Sprintf(" adding %d", n)))
	}
	if m.snap.Main.ToolsOpen {
		right = append(right, styles.AccentStyle.Render("tools"))
	}
	switch {
	case m.snap.Unauthorized():
		right = append(right, styles.ErrorBadgeStyle.Render("unauthorized"))
	case m.snap.Main.Username != "":
		right = append(right, styles.DimStyle.Render(m.snap.Main.Username))
	}
	r := strings.Join(right, "  ")

	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(r), 1)
	return left + strings.Repeat(" ", gap) + r
}

// listFooter describes what lies past the last row
func (m Model) listFooter(loadingMore, exhausted bool, n int) string {
	switch {
	case loadingMore:
		return m.spinner.View() + styles.DimStyle.Render(" Loading more...")
	case exhausted && n > 0:
		return styles.DimStyle.Render(fmt.Sprintf("%d items, end of list", n))
	}
	return ""
}

func (m Model) renderEmpty(text string) string {
	height := m.Height - ChromeHeight - min(len(m.snap.Notifications), components.MaxToasts)
	return lipgloss.Place(m.Width, max(height, 1), lipgloss.Center, lipgloss.Center, text)
}

func (m Model) renderMedia() string {
	coll := m.snap.Media.Collection
	if m.snap.Busy(store.ViewMedia) && !coll.Loaded() {
		return m.renderEmpty(m.spinner.View() + styles.DimStyle.Render(" Loading media..."))
	}
	if m.snap.Unauthorized() && !coll.Loaded() {
		return m.renderEmpty(styles.ErrorStyle.Render("Not logged in. Press 3 to open settings."))
	}

	visible := m.snap.VisibleMedia()
	if len(visible) == 0 {
		if coll.Filter() != "" {
			return m.renderEmpty(styles.DimStyle.Render("No media matches " + coll.Filter()))
		}
		return m.renderEmpty(styles.DimStyle.Render("No media yet. Press p to add a URL from the clipboard."))
	}

	rows := make([]components.Row, len(visible))
	for i, match := range visible {
		rows[i] = mediaRow(match, coll.IsSelected(match.Item.ID))
	}
	footer := m.listFooter(m.snap.IsPending(store.OpQueryMoreMedia), coll.Exhausted(), coll.Len())
	return m.mediaList.View(rows, footer)
}

func mediaRow(match search.MediaMatch, marked bool) components.Row {
	item := match.Item
	detail := ""
	if n := len(item.AlbumIDs); n > 0 {
		detail = fmt.Sprintf("%d album(s)", n)
	}
	return components.Row{
		ID:      item.ID,
		Text:    item.DisplayTitle(),
		Detail:  detail,
		Matches: match.MatchedIndexes,
		Marked:  marked,
	}
}

func (m Model) renderAlbums() string {
	coll := m.snap.Albums.Collection
	if m.snap.Busy(store.ViewAlbums) && !coll.Loaded() {
		return m.renderEmpty(m.spinner.View() + styles.DimStyle.Render(" Loading albums..."))
	}

	albums := m.snap.VisibleAlbums()
	if len(albums) == 0 {
		if coll.Filter() != "" {
			return m.renderEmpty(styles.DimStyle.Render("No albums match " + coll.Filter()))
		}
		return m.renderEmpty(styles.DimStyle.Render("No albums yet. Press n to create one."))
	}

	query := coll.Filter()
	rows := make([]components.Row, len(albums))
	for i, a := range albums {
		label := a.Label()
		detail := ""
		if a.Locked() {
			detail = "auto"
		}
		rows[i] = components.Row{
			ID:      a.ID,
			Text:    label,
			Detail:  detail,
			Matches: search.LabelMatches(query, label),
			Marked:  coll.IsSelected(a.ID),
		}
	}
	footer := m.listFooter(m.snap.IsPending(store.OpQueryMoreAlbums), coll.Exhausted(), coll.Len())
	return m.albumList.View(rows, footer)
}

func (m Model) renderSettings() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Account") + "\n\n")

	user := m.snap.Main.Username
	if user == "" {
		user = "not set"
	}
	fmt.Fprintf(&b, "  User:     %s\n", user)
	fmt.Fprintf(&b, "  Session:  %s\n", m.sessionStatus())
	fmt.Fprintf(&b, "  Cookies:  %s\n\n", m.cookiesStatus())

	b.WriteString(styles.TitleStyle.Render("Actions") + "\n\n")
	for _, k := range []struct{ key, desc string }{
		{"l", "log in"},
		{"r", "check session"},
		{"c", "upload cookies.txt"},
		{"L", "log out"},
	} {
		b.WriteString("  " + styles.HelpKeyStyle.Render(fmt.Sprintf("%-3s", k.key)) + styles.HelpDescStyle.Render(k.desc) + "\n")
	}

	height := m.Height - ChromeHeight - min(len(m.snap.Notifications), components.MaxToasts)
	return lipgloss.NewStyle().Padding(1, 2).Height(max(height, 1)).Render(b.String())
}

func (m Model) sessionStatus() string {
	if m.snap.StatusOf(store.OpPing) == status.Pending {
		return m.spinner.View() + " checking..."
	}
	auth, known := m.snap.IsAuthenticated()
	switch {
	case !known:
		return styles.DimStyle.Render("unknown")
	case auth:
		return styles.SuccessStyle.Render("authenticated")
	case m.snap.Main.LoginAttempted:
		return styles.ErrorStyle.Render("credentials rejected")
	}
	return styles.ErrorStyle.Render("unauthorized")
}

func (m Model) cookiesStatus() string {
	switch m.snap.StatusOf(store.OpUpdateCookies) {
	case status.Pending:
		return m.spinner.View() + " uploading " + m.snap.Main.NewCookiesPath
	case status.Rejected:
		return styles.ErrorStyle.Render("upload failed")
	case status.Fulfilled:
		return styles.SuccessStyle.Render("updated")
	}
	return styles.DimStyle.Render("unchanged")
}

func (m Model) renderForm() string {
	if m.formPurpose != formDialog {
		return m.form.View("", m.snap.IsPending(store.OpPing))
	}

	draft := m.snap.Dialog(m.formKind)
	errText := draft.Errors[dialogField(m.formKind)]
	if spec, ok := dialog.SpecFor(m.formKind); ok && errText == "" {
		errText = draft.Errors[spec.ErrorKey]
	}

	busy := false
	switch m.formKind {
	case dialog.NewAlbum:
		busy = m.snap.IsPending(store.OpAddAlbum)
	case dialog.RenameAlbum:
		busy = m.snap.IsPending(store.OpRenameAlbum)
	}
	return m.form.View(errText, busy)
}

func (m Model) renderFooter() string {
	if m.filtering {
		return m.filter.View()
	}

	var hints []string
	add := func(k, desc string) {
		hints = append(hints, styles.AccentStyle.Render(k)+styles.DimStyle.Render(" "+desc))
	}
	switch m.snap.Main.View {
	case store.ViewMedia:
		if m.snap.Media.Mode == store.ModeSelect {
			add("space", "mark")
			add("x", "delete")
			add("v", "done")
		} else {
			add("p", "paste")
			add("n", "add")
			add("/", "filter")
			add("v", "select")
		}
	case store.ViewAlbums:
		if m.snap.Albums.Mode == store.ModeSelect {
			add("space", "mark")
			add("x", "delete")
			add("v", "done")
		} else {
			add("n", "new")
			add("e", "rename")
			add("/", "search")
			add("v", "select")
		}
	}
	if len(m.snap.Notifications) > 0 {
		add("d", "dismiss")
	}
	left := strings.Join(hints, "  ")
	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
NAVIGATION                      MEDIA & ALBUMS
  j/k        Up/down               r      Refresh
  g/Home     First item            n      New album / add URL
  G/End      Last item             p      Add URL from clipboard
  PgUp/PgDn  Scroll page           e      Rename album
  tab        Next view             v      Toggle select mode
  1/2/3      Media/albums/settings space  Mark item
                                   x      Delete
OTHER                              /      Filter / search
  d          Dismiss notification
  t          Toggle tools panel
  q          Quit
  ?          This help

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

func (m Model) renderDeleteConfirmation() string {
	what := "media item(s)"
	if m.deleteView == store.ViewAlbums {
		what = "album(s)"
	}
	modal := fmt.Sprintf(`
        Delete %d %s?

  This cannot be undone.

        [Y] Yes      [N] No
`, len(m.pendingDelete), what)

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(modal))
}

// renderLogoutConfirmation renders the logout confirmation modal
func (m Model) renderLogoutConfirmation() string {
	modal := `
              Log Out?

  This will clear your saved credentials
  and every loaded list.

        [Y] Yes      [N] No
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(modal))
}
