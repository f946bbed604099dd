package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/journal/pkg/admin"
	"tableflip.dev/journal/pkg/editor"
)

const (
	emptyText   = "No entries yet, press n to write one."
	loadingText = "Loading entries..."
)

// View renders the header, the active tab and the help line.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	switch {
	case m.editing():
		b.WriteString(m.editorView())
	case m.tab == TabSettings:
		b.WriteString(m.settingsView())
	default:
		b.WriteString(m.journalView())
	}

	b.WriteString("\n\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m *Model) header() string {
	h := m.theme.Header
	parts := []string{h.App.Render(AppName)}
	for _, t := range []Tab{TabJournals, TabSettings} {
		style := h.Tab
		if t == m.tab {
			style = h.ActiveTab
		}
		parts = append(parts, style.Render(t.String()))
	}
	if m.weatherText != "" {
		parts = append(parts, h.Weather.Render(m.weatherText))
	}
	if g := m.greeting(); g != "" {
		parts = append(parts, h.Greeting.Render(g))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) journalView() string {
	var b strings.Builder
	if m.banner != "" {
		b.WriteString(m.theme.Header.Banner.Render(m.banner))
		b.WriteString(" ")
		b.WriteString(m.theme.Header.BannerHint.Render("press r to retry"))
		b.WriteString("\n\n")
	}
	if m.confirmDelete != nil {
		b.WriteString(m.confirmView())
		b.WriteString("\n\n")
	}

	switch {
	case m.loading && len(m.entries) == 0:
		b.WriteString(m.spinner.View() + " " + loadingText)
		return b.String()
	case len(m.entries) == 0:
		b.WriteString(m.theme.Panel.Faint.Render(emptyText))
		return b.String()
	}

	width := m.width
	if width <= 0 {
		width = 80
	}
	lt := m.theme.List
	for i, e := range m.entries {
		marker := "  "
		style := lt.Normal
		if i == m.cursor {
			marker = "> "
			style = lt.Selected
		}
		line := fmt.Sprintf("%s%s %s  %s", marker, e.Sentiment.Emoji(), lt.Date.Render(fmt.Sprintf("%-20s", e.Date.String())), style.Render(e.Title))
		if preview := e.Preview(60); preview != "" {
			line += " " + lt.Preview.Render("- "+preview)
		}
		b.WriteString(truncate.StringWithTail(line, uint(width), "…"))
		b.WriteString("\n")
	}
	if m.loading || m.deleting {
		b.WriteString(m.spinner.View())
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) confirmView() string {
	md := m.theme.Modal
	title := m.confirmDelete.Title
	if title == "" {
		title = m.confirmDelete.ID
	}
	body := md.Title.Render("Delete entry") + "\n" +
		fmt.Sprintf("Delete %q? This cannot be undone.", title) + "\n" +
		md.Label.Render("y to delete, n to keep")
	return md.Frame.Render(body)
}

func (m *Model) editorView() string {
	md := m.theme.Modal
	form := m.editor.Form()

	heading := "New entry"
	if _, ok := editor.EditingID(m.editor.Mode()); ok {
		heading = "Edit entry"
	}

	label := func(f field, text string) string {
		if m.focus == f {
			return md.Focused.Render(text)
		}
		return md.Label.Render(text)
	}

	var b strings.Builder
	b.WriteString(md.Title.Render(heading))
	b.WriteString("\n\n")
	b.WriteString(label(fieldTitle, "Title"))
	b.WriteString("\n")
	b.WriteString(m.title.View())
	b.WriteString("\n\n")
	b.WriteString(label(fieldContent, "Content"))
	b.WriteString("\n")
	b.WriteString(m.content.View())
	b.WriteString("\n\n")
	b.WriteString(label(fieldMood, "Mood"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s", form.Sentiment.Emoji(), form.Sentiment.Label()))
	b.WriteString("\n\n")

	if msg := m.editor.ErrorMessage(); msg != "" {
		b.WriteString(md.Error.Render(msg))
		b.WriteString("\n\n")
	}

	switch {
	case m.editor.Submitting():
		b.WriteString(md.Disabled.Render("Saving..."))
	case m.editor.CanSubmit():
		b.WriteString(md.Button.Render("Save"))
	default:
		b.WriteString(md.Disabled.Render("Save"))
	}
	return md.Frame.Render(b.String())
}

func (m *Model) settingsView() string {
	pt := m.theme.Panel
	if !m.isAdmin() {
		return pt.Frame.Render(pt.Faint.Render(admin.NoticeText))
	}

	var b strings.Builder
	b.WriteString(pt.Title.Render("Users"))
	b.WriteString("\n")
	switch {
	case m.usersErr != "":
		b.WriteString(m.theme.Modal.Error.Render(m.usersErr))
	case !m.usersLoaded:
		b.WriteString(m.spinner.View() + " Loading users...")
	default:
		table := uitable.New()
		table.MaxColWidth = 40
		table.AddRow("USER", "EMAIL", "ROLES")
		for _, u := range m.users {
			table.AddRow(u.UserName, u.Email, strings.Join(u.Roles, ","))
		}
		b.WriteString(table.String())
	}
	b.WriteString("\n\n")

	if m.creating {
		b.WriteString(m.adminFormView())
	}
	if m.adminMsg != "" {
		b.WriteString("\n")
		b.WriteString(pt.Body.Render(m.adminMsg))
	}
	return pt.Frame.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) adminFormView() string {
	md := m.theme.Modal
	var b strings.Builder
	b.WriteString(md.Title.Render("Create admin"))
	b.WriteString("\n")
	for i := range m.adminInputs {
		b.WriteString(m.adminInputs[i].View())
		b.WriteString("\n")
	}
	check := "[ ]"
	if m.adminMood {
		check = "[x]"
	}
	opt := check + " Sentiment analysis"
	if m.adminFocus == adminSentiment {
		opt = md.Focused.Render(opt)
	}
	b.WriteString(opt)
	b.WriteString("\n")
	if m.adminPending {
		b.WriteString(md.Disabled.Render("Creating..."))
	} else {
		b.WriteString(md.Button.Render("Create"))
	}
	return b.String()
}

func (m *Model) footer() string {
	var help string
	switch {
	case m.editing():
		help = "tab next field • ←/→ mood • ctrl+s save • esc cancel"
	case m.confirmDelete != nil:
		help = "y delete • n keep"
	case m.tab == TabSettings && m.creating:
		help = "tab next field • space toggle • ctrl+s create • esc close"
	case m.tab == TabSettings:
		help = "c create admin • r reload • tab journals • L logout • q quit"
	default:
		help = "↑/↓ move • n new • e edit • d delete • r retry • tab settings • L logout • q quit"
	}
	out := m.theme.Footer.Help.Render(help)
	if m.status != "" {
		out = lipgloss.JoinHorizontal(lipgloss.Top, m.theme.Footer.Status.Render(m.status+"  "), out)
	}
	return out
}
