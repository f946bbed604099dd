package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/journal/pkg/admin"
	"tableflip.dev/journal/pkg/api"
	"tableflip.dev/journal/pkg/editor"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/weather"
)

const (
	loadFailedText   = "Failed to load entries"
	deleteFailedText = "Failed to delete entry"
	usersFailedText  = "Failed to load users"
)

// Update handles data messages from actions and key presses.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case entriesMsg:
		m.loading = false
		if msg.err != nil {
			if m.unauthorized(msg.err) {
				return m, tea.Quit
			}
			m.banner = api.Message(msg.err, loadFailedText)
			m.entries = m.journal.Entries()
		} else {
			m.banner = ""
			m.entries = msg.entries
		}
		m.clampCursor()
		return m, nil

	case savedMsg:
		return m.saved(msg)

	case deletedMsg:
		m.deleting = false
		m.entries = m.journal.Entries()
		m.clampCursor()
		if msg.err != nil {
			if m.unauthorized(msg.err) {
				return m, tea.Quit
			}
			m.banner = api.Message(msg.err, deleteFailedText)
			return m, nil
		}
		m.status = "Deleted"
		return m, nil

	case weatherMsg:
		if msg.err != nil {
			m.weatherText = weather.ErrorText(msg.err)
		} else {
			m.weatherText = msg.summary.Line()
		}
		return m, nil

	case usersMsg:
		m.usersLoaded = true
		if msg.err != nil {
			if m.unauthorized(msg.err) {
				return m, tea.Quit
			}
			m.usersErr = api.Message(msg.err, usersFailedText)
			return m, nil
		}
		m.usersErr = ""
		m.users = msg.users
		return m, nil

	case adminCreatedMsg:
		m.adminPending = false
		m.adminMsg = admin.ResultText(msg.err)
		if msg.err != nil {
			if m.unauthorized(msg.err) {
				return m, tea.Quit
			}
			return m, nil
		}
		m.closeAdminForm()
		return m, listUsers(m.ctx, m.panel)

	case sessionEndedMsg:
		if m.loggedOut || m.expired {
			return m, nil
		}
		m.expired = true
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.updateFocused(msg)
}

func (m *Model) saved(msg savedMsg) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(msg.err, editor.ErrStale),
		errors.Is(msg.err, editor.ErrSubmitting),
		errors.Is(msg.err, editor.ErrClosed),
		errors.Is(msg.err, editor.ErrBlocked):
		return m, nil
	case msg.err != nil:
		if m.unauthorized(msg.err) {
			return m, tea.Quit
		}
		return m, nil
	}
	m.blurEditor()
	m.entries = m.journal.Entries()
	for i, e := range m.entries {
		if e.ID == msg.entry.ID {
			m.cursor = i
			break
		}
	}
	m.clampCursor()
	m.status = "Saved"
	return m, nil
}

// unauthorized ends the session when err is an authorization failure.
func (m *Model) unauthorized(err error) bool {
	if !api.IsUnauthorized(err) {
		return false
	}
	m.expired = true
	if m.session != nil {
		m.session.Invalidate(m.ctx, err)
	}
	return true
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch {
	case m.editing():
		return m.editorKey(msg)
	case m.confirmDelete != nil:
		return m.confirmKey(msg)
	case m.tab == TabSettings && m.creating:
		return m.adminKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "L":
		m.loggedOut = true
		if m.session != nil {
			if err := m.session.Logout(); err != nil {
				m.log.Warn(m.ctx, "logout", "error", err)
			}
		}
		return m, tea.Quit
	case "tab":
		if m.tab == TabJournals {
			return m, m.switchTab(TabSettings)
		}
		return m, m.switchTab(TabJournals)
	case "1":
		return m, m.switchTab(TabJournals)
	case "2":
		return m, m.switchTab(TabSettings)
	}

	if m.tab == TabSettings {
		return m.settingsKey(msg)
	}
	return m.journalKey(msg)
}

func (m *Model) switchTab(t Tab) tea.Cmd {
	m.tab = t
	m.status = ""
	if t == TabSettings && m.isAdmin() && !m.usersLoaded {
		return listUsers(m.ctx, m.panel)
	}
	return nil
}

func (m *Model) journalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "r":
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.banner = ""
		return m, tea.Batch(m.spinner.Tick, listEntries(m.ctx, m.journal))
	case "n":
		return m, m.openEditor(editor.Creating{}, nil)
	case "e", "enter":
		if e, ok := m.selected(); ok {
			return m, m.openEditor(editor.Editing{ID: e.ID}, &e)
		}
	case "d":
		if m.deleting {
			return m, nil
		}
		if e, ok := m.selected(); ok {
			m.confirmDelete = &e
		}
	}
	return m, nil
}

func (m *Model) confirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := m.confirmDelete.ID
		m.confirmDelete = nil
		m.deleting = true
		m.status = ""
		return m, deleteEntry(m.ctx, m.journal, id)
	case "n", "N", "esc":
		m.confirmDelete = nil
	}
	return m, nil
}

func (m *Model) openEditor(mode editor.Mode, e *entry.Entry) tea.Cmd {
	m.status = ""
	if err := m.editor.Open(m.ctx, mode, e); err != nil {
		m.log.Warn(m.ctx, "open editor", "error", err)
	}
	form := m.editor.Form()
	m.title.SetValue(form.Title)
	m.content.SetValue(form.Content)
	return m.setFocus(fieldTitle)
}

func (m *Model) blurEditor() {
	m.title.Blur()
	m.content.Blur()
	m.title.Reset()
	m.content.Reset()
	m.focus = fieldTitle
}

func (m *Model) setFocus(f field) tea.Cmd {
	m.focus = f
	m.title.Blur()
	m.content.Blur()
	switch f {
	case fieldTitle:
		return m.title.Focus()
	case fieldContent:
		return m.content.Focus()
	}
	return nil
}

func (m *Model) editorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editor.Cancel()
		m.blurEditor()
		return m, nil
	case "ctrl+s":
		if m.editor.Submitting() || m.editor.Blocked() {
			return m, nil
		}
		return m, submitEntry(m.ctx, m.editor)
	case "tab":
		return m, m.setFocus((m.focus + 1) % fieldCount)
	case "shift+tab":
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	}

	switch m.focus {
	case fieldTitle:
		if msg.Type == tea.KeyEnter {
			return m, m.setFocus(fieldContent)
		}
	case fieldMood:
		switch msg.String() {
		case "left", "right", "h", "l", " ":
			m.editor.CycleSentiment()
		}
		return m, nil
	}
	return m, m.updateFocused(msg)
}

// updateFocused forwards msg to whichever input has focus and copies its
// value into the form it backs.
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.editing():
		switch m.focus {
		case fieldTitle:
			m.title, cmd = m.title.Update(msg)
			m.editor.SetTitle(m.title.Value())
		case fieldContent:
			m.content, cmd = m.content.Update(msg)
			m.editor.SetContent(m.content.Value())
		}
	case m.creating && m.adminFocus < adminSentiment:
		m.adminInputs[m.adminFocus], cmd = m.adminInputs[m.adminFocus].Update(msg)
	}
	return cmd
}

func (m *Model) settingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.isAdmin() {
		return m, nil
	}
	switch msg.String() {
	case "c":
		m.creating = true
		m.adminMsg = ""
		return m, m.setAdminFocus(adminUserName)
	case "r":
		return m, listUsers(m.ctx, m.panel)
	}
	return m, nil
}

func (m *Model) setAdminFocus(f adminField) tea.Cmd {
	m.adminFocus = f
	var cmd tea.Cmd
	for i := range m.adminInputs {
		if adminField(i) == f {
			cmd = m.adminInputs[i].Focus()
			continue
		}
		m.adminInputs[i].Blur()
	}
	return cmd
}

func (m *Model) closeAdminForm() {
	m.creating = false
	m.adminMood = false
	for i := range m.adminInputs {
		m.adminInputs[i].Reset()
		m.adminInputs[i].Blur()
	}
	m.adminFocus = adminUserName
}

func (m *Model) adminKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeAdminForm()
		return m, nil
	case "ctrl+s":
		if m.adminPending {
			return m, nil
		}
		m.adminPending = true
		m.adminMsg = ""
		return m, createAdmin(m.ctx, m.panel, m.newUser())
	case "tab", "down":
		return m, m.setAdminFocus((m.adminFocus + 1) % adminFieldCount)
	case "shift+tab", "up":
		return m, m.setAdminFocus((m.adminFocus + adminFieldCount - 1) % adminFieldCount)
	}
	if m.adminFocus == adminSentiment {
		if msg.String() == " " || msg.Type == tea.KeyEnter {
			m.adminMood = !m.adminMood
		}
		return m, nil
	}
	return m, m.updateFocused(msg)
}

func (m *Model) newUser() api.NewUser {
	return api.NewUser{
		UserName:          m.adminInputs[adminUserName].Value(),
		Email:             m.adminInputs[adminEmail].Value(),
		Password:          m.adminInputs[adminPassword].Value(),
		SentimentAnalysis: m.adminMood,
	}
}

func (m *Model) resize() {
	w := m.width - 8
	if w < 20 {
		w = 20
	}
	m.title.Width = w
	m.content.SetWidth(w)
	for i := range m.adminInputs {
		m.adminInputs[i].Width = w
	}
}
