package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/journal/pkg/admin"
	"tableflip.dev/journal/pkg/api"
	"tableflip.dev/journal/pkg/editor"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/weather"
)

type entriesMsg struct {
	entries []entry.Entry
	err     error
}

type savedMsg struct {
	entry entry.Entry
	err   error
}

type deletedMsg struct {
	id  string
	err error
}

type weatherMsg struct {
	summary weather.Summary
	err     error
}

type usersMsg struct {
	users []api.User
	err   error
}

type adminCreatedMsg struct {
	err error
}

// Load the collection from the backend.
func listEntries(ctx context.Context, j *journal.Synchronizer) tea.Cmd {
	return func() tea.Msg {
		entries, err := j.List(ctx)
		return entriesMsg{entries: entries, err: err}
	}
}

// Submit the editor form.
func submitEntry(ctx context.Context, ed *editor.Editor) tea.Cmd {
	return func() tea.Msg {
		e, err := ed.Submit(ctx)
		return savedMsg{entry: e, err: err}
	}
}

// Delete a confirmed entry. The synchronizer removes it locally first.
func deleteEntry(ctx context.Context, j *journal.Synchronizer, id string) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{id: id, err: j.Delete(ctx, id, journal.Always)}
	}
}

func fetchWeather(ctx context.Context, src weather.Source, loc string) tea.Cmd {
	return func() tea.Msg {
		s, err := weather.Fetch(ctx, src, loc)
		return weatherMsg{summary: s, err: err}
	}
}

func listUsers(ctx context.Context, p *admin.Panel) tea.Cmd {
	return func() tea.Msg {
		users, err := p.Users(ctx)
		return usersMsg{users: users, err: err}
	}
}

func createAdmin(ctx context.Context, p *admin.Panel, u api.NewUser) tea.Cmd {
	return func() tea.Msg {
		return adminCreatedMsg{err: p.CreateAdmin(ctx, u)}
	}
}

type sessionEndedMsg struct{}

// SessionEnded tells a running model that the session was removed outside
// the UI, e.g. by `journal logout` in another terminal.
func SessionEnded() tea.Msg { return sessionEndedMsg{} }
