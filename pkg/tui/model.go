// Package tui is the full-screen journal client built on Bubble Tea.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/journal/pkg/admin"
	"tableflip.dev/journal/pkg/api"
	"tableflip.dev/journal/pkg/editor"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/logging"
	"tableflip.dev/journal/pkg/session"
	"tableflip.dev/journal/pkg/tui/theme"
	"tableflip.dev/journal/pkg/weather"
)

// AppName is shown at the left of the header.
const AppName = "Journal"

// Tab selects the main pane.
type Tab int

const (
	TabJournals Tab = iota
	TabSettings
)

func (t Tab) String() string {
	if t == TabSettings {
		return "Settings"
	}
	return "Journals"
}

type field int

const (
	fieldTitle field = iota
	fieldContent
	fieldMood
	fieldCount
)

type adminField int

const (
	adminUserName adminField = iota
	adminEmail
	adminPassword
	adminSentiment
	adminFieldCount
)

// Config wires the model to the journal, session and auxiliary services.
// Weather and Admin are optional.
type Config struct {
	Journal  *journal.Synchronizer
	Session  *session.Store
	Weather  weather.Source
	Location string
	Admin    *admin.Panel
	Logger   logging.Logger
	Theme    *theme.Theme
}

// Model is the Bubble Tea model for the journal UI.
type Model struct {
	ctx     context.Context
	journal *journal.Synchronizer
	session *session.Store
	editor  *editor.Editor
	panel   *admin.Panel
	wsrc    weather.Source
	loc     string
	log     logging.Logger
	theme   theme.Theme

	width, height int
	tab           Tab

	entries []entry.Entry
	cursor  int
	loading bool
	banner  string
	status  string
	spinner spinner.Model

	confirmDelete *entry.Entry
	deleting      bool

	title   textinput.Model
	content textarea.Model
	focus   field

	weatherText string

	users        []api.User
	usersErr     string
	usersLoaded  bool
	creating     bool
	adminInputs  []textinput.Model
	adminFocus   adminField
	adminMood    bool
	adminPending bool
	adminMsg     string

	expired   bool
	loggedOut bool
}

// New builds the model. ctx bounds every request issued by the UI.
func New(ctx context.Context, cfg Config) *Model {
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}
	th := theme.Default()
	if cfg.Theme != nil {
		th = *cfg.Theme
	}

	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 200

	content := textarea.New()
	content.Placeholder = "What's on your mind?"
	content.ShowLineNumbers = false
	content.SetHeight(6)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctx:         ctx,
		journal:     cfg.Journal,
		session:     cfg.Session,
		panel:       cfg.Admin,
		wsrc:        cfg.Weather,
		loc:         cfg.Location,
		log:         log.With("component", "tui"),
		theme:       th,
		title:       title,
		content:     content,
		spinner:     sp,
		weatherText: weather.LoadingText,
		adminInputs: newAdminInputs(),
	}
	m.editor = editor.New(cfg.Journal, editor.Options{Logger: log})
	return m
}

func newAdminInputs() []textinput.Model {
	inputs := make([]textinput.Model, adminSentiment)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 120
		switch adminField(i) {
		case adminUserName:
			ti.Placeholder = "Username"
		case adminEmail:
			ti.Placeholder = "Email"
		case adminPassword:
			ti.Placeholder = "Password"
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		inputs[i] = ti
	}
	return inputs
}

// Init starts the first list load, the weather fetch and the spinner.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	cmds := []tea.Cmd{m.spinner.Tick, listEntries(m.ctx, m.journal)}
	if m.wsrc != nil {
		cmds = append(cmds, fetchWeather(m.ctx, m.wsrc, m.loc))
	} else {
		m.weatherText = ""
	}
	return tea.Batch(cmds...)
}

// Expired reports whether the UI quit because the session was rejected.
func (m *Model) Expired() bool { return m.expired }

// LoggedOut reports whether the user logged out from the UI.
func (m *Model) LoggedOut() bool { return m.loggedOut }

// Editor exposes the entry editor driving the form overlay.
func (m *Model) Editor() *editor.Editor { return m.editor }

func (m *Model) selected() (entry.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return entry.Entry{}, false
	}
	return m.entries[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) editing() bool {
	return !editor.IsBrowsing(m.editor.Mode())
}

func (m *Model) isAdmin() bool {
	return m.panel != nil && m.panel.Allowed()
}

func (m *Model) greeting() string {
	if m.session == nil {
		return ""
	}
	cur, ok := m.session.Current()
	if !ok {
		return ""
	}
	return "Hi, " + cur.User.DisplayName()
}
