package tui

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/ansi"

	"tableflip.dev/journal/pkg/admin"
	"tableflip.dev/journal/pkg/api"
	"tableflip.dev/journal/pkg/api/apitest"
	"tableflip.dev/journal/pkg/editor"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/session"
	"tableflip.dev/journal/pkg/store"
)

type fixture struct {
	srv  *apitest.Server
	sess *session.Store
	m    *Model
}

func newFixture(t *testing.T, roles ...string) *fixture {
	t.Helper()
	srv := apitest.New(t)
	tok := srv.AddUser("ada", "pw", roles...)

	slots, err := store.Load(store.NewConfig(t.TempDir(), srv.URL))
	if err != nil {
		t.Fatalf("slots: %v", err)
	}
	sess := session.New(slots, nil)
	if len(roles) == 0 {
		roles = []string{"USER"}
	}
	if err := sess.Login(tok, api.User{UserName: "ada", Roles: roles}); err != nil {
		t.Fatalf("login: %v", err)
	}
	client, err := api.New(api.Config{BaseURL: srv.URL}, sess, nil)
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	m := New(context.Background(), Config{
		Journal:  journal.New(client, journal.WithUnauthorized(sess.Invalidate)),
		Session:  sess,
		Weather:  client,
		Location: "Mumbai",
		Admin:    admin.NewPanel(client, sess.User()),
	})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return &fixture{srv: srv, sess: sess, m: m}
}

func (f *fixture) load(t *testing.T) {
	t.Helper()
	f.m.Update(listEntries(context.Background(), f.m.journal)())
}

func (f *fixture) view() string {
	return stripANSI(f.m.View())
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyMsg(k))
	}
	return cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestInitialLoadRendersEntries(t *testing.T) {
	f := newFixture(t)
	f.srv.Seed("ada",
		entry.Draft{Title: "Older", Content: "first day", Sentiment: entry.Sad},
		entry.Draft{Title: "Newer", Content: "second day", Sentiment: entry.Happy},
	)
	f.load(t)

	view := f.view()
	for _, want := range []string{AppName, "Journals", "Settings", "Hi, ada", "Newer", "second day", "Older"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Index(view, "Newer") > strings.Index(view, "Older") {
		t.Fatalf("expected server order, newest first:\n%s", view)
	}
}

func TestEmptyCollection(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	if !strings.Contains(f.view(), emptyText) {
		t.Fatalf("expected empty hint:\n%s", f.view())
	}
}

func TestLoadFailureShowsBannerAndRetry(t *testing.T) {
	f := newFixture(t)
	f.srv.Seed("ada", entry.Draft{Title: "Kept", Content: "x"})
	f.srv.Fail(http.MethodGet, "/journal", http.StatusInternalServerError, "database unavailable")
	f.load(t)

	view := f.view()
	if !strings.Contains(view, "database unavailable") || !strings.Contains(view, "press r to retry") {
		t.Fatalf("expected error banner:\n%s", view)
	}

	if cmd := press(f.m, "r"); cmd == nil {
		t.Fatal("retry should issue a command")
	}
	if !f.m.loading {
		t.Fatal("retry should mark the list loading")
	}
	f.load(t)
	view = f.view()
	if strings.Contains(view, "database unavailable") {
		t.Fatalf("banner should clear after a good reload:\n%s", view)
	}
	if !strings.Contains(view, "Kept") {
		t.Fatalf("expected entry after retry:\n%s", view)
	}
}

func TestCreateEntryFromForm(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	press(f.m, "n")
	if !editor.IsCreating(f.m.editor.Mode()) {
		t.Fatalf("expected creating mode, got %v", f.m.editor.Mode())
	}
	if !strings.Contains(f.view(), "New entry") {
		t.Fatalf("expected editor overlay:\n%s", f.view())
	}

	press(f.m, "Hello", "tab", "A calm morning", "tab", " ")
	form := f.m.editor.Form()
	if form.Title != "Hello" || form.Content != "A calm morning" {
		t.Fatalf("form not synced from inputs: %+v", form)
	}
	if form.Sentiment != entry.Sad {
		t.Fatalf("expected mood cycled to SAD, got %s", form.Sentiment)
	}

	cmd := press(f.m, "ctrl+s")
	if cmd == nil {
		t.Fatal("ctrl+s should submit")
	}
	f.m.Update(cmd())

	if !editor.IsBrowsing(f.m.editor.Mode()) {
		t.Fatal("editor should close after save")
	}
	view := f.view()
	if !strings.Contains(view, "Hello") || !strings.Contains(view, "Saved") {
		t.Fatalf("expected saved entry in list:\n%s", view)
	}
	if got := f.srv.Entries("ada"); len(got) != 1 || got[0].Title != "Hello" {
		t.Fatalf("server entries = %+v", got)
	}
}

func TestSubmitWithBlankTitleShowsValidation(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	press(f.m, "n", "tab", "content only")

	if strings.Contains(f.view(), "Saving") {
		t.Fatal("should not be saving")
	}
	cmd := press(f.m, "ctrl+s")
	f.m.Update(cmd())

	if editor.IsBrowsing(f.m.editor.Mode()) {
		t.Fatal("form should stay open")
	}
	if !strings.Contains(f.view(), "required") {
		t.Fatalf("expected validation message:\n%s", f.view())
	}
	if n := f.srv.Calls(http.MethodPost, "/journal"); n != 0 {
		t.Fatalf("expected no request, got %d", n)
	}
}

func TestEditPrefillsAndSaves(t *testing.T) {
	f := newFixture(t)
	f.srv.Seed("ada", entry.Draft{Title: "Draft", Content: "body", Sentiment: entry.Angry})
	f.load(t)

	press(f.m, "e")
	if _, ok := editor.EditingID(f.m.editor.Mode()); !ok {
		t.Fatalf("expected editing mode, got %v", f.m.editor.Mode())
	}
	if f.m.title.Value() != "Draft" || f.m.content.Value() != "body" {
		t.Fatalf("inputs not prefilled: %q %q", f.m.title.Value(), f.m.content.Value())
	}

	press(f.m, " v2")
	cmd := press(f.m, "ctrl+s")
	f.m.Update(cmd())

	got := f.srv.Entries("ada")
	if len(got) != 1 || got[0].Title != "Draft v2" || got[0].Sentiment != entry.Angry {
		t.Fatalf("server entries = %+v", got)
	}
	if !strings.Contains(f.view(), "Draft v2") {
		t.Fatalf("list not updated:\n%s", f.view())
	}
}

func TestSubmitDisabledWhileInFlight(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	press(f.m, "n", "Title", "tab", "Body")

	release := f.srv.Hold(http.MethodPost, "/journal")
	defer release()

	cmd := press(f.m, "ctrl+s")
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	deadline := time.Now().Add(2 * time.Second)
	for !f.m.editor.Submitting() {
		if time.Now().After(deadline) {
			t.Fatal("submit never started")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !strings.Contains(f.view(), "Saving...") {
		t.Fatalf("expected disabled save:\n%s", f.view())
	}
	if again := press(f.m, "ctrl+s"); again != nil {
		t.Fatal("second submit should be ignored while in flight")
	}

	release()
	f.m.Update(<-done)
	if n := f.srv.Calls(http.MethodPost, "/journal"); n != 1 {
		t.Fatalf("expected one create, got %d", n)
	}
}

func TestLateResultAfterCancelIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	press(f.m, "n", "Title", "tab", "Body")

	release := f.srv.Hold(http.MethodPost, "/journal")
	cmd := press(f.m, "ctrl+s")
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	deadline := time.Now().Add(2 * time.Second)
	for !f.m.editor.Submitting() {
		if time.Now().After(deadline) {
			t.Fatal("submit never started")
		}
		time.Sleep(5 * time.Millisecond)
	}
	press(f.m, "esc")
	press(f.m, "n")
	release()
	f.m.Update(<-done)

	if !editor.IsCreating(f.m.editor.Mode()) {
		t.Fatalf("new form should survive the late result, mode %v", f.m.editor.Mode())
	}
	if f.m.status == "Saved" {
		t.Fatal("late result should not report a save")
	}
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	f := newFixture(t)
	f.srv.Seed("ada", entry.Draft{Title: "Doomed", Content: "x"})
	f.load(t)

	press(f.m, "d")
	if !strings.Contains(f.view(), `Delete "Doomed"?`) {
		t.Fatalf("expected confirmation:\n%s", f.view())
	}
	if cmd := press(f.m, "n"); cmd != nil {
		t.Fatal("declining should not delete")
	}
	if f.m.confirmDelete != nil {
		t.Fatal("confirmation should close")
	}

	press(f.m, "d")
	cmd := press(f.m, "y")
	if cmd == nil {
		t.Fatal("confirming should delete")
	}
	f.m.Update(cmd())

	if len(f.srv.Entries("ada")) != 0 {
		t.Fatal("entry should be deleted on the server")
	}
	view := f.view()
	if strings.Contains(view, "Doomed") || !strings.Contains(view, emptyText) {
		t.Fatalf("entry should be gone:\n%s", view)
	}
}

func TestDeleteFailureRestoresEntry(t *testing.T) {
	f := newFixture(t)
	seeded := f.srv.Seed("ada", entry.Draft{Title: "Sticky", Content: "x"})
	f.load(t)
	f.srv.Fail(http.MethodDelete, "/journal/id/{id}", http.StatusInternalServerError, "cannot delete")

	press(f.m, "d")
	f.m.Update(press(f.m, "y")())

	view := f.view()
	if !strings.Contains(view, "Sticky") || !strings.Contains(view, "cannot delete") {
		t.Fatalf("expected restored entry and banner:\n%s", view)
	}
	if f.m.entries[0].ID != seeded[0].ID {
		t.Fatalf("unexpected entries %+v", f.m.entries)
	}
}

func TestUnauthorizedEndsSession(t *testing.T) {
	f := newFixture(t)
	f.srv.Fail(http.MethodGet, "/journal", http.StatusUnauthorized, "token expired")

	_, cmd := f.m.Update(listEntries(context.Background(), f.m.journal)())
	if !isQuit(cmd) {
		t.Fatal("expected quit on authorization failure")
	}
	if !f.m.Expired() {
		t.Fatal("model should report the expired session")
	}
	if f.sess.IsAuthenticated() {
		t.Fatal("session should be cleared")
	}
}

func TestLogoutKey(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	if !isQuit(press(f.m, "L")) {
		t.Fatal("logout should quit")
	}
	if !f.m.LoggedOut() || f.sess.IsAuthenticated() {
		t.Fatal("expected logged out session")
	}
}

func TestSessionEndedElsewhere(t *testing.T) {
	f := newFixture(t)
	_, cmd := f.m.Update(SessionEnded())
	if !isQuit(cmd) || !f.m.Expired() {
		t.Fatal("expected the UI to quit when the session goes away")
	}
}

func TestWeatherInHeader(t *testing.T) {
	f := newFixture(t)
	if !strings.Contains(f.view(), "Loading weather") {
		t.Fatalf("expected loading text:\n%s", f.view())
	}
	f.m.Update(fetchWeather(context.Background(), f.m.wsrc, "Mumbai")())
	if !strings.Contains(f.view(), "Mumbai 31°C, Partly cloudy") {
		t.Fatalf("expected weather summary:\n%s", f.view())
	}
}

func TestSettingsForNonAdmin(t *testing.T) {
	f := newFixture(t)
	if cmd := press(f.m, "2"); cmd != nil {
		t.Fatal("non-admins should not load users")
	}
	if !strings.Contains(f.view(), admin.NoticeText) {
		t.Fatalf("expected admin notice:\n%s", f.view())
	}
}

func TestSettingsAdminPanel(t *testing.T) {
	f := newFixture(t, "ADMIN")
	cmd := press(f.m, "tab")
	if cmd == nil {
		t.Fatal("admins should load users on entering settings")
	}
	f.m.Update(cmd())
	if view := f.view(); !strings.Contains(view, "ada@example.com") || !strings.Contains(view, "USER") {
		t.Fatalf("expected users table:\n%s", view)
	}

	press(f.m, "c", "grace", "tab", "grace@example.com", "tab", "secret", "tab", " ")
	if !f.m.adminMood {
		t.Fatal("space should toggle sentiment analysis")
	}
	if strings.Contains(f.view(), "secret") {
		t.Fatal("password must not be echoed")
	}

	cmd = press(f.m, "ctrl+s")
	_, next := f.m.Update(cmd())
	if !strings.Contains(f.view(), admin.CreatedText) {
		t.Fatalf("expected success message:\n%s", f.view())
	}
	if f.m.creating {
		t.Fatal("form should close after success")
	}
	f.m.Update(next())
	if !strings.Contains(f.view(), "grace") {
		t.Fatalf("users should reload:\n%s", f.view())
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
