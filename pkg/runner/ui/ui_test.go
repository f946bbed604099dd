package ui

import (
	"bytes"
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/journal/pkg/api"
	"tableflip.dev/journal/pkg/api/apitest"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/session"
	"tableflip.dev/journal/pkg/store"
	"tableflip.dev/journal/pkg/tui"
)

func fixture(t *testing.T, login bool) *UI {
	t.Helper()
	srv := apitest.New(t)
	tok := srv.AddUser("ada", "pw")
	slots, err := store.Load(store.NewConfig(t.TempDir(), srv.URL))
	if err != nil {
		t.Fatal(err)
	}
	sess := session.New(slots, nil)
	if login {
		if err := sess.Login(tok, api.User{UserName: "ada"}); err != nil {
			t.Fatal(err)
		}
	}
	client, err := api.New(api.Config{BaseURL: srv.URL}, sess, nil)
	if err != nil {
		t.Fatal(err)
	}
	return &UI{
		Journal: journal.New(client),
		Session: sess,
		Admin:   client,
		Out:     &bytes.Buffer{},
	}
}

func TestRequiresLogin(t *testing.T) {
	u := fixture(t, false)
	u.run = func(context.Context, *tui.Model) (*tui.Model, error) {
		t.Fatal("should not start the UI")
		return nil, nil
	}
	if err := u.Do(context.Background()); !errors.Is(err, session.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestExpiredHint(t *testing.T) {
	u := fixture(t, true)
	u.run = func(_ context.Context, m *tui.Model) (*tui.Model, error) {
		m.Update(tui.SessionEnded())
		return m, nil
	}
	if err := u.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := u.Out.(*bytes.Buffer).String(); got != ExpiredText+"\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestLogoutHint(t *testing.T) {
	u := fixture(t, true)
	u.run = func(_ context.Context, m *tui.Model) (*tui.Model, error) {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("L")})
		return m, nil
	}
	if err := u.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := u.Out.(*bytes.Buffer).String(); got != LoggedOutText+"\n" {
		t.Fatalf("unexpected output %q", got)
	}
	if u.Session.IsAuthenticated() {
		t.Fatal("session should be gone")
	}
}

func TestQuitQuietly(t *testing.T) {
	u := fixture(t, true)
	u.run = func(_ context.Context, m *tui.Model) (*tui.Model, error) {
		return m, nil
	}
	if err := u.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := u.Out.(*bytes.Buffer).String(); got != "" {
		t.Fatalf("unexpected output %q", got)
	}
}
