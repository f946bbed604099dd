package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/journal/pkg/api/apitest"
	"tableflip.dev/journal/pkg/entry"
)

func setupEnv(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.New(t)
	srv.AddUser("ada", "pw")
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("JOURNAL_CONFIG_PATH", dir)
	t.Setenv("JOURNAL_SESSION_PATH", dir+"/session")
	t.Setenv("JOURNAL_API_URL", srv.URL)
	t.Setenv("JOURNAL_LOG_LEVEL", "error")
	return srv
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommandTree(t *testing.T) {
	root := New()
	for _, name := range []string{"signup", "login", "logout", "whoami", "list", "show", "add", "edit", "delete", "weather", "admin", "ui", "mcp", "key", "info", "version", "upgrade", "completion"} {
		if c, _, err := root.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("missing command %q", name)
		}
	}
	for _, alias := range []string{"get", "ls"} {
		if c, _, err := root.Find([]string{alias}); err != nil || c.Name() != "list" {
			t.Errorf("alias %q does not resolve to list", alias)
		}
	}
	if c, _, err := root.Find([]string{"admin", "users"}); err != nil || c.Name() != "users" {
		t.Error("missing admin users")
	}
}

func TestJournalCommandsNeedLogin(t *testing.T) {
	setupEnv(t)
	for _, args := range [][]string{{"list"}, {"add", "-t", "x", "-c", "y"}, {"delete", "some-id", "--yes"}, {"admin", "users"}} {
		_, err := run(t, "", args...)
		if err == nil || !strings.Contains(err.Error(), "not logged in") {
			t.Errorf("%v: expected not logged in, got %v", args, err)
		}
	}
}

func TestJSONFailureIsReported(t *testing.T) {
	setupEnv(t)
	var buf bytes.Buffer
	prev := color.Output
	color.Output = &buf
	defer func() { color.Output = prev }()

	_, err := run(t, "", "list", "--json")
	if !Reported(err) {
		t.Fatalf("list --json without login = %v, want a reported failure", err)
	}
	var got map[string]string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output %q: %v", buf.String(), err)
	}
	if !strings.Contains(got["error"], "not logged in") {
		t.Errorf("error = %q", got["error"])
	}
	if Reported(nil) {
		t.Error("nil must not count as reported")
	}
}

func TestLoginAddListLogout(t *testing.T) {
	srv := setupEnv(t)

	out, err := run(t, "pw\n", "login", "-u", "ada", "--password-stdin")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Logged in as ada") {
		t.Fatalf("unexpected login output %q", out)
	}

	if _, err := run(t, "", "add", "-t", "Rainy", "-c", "stayed in", "-m", "sad"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := srv.Entries("ada"); len(got) != 1 || got[0].Title != "Rainy" {
		t.Fatalf("server entries = %+v", got)
	}

	out, err = run(t, "", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "Rainy") {
		t.Fatalf("list output missing entry:\n%s", out)
	}

	out, err = run(t, "", "ls", "--mood", "happy")
	if err != nil {
		t.Fatalf("list --mood: %v", err)
	}
	if strings.Contains(out, "Rainy") {
		t.Fatalf("mood filter ignored:\n%s", out)
	}

	out, err = run(t, "", "whoami")
	if err != nil || !strings.Contains(out, "ada") {
		t.Fatalf("whoami: %q %v", out, err)
	}

	if _, err := run(t, "", "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := run(t, "", "list"); err == nil {
		t.Fatal("list should fail after logout")
	}
}

func TestEditArguments(t *testing.T) {
	srv := setupEnv(t)
	if _, err := run(t, "pw\n", "login", "-u", "ada", "--password-stdin"); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "", "edit"); err == nil || !strings.Contains(err.Error(), "requires an entry id") {
		t.Fatalf("expected missing id error, got %v", err)
	}

	seeded := srv.Seed("ada", entry.Draft{Title: "Old", Content: "body"})
	if _, err := run(t, "", "edit", seeded[0].ID); err == nil || !strings.Contains(err.Error(), "nothing to change") {
		t.Fatalf("expected nothing to change, got %v", err)
	}
	if _, err := run(t, "", "edit", seeded[0].ID, "-t", "New"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	got := srv.Entries("ada")
	if got[0].Title != "New" || got[0].Content != "body" {
		t.Fatalf("unexpected entry after edit %+v", got[0])
	}
}

func TestDeleteWithYes(t *testing.T) {
	srv := setupEnv(t)
	if _, err := run(t, "pw\n", "login", "-u", "ada", "--password-stdin"); err != nil {
		t.Fatal(err)
	}
	seeded := srv.Seed("ada", entry.Draft{Title: "Gone", Content: "x"})
	out, err := run(t, "", "delete", seeded[0].ID, "--yes")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(out, "Deleted.") || len(srv.Entries("ada")) != 0 {
		t.Fatalf("entry not deleted, output %q", out)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "dev") {
		t.Fatalf("unexpected version output %q", out)
	}
}
