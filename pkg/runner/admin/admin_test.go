package admin

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/journal/pkg/admin"
	"tableflip.dev/journal/pkg/api"
	"tableflip.dev/journal/pkg/api/apitest"
	"tableflip.dev/journal/pkg/prompt"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func panel(t *testing.T, srv *apitest.Server, roles ...string) *admin.Panel {
	t.Helper()
	tok := srv.AddUser("root", "pw", roles...)
	c, err := api.New(api.Config{BaseURL: srv.URL}, staticToken(tok), nil)
	require.NoError(t, err)
	return admin.NewPanel(c, api.User{UserName: "root", Roles: roles})
}

func TestUsersTable(t *testing.T) {
	color.NoColor = true
	srv := apitest.New(t)
	p := panel(t, srv, "ADMIN")
	var out bytes.Buffer
	require.NoError(t, (&Users{Panel: p, Out: &out}).Do(context.Background()))
	assert.Contains(t, out.String(), "root@example.com")
}

func TestCreatePromptsAndReports(t *testing.T) {
	srv := apitest.New(t)
	p := panel(t, srv, "ADMIN")
	var out bytes.Buffer
	c := &Create{
		User:     api.NewUser{UserName: "grace"},
		Panel:    p,
		Prompter: &prompt.Script{Answers: []string{"grace@example.com", "pw"}},
		Out:      &out,
	}
	require.NoError(t, c.Do(context.Background()))
	assert.Equal(t, "Admin created successfully\n", out.String())
}

func TestCreateRefusedForNonAdmin(t *testing.T) {
	srv := apitest.New(t)
	p := panel(t, srv, "USER")
	s := &prompt.Script{}
	err := (&Create{Panel: p, Prompter: s}).Do(context.Background())
	require.ErrorIs(t, err, admin.ErrNotAdmin)
	assert.Empty(t, s.Asked)
}
