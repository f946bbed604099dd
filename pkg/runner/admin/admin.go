package admin

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/journal/pkg/admin"
	"tableflip.dev/journal/pkg/api"
	"tableflip.dev/journal/pkg/printers"
	"tableflip.dev/journal/pkg/prompt"
	"tableflip.dev/journal/pkg/runner/auth"
)

// Users prints every account.
type Users struct {
	ShowID bool
	JSON   bool

	Panel *admin.Panel
	Out   io.Writer
}

func (u *Users) Do(ctx context.Context) error {
	users, err := u.Panel.Users(ctx)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: u.ShowID, Out: u.Out}
	if u.JSON {
		return pp.JSON(users)
	}
	pp.Users(users...)
	return nil
}

// Create registers a new admin account.
type Create struct {
	User          api.NewUser
	PasswordStdin bool

	Panel    *admin.Panel
	Prompter prompt.Prompter
	In       io.Reader
	Out      io.Writer
}

func (c *Create) Do(ctx context.Context) error {
	if !c.Panel.Allowed() {
		return admin.ErrNotAdmin
	}
	u, err := auth.FillNewUser(c.Prompter, c.In, c.PasswordStdin, c.User)
	if err != nil {
		return err
	}
	err = c.Panel.CreateAdmin(ctx, u)
	if err != nil {
		return errors.New(admin.ResultText(err))
	}
	out := c.Out
	if out == nil {
		out = color.Output
	}
	_, _ = fmt.Fprintln(out, admin.ResultText(nil))
	return nil
}
