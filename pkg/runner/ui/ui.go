package ui

import (
	"context"
	"fmt"
	"io"

	"tableflip.dev/journal/pkg/admin"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/logging"
	"tableflip.dev/journal/pkg/session"
	"tableflip.dev/journal/pkg/tui"
	"tableflip.dev/journal/pkg/weather"
)

const (
	ExpiredText   = "Your session has expired, please log in again with `journal login`."
	LoggedOutText = "Logged out."
)

// UI runs the full-screen client.
type UI struct {
	Journal  *journal.Synchronizer
	Session  *session.Store
	Weather  weather.Source
	Location string
	Admin    admin.Backend
	Logger   logging.Logger
	Out      io.Writer

	// run is replaced in tests.
	run func(ctx context.Context, m *tui.Model) (*tui.Model, error)
}

func (u *UI) Do(ctx context.Context) error {
	cur, err := u.Session.Require()
	if err != nil {
		return err
	}
	log := u.Logger
	if log == nil {
		log = logging.Discard()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg := tui.Config{
		Journal:  u.Journal,
		Session:  u.Session,
		Weather:  u.Weather,
		Location: u.Location,
		Logger:   log,
	}
	if u.Admin != nil {
		cfg.Admin = admin.NewPanel(u.Admin, cur.User)
	}
	m := tui.New(ctx, cfg)

	run := u.run
	if run == nil {
		run = func(ctx context.Context, m *tui.Model) (*tui.Model, error) {
			return u.runProgram(ctx, m, log)
		}
	}
	final, err := run(ctx, m)
	if err != nil {
		return err
	}

	switch {
	case final.Expired():
		_, _ = fmt.Fprintln(u.Out, ExpiredText)
	case final.LoggedOut():
		_, _ = fmt.Fprintln(u.Out, LoggedOutText)
	}
	return nil
}
