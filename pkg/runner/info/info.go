package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/journal/pkg/session"
	"tableflip.dev/journal/pkg/store"
)

// Info prints where configuration and the session live.
type Info struct {
	Config  store.Config
	Session *session.Store
	Out     io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("JOURNAL_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "JOURNAL_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "JOURNAL_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(out, "api.url:       ", n.Config.APIURL())
	_, _ = fmt.Fprintln(out, "api.timeout:   ", n.Config.Timeout())
	_, _ = fmt.Fprintln(out, "session.path:  ", n.Config.BasePath())
	_, _ = fmt.Fprintln(out, "weather:       ", n.Config.WeatherLocation())
	_, _ = fmt.Fprintln(out, "log.level:     ", n.Config.LogLevel())

	if n.Session == nil {
		return nil
	}
	if cur, ok := n.Session.Current(); ok {
		_, _ = fmt.Fprintf(out, "logged in as:   %s\n", cur.User.DisplayName())
	} else {
		_, _ = fmt.Fprintln(out, "logged in as:   nobody")
	}
	return nil
}
