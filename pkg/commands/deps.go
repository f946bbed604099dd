package commands

import (
	"context"
	"io"
	"os"

	"tableflip.dev/journal/pkg/api"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/logging"
	"tableflip.dev/journal/pkg/session"
	"tableflip.dev/journal/pkg/store"
)

// deps is everything a command needs to talk to the backend.
type deps struct {
	cfg     store.Config
	log     logging.Logger
	session *session.Store
	client  *api.Client
	journal *journal.Synchronizer

	closers []io.Closer
}

// logTo picks where the logs of a command go. Full-screen commands must not
// write to the terminal.
type logTo int

const (
	logStderr logTo = iota
	logFileOnly
)

func loadDeps(ctx context.Context, dest logTo) (*deps, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	d := &deps{cfg: cfg}

	level := cfg.LogLevel()
	if global.Verbose {
		level = "debug"
	}
	var w io.Writer = os.Stderr
	if dest == logFileOnly {
		w = io.Discard
	}
	if path := cfg.LogFile(); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, f)
		w = f
	}
	d.log = logging.New(w, level)

	slots, err := store.Load(cfg)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.session = session.Open(ctx, slots, d.log)

	url := cfg.APIURL()
	if global.APIURL != "" {
		url = global.APIURL
	}
	d.client, err = api.New(api.Config{
		BaseURL:   url,
		Timeout:   cfg.Timeout(),
		UserAgent: "journal-cli/" + version,
	}, d.session, d.log)
	if err != nil {
		d.Close()
		return nil, err
	}

	d.journal = journal.New(d.client,
		journal.WithLogger(d.log),
		journal.WithUnauthorized(d.session.Invalidate),
	)
	return d, nil
}

// requireLogin returns deps only when a session exists.
func requireLogin(ctx context.Context, dest logTo) (*deps, error) {
	d, err := loadDeps(ctx, dest)
	if err != nil {
		return nil, err
	}
	if _, err := d.session.Require(); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func (d *deps) Close() {
	for _, c := range d.closers {
		_ = c.Close()
	}
	d.closers = nil
}
