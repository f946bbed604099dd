// Package editor is the create/edit form state shared by the TUI overlay and
// the interactive CLI. It owns the form fields, validation and the single
// in-flight submission.
package editor

import (
	"context"
	"errors"
	"strings"
	"sync"

	"tableflip.dev/journal/pkg/api"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/logging"
)

// FallbackMessage is shown when a failure carries nothing better.
const FallbackMessage = "An error occurred. Please try again."

var (
	// ErrSubmitting is returned by Submit while another submission is in flight.
	ErrSubmitting = errors.New("editor: submission in progress")
	// ErrBlocked is returned by Submit when the entry being edited failed to load.
	ErrBlocked = errors.New("editor: entry failed to load")
	// ErrClosed is returned by Submit when no form is open.
	ErrClosed = errors.New("editor: no form open")
	// ErrStale is returned by Submit when the form was closed or reopened
	// while the request was in flight. The result was discarded.
	ErrStale = errors.New("editor: form closed before the request finished")
)

// Submitter saves entries. *journal.Synchronizer implements it.
type Submitter interface {
	Create(ctx context.Context, d entry.Draft) (entry.Entry, error)
	Update(ctx context.Context, id string, p entry.Patch) (entry.Entry, error)
	Fetch(ctx context.Context, id string) (entry.Entry, error)
}

// LoadError means the entry to edit could not be fetched.
type LoadError struct {
	ID  string
	Err error
}

func (e *LoadError) Error() string {
	return "editor: load entry " + e.ID + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }

// Form is the editable content of the overlay.
type Form struct {
	Title     string
	Content   string
	Sentiment entry.Sentiment
}

// Draft converts the form to a request body.
func (f Form) Draft() entry.Draft {
	return entry.Draft{Title: f.Title, Content: f.Content, Sentiment: f.Sentiment}
}

// Validate reports the first problem with the form as *entry.ValidationError.
func (f Form) Validate() error {
	return f.Draft().Validate()
}

// Options configures an Editor.
type Options struct {
	// OnDone runs after a successful submission with the saved entry.
	OnDone func(entry.Entry)
	Logger logging.Logger
}

// Editor is safe for concurrent use: the TUI submits from a command goroutine
// while the update loop reads the state.
type Editor struct {
	sub    Submitter
	onDone func(entry.Entry)
	log    logging.Logger

	mu         sync.Mutex
	mode       Mode
	form       Form
	generation uint64
	submitting bool
	loadErr    error
	err        error
}

// New returns an Editor in Browsing mode.
func New(sub Submitter, opts Options) *Editor {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Editor{sub: sub, onDone: opts.OnDone, log: log.With("component", "editor"), mode: Browsing{}}
}

// Open switches to m. Creating starts a blank form with the default mood.
// Editing prefills from e when given, otherwise fetches the entry; a failed
// fetch returns *LoadError and blocks submission until the form is reopened.
func (ed *Editor) Open(ctx context.Context, m Mode, e *entry.Entry) error {
	if m == nil {
		m = Browsing{}
	}
	ed.mu.Lock()
	ed.generation++
	gen := ed.generation
	ed.mode = m
	ed.form = Form{Sentiment: entry.DefaultSentiment}
	ed.submitting = false
	ed.loadErr = nil
	ed.err = nil
	ed.mu.Unlock()

	id, editing := EditingID(m)
	if !editing {
		return nil
	}
	if e == nil {
		fetched, err := ed.sub.Fetch(ctx, id)
		if err != nil {
			lerr := &LoadError{ID: id, Err: err}
			ed.mu.Lock()
			if ed.generation == gen {
				ed.loadErr = lerr
				ed.err = lerr
			}
			ed.mu.Unlock()
			ed.log.Warn(ctx, "load entry for edit", "id", id, "error", err)
			return lerr
		}
		e = &fetched
	}

	ed.mu.Lock()
	if ed.generation == gen {
		ed.form = Form{Title: e.Title, Content: e.Content, Sentiment: e.Sentiment}
		if ed.form.Sentiment == "" {
			ed.form.Sentiment = entry.DefaultSentiment
		}
	}
	ed.mu.Unlock()
	return nil
}

// Cancel closes the form. An in-flight submission finishes but its result is
// ignored.
func (ed *Editor) Cancel() {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	ed.closeLocked()
}

func (ed *Editor) closeLocked() {
	ed.generation++
	ed.mode = Browsing{}
	ed.form = Form{}
	ed.submitting = false
	ed.loadErr = nil
	ed.err = nil
}

func (ed *Editor) Mode() Mode {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.mode
}

func (ed *Editor) Form() Form {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.form
}

// Generation changes every time the form is opened or closed.
func (ed *Editor) Generation() uint64 {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.generation
}

func (ed *Editor) SetTitle(v string) {
	ed.mu.Lock()
	ed.form.Title = v
	ed.mu.Unlock()
}

func (ed *Editor) SetContent(v string) {
	ed.mu.Lock()
	ed.form.Content = v
	ed.mu.Unlock()
}

func (ed *Editor) SetSentiment(v entry.Sentiment) {
	ed.mu.Lock()
	ed.form.Sentiment = v
	ed.mu.Unlock()
}

// CycleSentiment moves the mood to the next value and returns it.
func (ed *Editor) CycleSentiment() entry.Sentiment {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	ed.form.Sentiment = ed.form.Sentiment.Next()
	return ed.form.Sentiment
}

// Submitting is true while a request is in flight; the submit control should
// be disabled.
func (ed *Editor) Submitting() bool {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.submitting
}

// Blocked is true when the entry being edited could not be loaded.
func (ed *Editor) Blocked() bool {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.loadErr != nil
}

// Err is the last load, validation or submission failure.
func (ed *Editor) Err() error {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.err
}

// ErrorMessage is Err as one line for display, or "" when there is none.
func (ed *Editor) ErrorMessage() string {
	err := ed.Err()
	if err == nil {
		return ""
	}
	return api.Message(err, FallbackMessage)
}

// Submit validates the form and saves it. On success OnDone runs and the
// editor returns to Browsing.
func (ed *Editor) Submit(ctx context.Context) (entry.Entry, error) {
	ed.mu.Lock()
	switch {
	case IsBrowsing(ed.mode):
		ed.mu.Unlock()
		return entry.Entry{}, ErrClosed
	case ed.loadErr != nil:
		ed.mu.Unlock()
		return entry.Entry{}, ErrBlocked
	case ed.submitting:
		ed.mu.Unlock()
		return entry.Entry{}, ErrSubmitting
	}
	form, mode, gen := ed.form, ed.mode, ed.generation
	if err := form.Validate(); err != nil {
		ed.err = err
		ed.mu.Unlock()
		return entry.Entry{}, err
	}
	ed.submitting = true
	ed.err = nil
	ed.mu.Unlock()

	d := form.Draft().Normalize()
	var (
		saved entry.Entry
		err   error
	)
	if id, ok := EditingID(mode); ok {
		saved, err = ed.sub.Update(ctx, id, entry.PatchFrom(d))
	} else {
		saved, err = ed.sub.Create(ctx, d)
	}

	ed.mu.Lock()
	if ed.generation != gen {
		ed.mu.Unlock()
		ed.log.Debug(ctx, "discarding late submission result", "mode", mode.String())
		return saved, ErrStale
	}
	ed.submitting = false
	if err != nil {
		ed.err = err
		ed.mu.Unlock()
		ed.log.Warn(ctx, "submit entry", "mode", mode.String(), "error", err)
		return entry.Entry{}, err
	}
	ed.closeLocked()
	ed.mu.Unlock()

	if ed.onDone != nil {
		ed.onDone(saved)
	}
	return saved, nil
}

// blank reports whether s is empty after trimming.
func blank(s string) bool { return strings.TrimSpace(s) == "" }

// CanSubmit reports whether the submit control should be enabled.
func (ed *Editor) CanSubmit() bool {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return !IsBrowsing(ed.mode) && ed.loadErr == nil && !ed.submitting &&
		!blank(ed.form.Title) && !blank(ed.form.Content)
}
