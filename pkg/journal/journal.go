// Package journal keeps the local copy of the user's entries consistent with
// the backend. It is shared by the CLI runners, the TUI and the MCP bridge.
package journal

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"tableflip.dev/journal/pkg/api"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/logging"
)

var (
	// ErrCanceled is returned by Delete when the user declined the confirmation.
	ErrCanceled = errors.New("journal: delete canceled")
	// ErrNoConfirmer is returned by Delete when no Confirmer was given.
	ErrNoConfirmer = errors.New("journal: delete needs a confirmer")
)

// Remote is the part of the backend client the synchronizer needs.
type Remote interface {
	ListEntries(ctx context.Context) ([]entry.Entry, error)
	GetEntry(ctx context.Context, id string) (entry.Entry, error)
	CreateEntry(ctx context.Context, d entry.Draft) (entry.Entry, error)
	UpdateEntry(ctx context.Context, id string, d entry.Draft) (entry.Entry, error)
	DeleteEntry(ctx context.Context, id string) error
}

var _ Remote = (*api.Client)(nil)

// Confirmer asks the user whether e should really be deleted.
type Confirmer interface {
	Confirm(ctx context.Context, e entry.Entry) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, e entry.Entry) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, e entry.Entry) (bool, error) {
	return f(ctx, e)
}

// Unconditional confirms every delete without asking.
type Unconditional struct{}

func (Unconditional) Confirm(context.Context, entry.Entry) (bool, error) { return true, nil }

// Always is the Confirmer for callers that already have the user's consent,
// such as `delete --yes` or an MCP call with confirm=true.
var Always Confirmer = Unconditional{}

// State is what the synchronizer is doing right now.
type State int

const (
	Idle State = iota
	Fetching
	Mutating
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Mutating:
		return "mutating"
	case Error:
		return "error"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// FetchError is returned when the collection could not be loaded. The previous
// collection is kept.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return "journal: load entries: " + e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }

// Snapshot is a copy of the synchronizer state.
type Snapshot struct {
	State   State
	Entries []entry.Entry
	Err     error
	// Loaded is true once a List has succeeded.
	Loaded bool
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Synchronizer) {
		if l != nil {
			s.log = l
		}
	}
}

// WithUnauthorized registers fn to run whenever the backend rejects the token.
func WithUnauthorized(fn func(context.Context, error)) Option {
	return func(s *Synchronizer) { s.onUnauthorized = fn }
}

// Synchronizer owns the ordered entry collection, newest first.
type Synchronizer struct {
	remote         Remote
	log            logging.Logger
	onUnauthorized func(context.Context, error)

	flight singleflight.Group

	mu      sync.RWMutex
	entries []entry.Entry
	state   State
	err     error
	loaded  bool

	subMu sync.Mutex
	subs  []func(Snapshot)
}

// New returns an empty Synchronizer over remote.
func New(remote Remote, opts ...Option) *Synchronizer {
	s := &Synchronizer{remote: remote, log: logging.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "journal")
	return s
}

// OnChange registers fn to receive a Snapshot after every state transition.
func (s *Synchronizer) OnChange(fn func(Snapshot)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = append(s.subs, fn)
}

// Snapshot returns a copy of the current state.
func (s *Synchronizer) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Synchronizer) snapshotLocked() Snapshot {
	return Snapshot{
		State:   s.state,
		Entries: append([]entry.Entry(nil), s.entries...),
		Err:     s.err,
		Loaded:  s.loaded,
	}
}

// Entries returns a copy of the collection.
func (s *Synchronizer) Entries() []entry.Entry {
	return s.Snapshot().Entries
}

// Get looks id up in the local collection.
func (s *Synchronizer) Get(id string) (entry.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.entries[i], true
	}
	return entry.Entry{}, false
}

// Fetch returns the entry with id, asking the backend when it is not in the
// local collection. It does not change the synchronizer state.
func (s *Synchronizer) Fetch(ctx context.Context, id string) (entry.Entry, error) {
	if e, ok := s.Get(id); ok {
		return e, nil
	}
	e, err := s.remote.GetEntry(ctx, id)
	if err != nil {
		if api.IsUnauthorized(err) && s.onUnauthorized != nil {
			s.onUnauthorized(ctx, err)
		}
		return entry.Entry{}, err
	}
	return e, nil
}

func (s *Synchronizer) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Synchronizer) indexLocked(id string) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// transition applies fn under the lock, then notifies subscribers.
func (s *Synchronizer) transition(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.subMu.Lock()
	subs := slices.Clone(s.subs)
	s.subMu.Unlock()
	for _, sub := range subs {
		sub(snap)
	}
}

func (s *Synchronizer) begin(st State) {
	s.transition(func() { s.state = st })
}

func (s *Synchronizer) fail(ctx context.Context, err error) error {
	if api.IsUnauthorized(err) && s.onUnauthorized != nil {
		s.onUnauthorized(ctx, err)
	}
	s.transition(func() {
		s.state = Error
		s.err = err
	})
	return err
}

func (s *Synchronizer) succeed(fn func()) {
	s.transition(func() {
		if fn != nil {
			fn()
		}
		s.state = Idle
		s.err = nil
	})
}

// List replaces the collection with the backend's. Concurrent calls share one
// request, which keeps running when the caller that started it gives up.
func (s *Synchronizer) List(ctx context.Context) ([]entry.Entry, error) {
	shared := context.WithoutCancel(ctx)
	ch := s.flight.DoChan("list", func() (any, error) {
		s.begin(Fetching)
		entries, err := s.remote.ListEntries(shared)
		if err != nil {
			s.log.Warn(shared, "list entries", "error", err)
			return nil, s.fail(shared, &FetchError{Err: err})
		}
		s.succeed(func() {
			s.entries = append([]entry.Entry(nil), entries...)
			s.loaded = true
		})
		s.log.Debug(shared, "listed entries", "count", len(entries))
		return entries, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return append([]entry.Entry(nil), res.Val.([]entry.Entry)...), nil
	}
}

// Create validates d, creates it and puts the result at the top of the
// collection. Invalid drafts never reach the backend.
func (s *Synchronizer) Create(ctx context.Context, d entry.Draft) (entry.Entry, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return entry.Entry{}, err
	}
	s.begin(Mutating)
	created, err := s.remote.CreateEntry(ctx, d)
	if err != nil {
		return entry.Entry{}, s.fail(ctx, err)
	}
	if created.Title == "" && created.Content == "" {
		created.Title, created.Content = d.Title, d.Content
	}
	if created.Sentiment == "" {
		created.Sentiment = d.Sentiment
	}
	s.succeed(func() {
		if i := s.indexLocked(created.ID); i >= 0 {
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
		}
		s.entries = append([]entry.Entry{created}, s.entries...)
	})
	s.log.Info(ctx, "created entry", "id", created.ID)
	return created, nil
}

// Update applies p to the entry with id and saves the full result.
func (s *Synchronizer) Update(ctx context.Context, id string, p entry.Patch) (entry.Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entry.Entry{}, &entry.ValidationError{Field: "id", Message: "Entry id is required"}
	}
	base, ok := s.Get(id)
	if !ok {
		s.begin(Fetching)
		fetched, err := s.remote.GetEntry(ctx, id)
		if err != nil {
			return entry.Entry{}, s.fail(ctx, err)
		}
		base = fetched
	}
	return s.update(ctx, id, base, !ok, p)
}

// UpdateFrom is Update with a base the caller already holds, typically the
// result of Fetch, so the entry is not read again.
func (s *Synchronizer) UpdateFrom(ctx context.Context, base entry.Entry, p entry.Patch) (entry.Entry, error) {
	id := strings.TrimSpace(base.ID)
	if id == "" {
		return entry.Entry{}, &entry.ValidationError{Field: "id", Message: "Entry id is required"}
	}
	if local, ok := s.Get(id); ok {
		base = local
	}
	return s.update(ctx, id, base, false, p)
}

func (s *Synchronizer) update(ctx context.Context, id string, base entry.Entry, fetching bool, p entry.Patch) (entry.Entry, error) {
	d := p.Apply(base).Normalize()
	if err := d.Validate(); err != nil {
		if fetching {
			s.succeed(nil)
		}
		return entry.Entry{}, err
	}

	s.begin(Mutating)
	updated, err := s.remote.UpdateEntry(ctx, id, d)
	if err != nil {
		return entry.Entry{}, s.fail(ctx, err)
	}
	merged := base
	merged.Title, merged.Content, merged.Sentiment = d.Title, d.Content, d.Sentiment
	merged.Merge(updated)
	if merged.ID == "" {
		merged.ID = id
	}
	s.succeed(func() {
		if i := s.indexLocked(id); i >= 0 {
			s.entries[i] = merged
		}
	})
	s.log.Info(ctx, "updated entry", "id", id)
	return merged, nil
}

// Delete removes the entry with id once c confirms. The entry disappears from
// the collection before the request is sent. If the request fails the
// collection is reloaded, or the entry put back where it was when that is not
// possible, and the delete error returned.
func (s *Synchronizer) Delete(ctx context.Context, id string, c Confirmer) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return &entry.ValidationError{Field: "id", Message: "Entry id is required"}
	}
	if c == nil {
		return ErrNoConfirmer
	}
	target, ok := s.Get(id)
	if !ok {
		target = entry.Entry{ID: id}
	}
	yes, err := c.Confirm(ctx, target)
	if err != nil {
		return err
	}
	if !yes {
		return ErrCanceled
	}

	removed := -1
	s.transition(func() {
		if i := s.indexLocked(id); i >= 0 {
			target = s.entries[i]
			removed = i
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
		}
		s.state = Mutating
	})
	if err := s.remote.DeleteEntry(ctx, id); err != nil {
		s.log.Warn(ctx, "delete entry", "id", id, "error", err)
		if api.IsUnauthorized(err) {
			s.restore(target, removed)
			return s.fail(ctx, err)
		}
		if _, lerr := s.List(ctx); lerr != nil {
			s.log.Warn(ctx, "reconcile after failed delete", "error", lerr)
			s.restore(target, removed)
		}
		return s.fail(ctx, err)
	}
	s.succeed(nil)
	s.log.Info(ctx, "deleted entry", "id", id)
	return nil
}

// restore puts e back at index i unless it was never local or a reload
// already brought it back.
func (s *Synchronizer) restore(e entry.Entry, i int) {
	if i < 0 {
		return
	}
	s.transition(func() {
		if s.indexLocked(e.ID) >= 0 {
			return
		}
		i = min(i, len(s.entries))
		s.entries = slices.Insert(s.entries, i, e)
	})
}
