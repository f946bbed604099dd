// Package session holds the authenticated identity of the client: the bearer
// token and the user profile, mirrored to two durable slots.
//
// Lifecycle: Load once at startup, Login after a successful login or OAuth
// exchange, Logout (or Invalidate on an authorization failure) at teardown.
// The Store is the only writer of the slots.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"tableflip.dev/journal/pkg/api"
	"tableflip.dev/journal/pkg/logging"
	"tableflip.dev/journal/pkg/store"
)

var (
	// ErrInvalidCredential is returned by Login when no token is supplied.
	ErrInvalidCredential = errors.New("session: no token supplied")
	// ErrNotLoggedIn is returned by Require when there is no session.
	ErrNotLoggedIn = errors.New("not logged in, run `journal login`")
)

// Session is a token and the user it was issued to.
type Session struct {
	Token string
	User  api.User
}

// Store is the process-wide session. It is safe for concurrent use.
type Store struct {
	slots store.Slots
	log   logging.Logger

	mu      sync.RWMutex
	current *Session

	subMu sync.Mutex
	subs  []func(Session, bool)
}

// New returns an empty store over slots. Call Load to rehydrate.
func New(slots store.Slots, log logging.Logger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	return &Store{slots: slots, log: log.With("component", "session")}
}

// Open is New followed by Load.
func Open(ctx context.Context, slots store.Slots, log logging.Logger) *Store {
	s := New(slots, log)
	s.Load(ctx)
	return s
}

// Load replaces the in-memory session with what the slots hold. Missing or
// malformed data means "no session"; malformed data is erased. It never fails.
func (s *Store) Load(ctx context.Context) {
	sess, ok := s.read(ctx)
	s.mu.Lock()
	if ok {
		s.current = &sess
	} else {
		s.current = nil
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Store) read(ctx context.Context) (Session, bool) {
	tok, err := s.slots.Read(store.TokenSlot)
	if err != nil {
		if !errors.Is(err, store.ErrNoSlot) {
			s.log.Warn(ctx, "read token slot", "error", err)
		}
		return Session{}, false
	}
	token := strings.TrimSpace(string(tok))
	if token == "" {
		s.discard(ctx, "empty token")
		return Session{}, false
	}

	raw, err := s.slots.Read(store.UserSlot)
	if err != nil {
		if errors.Is(err, store.ErrNoSlot) {
			s.discard(ctx, "token without user profile")
		} else {
			s.log.Warn(ctx, "read user slot", "error", err)
		}
		return Session{}, false
	}
	var user api.User
	if err := json.Unmarshal(raw, &user); err != nil {
		s.discard(ctx, "malformed user profile", "error", err)
		return Session{}, false
	}
	return Session{Token: token, User: user}, true
}

func (s *Store) discard(ctx context.Context, reason string, args ...any) {
	s.log.Warn(ctx, "discarding stored session", append([]any{"reason", reason}, args...)...)
	if err := s.erase(); err != nil {
		s.log.Warn(ctx, "erase stored session", "error", err)
	}
}

// Login replaces the session with token and user and writes both slots. Both
// slots are committed or neither is.
func (s *Store) Login(token string, user api.User) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidCredential
	}
	profile, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: encode user: %w", err)
	}

	s.mu.Lock()
	prevTok, hadTok := s.snapshotSlot(store.TokenSlot)
	if err := s.slots.Write(store.TokenSlot, []byte(token)); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("session: save token: %w", err)
	}
	if err := s.slots.Write(store.UserSlot, profile); err != nil {
		s.restoreSlot(store.TokenSlot, prevTok, hadTok)
		s.mu.Unlock()
		return fmt.Errorf("session: save user: %w", err)
	}
	s.current = &Session{Token: token, User: user}
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Store) snapshotSlot(key string) ([]byte, bool) {
	val, err := s.slots.Read(key)
	if err != nil {
		return nil, false
	}
	return val, true
}

func (s *Store) restoreSlot(key string, val []byte, had bool) {
	if had {
		_ = s.slots.Write(key, val)
		return
	}
	_ = s.slots.Erase(key)
}

// Logout clears the session and erases both slots. Calling it when already
// logged out is a no-op.
func (s *Store) Logout() error {
	s.mu.Lock()
	was := s.current != nil
	s.current = nil
	err := s.erase()
	s.mu.Unlock()

	if was {
		s.notify()
	}
	if err != nil {
		return fmt.Errorf("session: logout: %w", err)
	}
	return nil
}

// Invalidate logs out after the backend rejected the token.
func (s *Store) Invalidate(ctx context.Context, cause error) {
	if !s.IsAuthenticated() {
		return
	}
	s.log.Info(ctx, "session invalidated", "cause", cause)
	if err := s.Logout(); err != nil {
		s.log.Warn(ctx, "invalidate", "error", err)
	}
}

func (s *Store) erase() error {
	return errors.Join(s.slots.Erase(store.TokenSlot), s.slots.Erase(store.UserSlot))
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// User returns the profile of the logged in user, or the zero User.
func (s *Store) User() api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return api.User{}
	}
	return s.current.User
}

// Current returns a copy of the session and whether one exists.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// Require returns the session or ErrNotLoggedIn.
func (s *Store) Require() (Session, error) {
	cur, ok := s.Current()
	if !ok {
		return Session{}, ErrNotLoggedIn
	}
	return cur, nil
}

func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// OnChange registers fn to run after every login, logout or reload. fn
// receives the new session and whether it exists.
func (s *Store) OnChange(fn func(Session, bool)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) notify() {
	sess, ok := s.Current()
	s.subMu.Lock()
	subs := slices.Clone(s.subs)
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(sess, ok)
	}
}

// Watch reloads the session whenever another process changes the slots. It
// returns once ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	events, err := s.slots.Watch(ctx)
	if err != nil {
		return err
	}
	for range events {
		s.Load(ctx)
	}
	return ctx.Err()
}
