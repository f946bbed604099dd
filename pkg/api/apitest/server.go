// Package apitest runs an in-process journal backend for tests. It speaks the
// same routes and payloads as the real service and keeps everything in memory.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"tableflip.dev/journal/pkg/api"
	"tableflip.dev/journal/pkg/entry"
)

// Server is a fake journal backend.
type Server struct {
	*httptest.Server

	// BareTokenLogin makes /public/login answer with the token as plain text
	// instead of {token, user}.
	BareTokenLogin bool

	mu       sync.Mutex
	accounts map[string]*account // by user name
	tokens   map[string]string   // token -> user name
	entries  map[string][]entry.Entry
	failures map[string][]failure
	gates    map[string]chan struct{}
	calls    map[string]int
	clock    time.Time
}

type account struct {
	password string
	user     api.User
}

type failure struct {
	status int
	msg    string
}

// New starts a server and registers its shutdown with t.Cleanup.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		accounts: make(map[string]*account),
		tokens:   make(map[string]string),
		entries:  make(map[string][]entry.Entry),
		failures: make(map[string][]failure),
		gates:    make(map[string]chan struct{}),
		calls:    make(map[string]int),
		clock:    time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC),
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

// AddUser registers an account and returns a valid token for it.
func (s *Server) AddUser(name, password string, roles ...string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(roles) == 0 {
		roles = []string{"USER"}
	}
	s.accounts[name] = &account{
		password: password,
		user:     api.User{ID: uuid.NewString(), UserName: name, Email: name + "@example.com", Roles: roles},
	}
	return s.issueLocked(name)
}

// Seed stores entries for user, newest first, and returns them with ids and
// dates assigned.
func (s *Server) Seed(user string, drafts ...entry.Draft) []entry.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entry.Entry, 0, len(drafts))
	for _, d := range drafts {
		e := s.newEntryLocked(d)
		s.entries[user] = append([]entry.Entry{e}, s.entries[user]...)
		out = append(out, e)
	}
	return out
}

// Entries returns a copy of what the server holds for user.
func (s *Server) Entries(user string) []entry.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entry.Entry(nil), s.entries[user]...)
}

// Fail makes the next call to method+path answer with status and msg. The
// path is the route template, e.g. "/journal/id/{id}".
func (s *Server) Fail(method, path string, status int, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(method, path)
	s.failures[k] = append(s.failures[k], failure{status: status, msg: msg})
}

// Hold blocks calls to method+path until the returned release func runs.
func (s *Server) Hold(method, path string) (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{})
	s.gates[key(method, path)] = ch
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.gates, key(method, path))
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Calls reports how many requests reached method+path.
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key(method, path)]
}

func key(method, path string) string {
	return method + " " + path
}

func (s *Server) issueLocked(name string) string {
	tok := "tok-" + uuid.NewString()
	s.tokens[tok] = name
	return tok
}

func (s *Server) newEntryLocked(d entry.Draft) entry.Entry {
	s.clock = s.clock.Add(time.Minute)
	d = d.Normalize()
	return entry.Entry{
		ID:        uuid.NewString(),
		Title:     d.Title,
		Content:   d.Content,
		Sentiment: d.Sentiment,
		Date:      entry.Timestamp{Time: s.clock},
	}
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.intercept)

	r.HandleFunc("/public/signup", s.signup).Methods(http.MethodPost)
	r.HandleFunc("/public/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/google/url", s.googleURL).Methods(http.MethodGet)
	r.HandleFunc("/auth/google/callback", s.googleCallback).Methods(http.MethodGet)

	r.HandleFunc("/journal", s.authed(s.listEntries)).Methods(http.MethodGet)
	r.HandleFunc("/journal", s.authed(s.createEntry)).Methods(http.MethodPost)
	r.HandleFunc("/journal/id/{id}", s.authed(s.getEntry)).Methods(http.MethodGet)
	r.HandleFunc("/journal/id/{id}", s.authed(s.updateEntry)).Methods(http.MethodPut)
	r.HandleFunc("/journal/id/{id}", s.authed(s.deleteEntry)).Methods(http.MethodDelete)

	r.HandleFunc("/api/weather/{location}", s.weather).Methods(http.MethodGet)

	r.HandleFunc("/admin/create-admin-user", s.admin(s.createAdmin)).Methods(http.MethodPost)
	r.HandleFunc("/admin/all-users", s.admin(s.listUsers)).Methods(http.MethodGet)
	return r
}

// intercept counts calls, waits on gates and injects failures.
func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tmpl := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if t, err := route.GetPathTemplate(); err == nil {
				tmpl = t
			}
		}
		k := key(r.Method, tmpl)

		s.mu.Lock()
		s.calls[k]++
		gate := s.gates[k]
		var fail *failure
		if queue := s.failures[k]; len(queue) > 0 {
			f := queue[0]
			fail = &f
			s.failures[k] = queue[1:]
		}
		s.mu.Unlock()

		if gate != nil {
			<-gate
		}
		if fail != nil {
			writeError(w, fail.status, fail.msg)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type ctxUser struct {
	name string
	acct *account
}

func (s *Server) caller(r *http.Request) (ctxUser, bool) {
	h := r.Header.Get("Authorization")
	tok, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		return ctxUser{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.tokens[tok]
	if !ok {
		return ctxUser{}, false
	}
	return ctxUser{name: name, acct: s.accounts[name]}, true
}

func (s *Server) authed(h func(http.ResponseWriter, *http.Request, ctxUser)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := s.caller(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		h(w, r, u)
	}
}

func (s *Server) admin(h func(http.ResponseWriter, *http.Request, ctxUser)) http.HandlerFunc {
	return s.authed(func(w http.ResponseWriter, r *http.Request, u ctxUser) {
		if u.acct == nil || !u.acct.user.IsAdmin() {
			writeError(w, http.StatusForbidden, "Access denied")
			return
		}
		h(w, r, u)
	})
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var nu api.NewUser
	if err := json.NewDecoder(r.Body).Decode(&nu); err != nil || nu.Validate() != nil {
		writeError(w, http.StatusBadRequest, "userName, email and password are required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[nu.UserName]; exists {
		writeError(w, http.StatusConflict, "User already exists")
		return
	}
	s.accounts[nu.UserName] = &account{
		password: nu.Password,
		user:     api.User{ID: uuid.NewString(), UserName: nu.UserName, Email: nu.Email, Roles: []string{"USER"}},
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds api.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	s.mu.Lock()
	acct, ok := s.accounts[creds.UserName]
	if !ok || acct.password != creds.Password {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}
	tok := s.issueLocked(creds.UserName)
	user := acct.user
	bare := s.BareTokenLogin
	s.mu.Unlock()

	if bare {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = fmt.Fprint(w, tok)
		return
	}
	writeJSON(w, http.StatusOK, api.Auth{Token: tok, User: user})
}

func (s *Server) googleURL(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprint(w, s.URL+"/oauth2/authorization/google")
}

func (s *Server) googleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code != "good-code" {
		writeError(w, http.StatusUnauthorized, "Google authentication failed")
		return
	}
	s.mu.Lock()
	const name = "google-user"
	if _, ok := s.accounts[name]; !ok {
		s.accounts[name] = &account{user: api.User{ID: uuid.NewString(), UserName: name, Email: "google@example.com", Roles: []string{"USER"}}}
	}
	tok := s.issueLocked(name)
	user := s.accounts[name].user
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, api.Auth{Token: tok, User: user})
}

func (s *Server) listEntries(w http.ResponseWriter, _ *http.Request, u ctxUser) {
	writeJSON(w, http.StatusOK, s.Entries(u.name))
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request, u ctxUser) {
	var d entry.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	s.mu.Lock()
	e := s.newEntryLocked(d)
	s.entries[u.name] = append([]entry.Entry{e}, s.entries[u.name]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) find(user, id string) (int, bool) {
	for i, e := range s.entries[user] {
		if e.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request, u ctxUser) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	i, ok := s.find(u.name, id)
	var e entry.Entry
	if ok {
		e = s.entries[u.name][i]
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Journal entry not found")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) updateEntry(w http.ResponseWriter, r *http.Request, u ctxUser) {
	id := mux.Vars(r)["id"]
	var d entry.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	s.mu.Lock()
	i, ok := s.find(u.name, id)
	var e entry.Entry
	if ok {
		e = s.entries[u.name][i]
		d = d.Normalize()
		if d.Title != "" {
			e.Title = d.Title
		}
		if d.Content != "" {
			e.Content = d.Content
		}
		e.Sentiment = d.Sentiment
		s.entries[u.name][i] = e
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Journal entry not found")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request, u ctxUser) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	i, ok := s.find(u.name, id)
	if ok {
		list := s.entries[u.name]
		s.entries[u.name] = append(list[:i:i], list[i+1:]...)
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Journal entry not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) weather(w http.ResponseWriter, r *http.Request) {
	loc := mux.Vars(r)["location"]
	temp, feels, humidity := 31, 35, 70
	writeJSON(w, http.StatusOK, api.Weather{
		Location: &api.WeatherLocation{Name: loc, Country: "India"},
		Current: &api.CurrentWeather{
			Temperature:         &temp,
			FeelsLike:           &feels,
			Humidity:            &humidity,
			WeatherDescriptions: []string{"Partly cloudy"},
			WeatherIcons:        []string{"https://example.com/icon.png"},
		},
	})
}

func (s *Server) createAdmin(w http.ResponseWriter, r *http.Request, _ ctxUser) {
	var nu api.NewUser
	if err := json.NewDecoder(r.Body).Decode(&nu); err != nil || nu.Validate() != nil {
		writeError(w, http.StatusBadRequest, "userName, email and password are required")
		return
	}
	s.mu.Lock()
	s.accounts[nu.UserName] = &account{
		password: nu.Password,
		user:     api.User{ID: uuid.NewString(), UserName: nu.UserName, Email: nu.Email, Roles: []string{"USER", "ADMIN"}},
	}
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) listUsers(w http.ResponseWriter, _ *http.Request, _ ctxUser) {
	s.mu.Lock()
	users := make([]api.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		users = append(users, a.user)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, users)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"status": status, "message": msg})
}
