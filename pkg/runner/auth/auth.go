// Package auth has the runners for signing up, logging in and out.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/journal/pkg/api"
	"tableflip.dev/journal/pkg/prompt"
	"tableflip.dev/journal/pkg/session"
)

const (
	loginFailed  = "Login failed. Please try again."
	googleFailed = "Google authentication failed"
	signupFailed = "Signup failed"
)

// Backend is the public part of *api.Client.
type Backend interface {
	Login(ctx context.Context, creds api.Credentials) (api.Auth, error)
	GoogleAuthURL(ctx context.Context) (string, error)
	GoogleLogin(ctx context.Context, code string) (api.Auth, error)
	Signup(ctx context.Context, u api.NewUser) error
}

type Login struct {
	UserName      string
	Google        bool
	Code          string
	PasswordStdin bool

	Backend  Backend
	Session  *session.Store
	Prompter prompt.Prompter
	In       io.Reader
	Out      io.Writer
}

func (l *Login) out() io.Writer {
	if l.Out != nil {
		return l.Out
	}
	return color.Output
}

func (l *Login) Do(ctx context.Context) error {
	if l.Session == nil || l.Backend == nil {
		return errors.New("auth: not configured")
	}

	var (
		auth api.Auth
		err  error
	)
	switch {
	case strings.TrimSpace(l.Code) != "":
		auth, err = l.exchange(ctx, l.Code)
	case l.Google:
		auth, err = l.google(ctx)
	default:
		auth, err = l.password(ctx)
	}
	if err != nil {
		return err
	}

	if err := l.Session.Login(auth.Token, auth.User); err != nil {
		return err
	}
	_, _ = color.New(color.FgGreen).Fprintf(l.out(), "Logged in as %s\n", auth.User.DisplayName())
	return nil
}

func (l *Login) password(ctx context.Context) (api.Auth, error) {
	name := strings.TrimSpace(l.UserName)
	if name == "" {
		if l.Prompter == nil {
			return api.Auth{}, errors.New("username is required")
		}
		var err error
		if name, err = l.Prompter.Text("Username", "", prompt.NotBlank); err != nil {
			return api.Auth{}, err
		}
	}

	var (
		pw  string
		err error
	)
	switch {
	case l.PasswordStdin:
		pw, err = prompt.ReadLine(l.In)
	case l.Prompter != nil:
		pw, err = l.Prompter.Password("Password")
	default:
		err = errors.New("password is required")
	}
	if err != nil {
		return api.Auth{}, err
	}

	auth, err := l.Backend.Login(ctx, api.Credentials{UserName: strings.TrimSpace(name), Password: pw})
	if err != nil {
		return api.Auth{}, errors.New(api.Message(err, loginFailed))
	}
	return auth, nil
}

func (l *Login) google(ctx context.Context) (api.Auth, error) {
	u, err := l.Backend.GoogleAuthURL(ctx)
	if err != nil {
		return api.Auth{}, errors.New(api.Message(err, googleFailed))
	}
	_, _ = fmt.Fprintf(l.out(), "Open this URL in a browser and sign in:\n\n  %s\n\n", u)
	if l.Prompter == nil {
		return api.Auth{}, errors.New("re-run with --code once you have the authorization code")
	}
	code, err := l.Prompter.Text("Authorization code or redirect URL", "", prompt.NotBlank)
	if err != nil {
		return api.Auth{}, err
	}
	return l.exchange(ctx, code)
}

func (l *Login) exchange(ctx context.Context, code string) (api.Auth, error) {
	if auth, ok := ParseRedirect(code); ok {
		return auth, nil
	}
	if u, err := url.Parse(strings.TrimSpace(code)); err == nil && u.Query().Get("code") != "" {
		code = u.Query().Get("code")
	}
	auth, err := l.Backend.GoogleLogin(ctx, strings.TrimSpace(code))
	if err != nil {
		return api.Auth{}, errors.New(api.Message(err, googleFailed))
	}
	return auth, nil
}

// ParseRedirect reads the session from the URL the backend redirects to after
// an OAuth sign-in: ?token=...&email=...&username=...
func ParseRedirect(s string) (api.Auth, bool) {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.RawQuery == "" {
		return api.Auth{}, false
	}
	q := u.Query()
	token, email := q.Get("token"), q.Get("email")
	if token == "" || email == "" {
		return api.Auth{}, false
	}
	name := q.Get("username")
	if name == "" {
		name = email
	}
	return api.Auth{Token: token, User: api.User{UserName: name, Email: email}}, true
}

type Signup struct {
	UserName          string
	Email             string
	SentimentAnalysis bool
	PasswordStdin     bool

	Backend  Backend
	Prompter prompt.Prompter
	In       io.Reader
	Out      io.Writer
}

func (s *Signup) Do(ctx context.Context) error {
	u, err := FillNewUser(s.Prompter, s.In, s.PasswordStdin, api.NewUser{
		UserName:          s.UserName,
		Email:             s.Email,
		SentimentAnalysis: s.SentimentAnalysis,
	})
	if err != nil {
		return err
	}
	if err := s.Backend.Signup(ctx, u); err != nil {
		return errors.New(api.Message(err, signupFailed))
	}
	out := s.Out
	if out == nil {
		out = color.Output
	}
	_, _ = color.New(color.FgGreen).Fprintf(out, "Account %s created, run `journal login` to sign in.\n", u.UserName)
	return nil
}

// FillNewUser prompts for every required field u is missing.
func FillNewUser(p prompt.Prompter, in io.Reader, passwordStdin bool, u api.NewUser) (api.NewUser, error) {
	var err error
	if strings.TrimSpace(u.UserName) == "" && p != nil {
		if u.UserName, err = p.Text("Username", "", prompt.NotBlank); err != nil {
			return u, err
		}
	}
	if strings.TrimSpace(u.Email) == "" && p != nil {
		if u.Email, err = p.Text("Email", "", validEmail); err != nil {
			return u, err
		}
	}
	switch {
	case passwordStdin:
		u.Password, err = prompt.ReadLine(in)
	case p != nil:
		u.Password, err = p.Password("Password")
	}
	if err != nil {
		return u, err
	}
	u.UserName = strings.TrimSpace(u.UserName)
	u.Email = strings.TrimSpace(u.Email)
	return u, u.Validate()
}

func validEmail(s string) error {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '@'); i <= 0 || i == len(s)-1 {
		return errors.New("not an email address")
	}
	return nil
}

type Logout struct {
	Session *session.Store
	Out     io.Writer
}

func (l *Logout) Do(_ context.Context) error {
	was := l.Session.IsAuthenticated()
	if err := l.Session.Logout(); err != nil {
		return err
	}
	out := l.Out
	if out == nil {
		out = color.Output
	}
	if was {
		_, _ = fmt.Fprintln(out, "Logged out.")
	} else {
		_, _ = fmt.Fprintln(out, "Not logged in.")
	}
	return nil
}

type WhoAmI struct {
	JSON    bool
	Session *session.Store
	Out     io.Writer
}

func (w *WhoAmI) Do(_ context.Context) error {
	out := w.Out
	if out == nil {
		out = color.Output
	}
	cur, err := w.Session.Require()
	if err != nil {
		return err
	}
	u := cur.User
	if w.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(u)
	}
	_, _ = color.New(color.Bold).Fprintf(out, "Hi, %s\n", u.DisplayName())
	if u.Email != "" {
		_, _ = fmt.Fprintf(out, "email: %s\n", u.Email)
	}
	if len(u.Roles) > 0 {
		_, _ = fmt.Fprintf(out, "roles: %s\n", strings.Join(u.Roles, ", "))
	}
	return nil
}
