package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"tableflip.dev/journal/pkg/entry"
)

// User is the profile attached to a session and the row shown in the admin
// user list.
type User struct {
	ID       string   `json:"id,omitempty"`
	UserName string   `json:"userName"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// UnmarshalJSON also accepts "username", which the OAuth redirect uses.
func (u *User) UnmarshalJSON(b []byte) error {
	type plain User
	var raw struct {
		plain
		Lower string `json:"username"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*u = User(raw.plain)
	if u.UserName == "" {
		u.UserName = raw.Lower
	}
	return nil
}

// HasRole is case-insensitive and ignores a ROLE_ prefix.
func (u User) HasRole(role string) bool {
	want := normalizeRole(role)
	for _, r := range u.Roles {
		if normalizeRole(r) == want {
			return true
		}
	}
	return false
}

// IsAdmin reports whether u holds the ADMIN role.
func (u User) IsAdmin() bool {
	return u.HasRole("ADMIN")
}

func normalizeRole(r string) string {
	return strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(r)), "ROLE_")
}

// DisplayName is the user name, then the email, then "User".
func (u User) DisplayName() string {
	switch {
	case u.UserName != "":
		return u.UserName
	case u.Email != "":
		return u.Email
	}
	return "User"
}

// NewUser is the body of sign-up and admin creation.
type NewUser struct {
	UserName          string `json:"userName"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	SentimentAnalysis bool   `json:"sentimentAnalysis"`
}

// Validate checks the fields the backend requires. Failures are
// *entry.ValidationError so Message shows them as they are.
func (n NewUser) Validate() error {
	switch {
	case strings.TrimSpace(n.UserName) == "":
		return &entry.ValidationError{Field: "userName", Message: "Username is required"}
	case strings.TrimSpace(n.Email) == "":
		return &entry.ValidationError{Field: "email", Message: "Email is required"}
	case n.Password == "":
		return &entry.ValidationError{Field: "password", Message: "Password is required"}
	}
	return nil
}

// Credentials is the body of a password login.
type Credentials struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// Auth is a successful login: the bearer token and the user it belongs to.
type Auth struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, u NewUser) error {
	return c.doJSON(ctx, request{method: http.MethodPost, path: "/public/signup", body: u}, nil)
}

// Login exchanges credentials for a token. The backend answers either with
// {token, user} or with the bare token; the latter is normalized so the user
// always carries at least the login name.
func (c *Client) Login(ctx context.Context, creds Credentials) (Auth, error) {
	data, err := c.do(ctx, request{method: http.MethodPost, path: "/public/login", body: creds})
	if err != nil {
		return Auth{}, err
	}
	auth, err := decodeAuth(data)
	if err != nil {
		return Auth{}, err
	}
	if auth.User.UserName == "" {
		auth.User.UserName = creds.UserName
	}
	if auth.User.Email == "" {
		auth.User.Email = creds.UserName
	}
	return auth, nil
}

// GoogleAuthURL returns the address the user should open to start the OAuth
// flow.
func (c *Client) GoogleAuthURL(ctx context.Context) (string, error) {
	data, err := c.do(ctx, request{method: http.MethodGet, path: "/auth/google/url"})
	if err != nil {
		return "", err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var body struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(trimmed, &body); err == nil && body.URL != "" {
			return body.URL, nil
		}
	}
	u := strings.TrimSpace(decodeText(trimmed))
	if u == "" {
		return "", &ServerError{Status: http.StatusOK, Err: errors.New("empty oauth url")}
	}
	return u, nil
}

// GoogleLogin exchanges the OAuth callback code for a token.
func (c *Client) GoogleLogin(ctx context.Context, code string) (Auth, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Auth{}, errors.New("api: oauth code is required")
	}
	data, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/google/callback",
		query:  url.Values{"code": []string{code}},
	})
	if err != nil {
		return Auth{}, err
	}
	return decodeAuth(data)
}

func decodeAuth(data []byte) (Auth, error) {
	trimmed := bytes.TrimSpace(data)
	var auth Auth
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &auth); err != nil {
			return Auth{}, &ServerError{Status: http.StatusOK, Err: err}
		}
	} else {
		auth.Token = strings.TrimSpace(decodeText(trimmed))
	}
	if auth.Token == "" {
		return Auth{}, &ServerError{Status: http.StatusOK, Message: "Login failed: No token received"}
	}
	enrichFromClaims(&auth)
	return auth, nil
}

// enrichFromClaims fills missing profile fields from the token payload. The
// signature is not checked: the claims are only used for display.
func enrichFromClaims(auth *Auth) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(auth.Token, claims); err != nil {
		return
	}
	if auth.User.UserName == "" {
		if sub, err := claims.GetSubject(); err == nil {
			auth.User.UserName = sub
		}
	}
	if auth.User.Email == "" {
		if email, ok := claims["email"].(string); ok {
			auth.User.Email = email
		}
	}
	if len(auth.User.Roles) == 0 {
		auth.User.Roles = claimStrings(claims["roles"])
	}
}

func claimStrings(v any) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return strings.Split(t, ",")
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
