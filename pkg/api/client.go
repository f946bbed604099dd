// Package api is the HTTP adapter for the journal backend. Every call is a
// single request; failures come back as the typed errors in errors.go.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/journal/pkg/logging"
)

const (
	DefaultBaseURL = "https://journal-application-production.up.railway.app"
	DefaultTimeout = 15 * time.Second

	maxBody = 4 << 20
)

// TokenSource yields the bearer token for authenticated calls, or "" when
// logged out. The session store implements it.
type TokenSource interface {
	Token() string
}

// Config configures a Client. Zero values take the defaults.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
}

// Client talks to the journal backend.
type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource
	log    logging.Logger
	ua     string
}

// New validates cfg and returns a Client. tokens may be nil for a client that
// only uses the public endpoints.
func New(cfg Config, tokens TokenSource, log logging.Logger) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("api: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: base url %q must be http or https", base)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	if log == nil {
		log = logging.Discard()
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "journal-cli"
	}
	return &Client{
		base:   strings.TrimRight(u.String(), "/"),
		http:   hc,
		tokens: tokens,
		log:    log.With("component", "api"),
		ua:     ua,
	}, nil
}

// BaseURL returns the backend address requests are sent to.
func (c *Client) BaseURL() string {
	return c.base
}

type request struct {
	method string
	path   string // already escaped
	query  url.Values
	auth   bool
	body   any
}

// do sends r and returns the raw body of a 2xx response.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	target := c.base + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("api: encode %s %s: %w", r.method, r.path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("api: build %s %s: %w", r.method, r.path, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.ua)
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.auth && c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	log := c.log.With("method", r.method, "path", r.path, "request_id", reqID)
	log.Debug(ctx, "request")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "no response", "error", err)
		return nil, &NetworkError{Op: r.method + " " + r.path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		log.Warn(ctx, "read response", "status", resp.StatusCode, "error", err)
		return nil, &NetworkError{Op: r.method + " " + r.path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := extractMessage(data)
		log.Warn(ctx, "request failed", "status", resp.StatusCode, "message", msg)
		return nil, errorForStatus(resp.StatusCode, msg)
	}
	log.Debug(ctx, "response", "status", resp.StatusCode, "bytes", len(data))
	return data, nil
}

// doJSON sends r and decodes a 2xx body into out.
func (c *Client) doJSON(ctx context.Context, r request, out any) error {
	data, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &ServerError{Status: http.StatusOK, Err: errors.New("empty response body")}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ServerError{Status: http.StatusOK, Err: fmt.Errorf("decode %s %s: %w", r.method, r.path, err)}
	}
	return nil
}

// maxPlainMessage caps how much of a plain-text error body is shown, in
// terminal cells.
const maxPlainMessage = 200

// extractMessage pulls a human-readable message out of an error body. JSON
// bodies are searched for message/error/detail; short plain text is used
// as is; HTML error pages are ignored.
func extractMessage(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ""
	}
	switch data[0] {
	case '{':
		var body struct {
			Message string `json:"message"`
			Error   string `json:"error"`
			Detail  string `json:"detail"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return ""
		}
		for _, s := range []string{body.Message, body.Detail, body.Error} {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
		return ""
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	case '<':
		return ""
	}
	return strings.TrimSpace(truncate.String(string(data), maxPlainMessage))
}

// decodeText reads a body that is either a JSON string or raw text.
func decodeText(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			return s
		}
	}
	return string(data)
}
