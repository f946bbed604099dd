package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"tableflip.dev/journal/pkg/entry"
)

// ListEntries returns the current user's entries in server order.
func (c *Client) ListEntries(ctx context.Context) ([]entry.Entry, error) {
	var out []entry.Entry
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "/journal", auth: true}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []entry.Entry{}
	}
	return out, nil
}

// GetEntry fetches one entry by id.
func (c *Client) GetEntry(ctx context.Context, id string) (entry.Entry, error) {
	p, err := entryPath(id)
	if err != nil {
		return entry.Entry{}, err
	}
	var out entry.Entry
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: p, auth: true}, &out); err != nil {
		return entry.Entry{}, err
	}
	return out, nil
}

// CreateEntry posts d and returns the stored entry with its server id and date.
func (c *Client) CreateEntry(ctx context.Context, d entry.Draft) (entry.Entry, error) {
	var out entry.Entry
	if err := c.doJSON(ctx, request{method: http.MethodPost, path: "/journal", auth: true, body: d}, &out); err != nil {
		return entry.Entry{}, err
	}
	return out, nil
}

// UpdateEntry replaces title, content and mood of entry id.
func (c *Client) UpdateEntry(ctx context.Context, id string, d entry.Draft) (entry.Entry, error) {
	p, err := entryPath(id)
	if err != nil {
		return entry.Entry{}, err
	}
	var out entry.Entry
	if err := c.doJSON(ctx, request{method: http.MethodPut, path: p, auth: true, body: d}, &out); err != nil {
		return entry.Entry{}, err
	}
	return out, nil
}

// DeleteEntry removes entry id.
func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	p, err := entryPath(id)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{method: http.MethodDelete, path: p, auth: true})
	return err
}

func entryPath(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.New("api: entry id is required")
	}
	return "/journal/id/" + url.PathEscape(id), nil
}
