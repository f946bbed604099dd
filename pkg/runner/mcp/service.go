// Package mcp exposes the remote journal to local tools over the Model
// Context Protocol.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/journal"
)

// Journal is the part of *journal.Synchronizer the MCP server uses.
type Journal interface {
	List(ctx context.Context) ([]entry.Entry, error)
	Fetch(ctx context.Context, id string) (entry.Entry, error)
	Create(ctx context.Context, d entry.Draft) (entry.Entry, error)
	Update(ctx context.Context, id string, p entry.Patch) (entry.Entry, error)
	Delete(ctx context.Context, id string, c journal.Confirmer) error
}

var _ Journal = (*journal.Synchronizer)(nil)

// Service maps MCP requests onto journal operations.
type Service struct {
	Journal Journal
}

// ErrConfirmRequired is returned when delete_entry is called without confirm.
var ErrConfirmRequired = errors.New("delete requires confirm=true")

// AddEntryOptions captures the parameters used to create a new entry.
type AddEntryOptions struct {
	Title   string
	Content string
	Mood    entry.Sentiment
}

// UpdateEntryOptions carries only the fields the caller supplied.
type UpdateEntryOptions struct {
	ID      string
	Title   *string
	Content *string
	Mood    *entry.Sentiment
}

// MoodSummary counts entries per mood.
type MoodSummary struct {
	Mood       string `json:"mood"`
	Emoji      string `json:"emoji"`
	EntryCount int    `json:"entryCount"`
	LastTitle  string `json:"lastTitle,omitempty"`
}

// EntryDTO is a transport-friendly projection of an entry.
type EntryDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content,omitempty"`
	Mood      string `json:"mood"`
	MoodEmoji string `json:"moodEmoji"`
	DateISO   string `json:"date,omitempty"`
	DateUnix  int64  `json:"dateUnix,omitempty"`
}

// NewService builds a service over j.
func NewService(j Journal) *Service {
	return &Service{Journal: j}
}

func (s *Service) ready() error {
	if s.Journal == nil {
		return errors.New("journal is not configured")
	}
	return nil
}

// ListEntries returns entries in server order, optionally filtered by mood
// and capped at limit when limit > 0.
func (s *Service) ListEntries(ctx context.Context, mood entry.Sentiment, limit int) ([]EntryDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	entries, err := s.Journal.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		if mood != "" && e.Sentiment != mood {
			continue
		}
		out = append(out, toDTO(e))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// SearchEntries matches query case-insensitively against titles and content.
func (s *Service) SearchEntries(ctx context.Context, query string, limit int) ([]EntryDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, errors.New("query is required")
	}
	if limit <= 0 {
		limit = 20
	}
	entries, err := s.Journal.List(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]EntryDTO, 0, limit)
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Title), q) || strings.Contains(strings.ToLower(e.Content), q) {
			results = append(results, toDTO(e))
			if len(results) == limit {
				break
			}
		}
	}
	return results, nil
}

// Moods summarizes the collection per mood, in display order.
func (s *Service) Moods(ctx context.Context) ([]MoodSummary, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	entries, err := s.Journal.List(ctx)
	if err != nil {
		return nil, err
	}
	byMood := make(map[entry.Sentiment]*MoodSummary)
	summaries := make([]MoodSummary, 0, len(entry.Sentiments()))
	for _, m := range entry.Sentiments() {
		summaries = append(summaries, MoodSummary{Mood: string(m), Emoji: m.Emoji()})
	}
	for i := range summaries {
		byMood[entry.Sentiment(summaries[i].Mood)] = &summaries[i]
	}
	for _, e := range entries {
		sum, ok := byMood[e.Sentiment]
		if !ok {
			continue
		}
		if sum.EntryCount == 0 {
			sum.LastTitle = e.Title
		}
		sum.EntryCount++
	}
	return summaries, nil
}

// EntryByID returns the entry, fetching it when it is not cached.
func (s *Service) EntryByID(ctx context.Context, id string) (*EntryDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("entry id is required")
	}
	e, err := s.Journal.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(e)
	return &dto, nil
}

// AddEntry creates an entry, defaulting the mood.
func (s *Service) AddEntry(ctx context.Context, opts AddEntryOptions) (*EntryDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	mood := opts.Mood
	if mood == "" {
		mood = entry.DefaultSentiment
	}
	e, err := s.Journal.Create(ctx, entry.Draft{Title: opts.Title, Content: opts.Content, Sentiment: mood})
	if err != nil {
		return nil, err
	}
	dto := toDTO(e)
	return &dto, nil
}

// UpdateEntry applies the supplied fields to an existing entry.
func (s *Service) UpdateEntry(ctx context.Context, opts UpdateEntryOptions) (*EntryDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	p := entry.Patch{Title: opts.Title, Content: opts.Content, Sentiment: opts.Mood}
	if p.Empty() {
		return nil, errors.New("nothing to update, set title, content or mood")
	}
	e, err := s.Journal.Update(ctx, opts.ID, p)
	if err != nil {
		return nil, err
	}
	dto := toDTO(e)
	return &dto, nil
}

// DeleteEntry removes an entry. confirm must be true.
func (s *Service) DeleteEntry(ctx context.Context, id string, confirm bool) error {
	if err := s.ready(); err != nil {
		return err
	}
	if !confirm {
		return ErrConfirmRequired
	}
	return s.Journal.Delete(ctx, id, journal.Always)
}

func toDTO(e entry.Entry) EntryDTO {
	dto := EntryDTO{
		ID:        e.ID,
		Title:     e.Title,
		Content:   e.Content,
		Mood:      string(e.Sentiment),
		MoodEmoji: e.Sentiment.Emoji(),
	}
	if !e.Date.IsZero() {
		dto.DateISO = entry.FormatTime(e.Date.Time)
		dto.DateUnix = e.Date.Unix()
	}
	return dto
}

// ParseMood converts user input into a Sentiment, returning fallback when
// input is blank.
func ParseMood(input string, fallback entry.Sentiment) (entry.Sentiment, error) {
	if strings.TrimSpace(input) == "" {
		return fallback, nil
	}
	m, err := entry.ParseSentiment(input)
	if err != nil {
		return "", fmt.Errorf("unknown mood %q", input)
	}
	return m, nil
}
