package entry

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Entry is a journal record as the backend returns it.
type Entry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Sentiment Sentiment `json:"sentiment,omitempty"`
	Date      Timestamp `json:"date"`
}

// UnmarshalJSON accepts both "id" and the Mongo-style "_id" key.
func (e *Entry) UnmarshalJSON(b []byte) error {
	type plain Entry
	var raw struct {
		plain
		MongoID json.RawMessage `json:"_id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*e = Entry(raw.plain)
	if e.ID == "" && len(raw.MongoID) > 0 {
		id, err := decodeID(raw.MongoID)
		if err != nil {
			return err
		}
		e.ID = id
	}
	return nil
}

// decodeID handles "_id" as a string, a number, or an {"$oid": "..."} object.
func decodeID(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var oid struct {
		OID string `json:"$oid"`
	}
	if err := json.Unmarshal(raw, &oid); err == nil && oid.OID != "" {
		return oid.OID, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("entry: unsupported _id value %s", string(raw))
}

// Draft returns the editable fields of e.
func (e Entry) Draft() Draft {
	return Draft{Title: e.Title, Content: e.Content, Sentiment: e.Sentiment}
}

// Merge copies the non-empty fields of the server payload into e. The id and
// date are only taken when present.
func (e *Entry) Merge(from Entry) {
	if from.ID != "" {
		e.ID = from.ID
	}
	if from.Title != "" {
		e.Title = from.Title
	}
	if from.Content != "" {
		e.Content = from.Content
	}
	if from.Sentiment != "" {
		e.Sentiment = from.Sentiment
	}
	if !from.Date.IsZero() {
		e.Date = from.Date
	}
}

// Preview is the first line of the content, cut to n runes.
func (e Entry) Preview(n int) string {
	line := strings.TrimSpace(e.Content)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	r := []rune(line)
	if n > 0 && len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return line
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %s", e.Sentiment.Emoji(), e.Title)
}

// Draft is the body of a create or update request.
type Draft struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Sentiment Sentiment `json:"sentiment"`
}

// Normalize trims the text fields and defaults an empty mood to HAPPY.
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Content = strings.TrimSpace(d.Content)
	if d.Sentiment == "" {
		d.Sentiment = DefaultSentiment
	}
	return d
}

// Validate reports the first problem with d as a *ValidationError.
func (d Draft) Validate() error {
	n := d.Normalize()
	if n.Title == "" || n.Content == "" {
		return &ValidationError{Field: missingField(n), Message: "Title and content are required"}
	}
	if !n.Sentiment.Valid() {
		return &ValidationError{Field: "sentiment", Message: fmt.Sprintf("Invalid mood %q", string(d.Sentiment))}
	}
	return nil
}

func missingField(d Draft) string {
	if d.Title == "" {
		return "title"
	}
	return "content"
}

// Patch carries the fields of a partial update. Nil fields are left alone.
type Patch struct {
	Title     *string
	Content   *string
	Sentiment *Sentiment
}

// Empty reports whether p changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Sentiment == nil
}

// Apply overlays p onto the current values of e.
func (p Patch) Apply(e Entry) Draft {
	d := e.Draft()
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Content != nil {
		d.Content = *p.Content
	}
	if p.Sentiment != nil {
		d.Sentiment = *p.Sentiment
	}
	return d
}

// PatchFrom builds a patch that replaces every field with the values of d.
func PatchFrom(d Draft) Patch {
	title, content, sentiment := d.Title, d.Content, d.Sentiment
	return Patch{Title: &title, Content: &content, Sentiment: &sentiment}
}

// ValidationError is a client-side rejection of a draft. No request is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
