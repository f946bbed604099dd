package entry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime accepts RFC3339 and the zone-less forms the backend emits for
// LocalDateTime values. Zone-less values are read as local time.
func ParseTime(v string) (time.Time, error) {
	var firstErr error
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, v, time.Local)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// Timestamp is the backend-assigned creation date of an entry.
type Timestamp struct {
	time.Time
}

func (t Timestamp) SameDay(then time.Time) bool {
	if t.Local().Day() == then.Local().Day() &&
		t.Local().Month() == then.Local().Month() &&
		t.Local().Year() == then.Local().Year() {
		return true
	}
	return false
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(fmt.Sprintf("%q", FormatTime(t.Time))), nil
}

// UnmarshalJSON reads a date string, null, or the [y,m,d,h,mi,s,ns] array
// Jackson writes when JSR-310 dates are not configured as strings.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if b[0] == '[' {
		var parts []int
		if err := json.Unmarshal(b, &parts); err != nil {
			return err
		}
		return t.fromParts(parts)
	}
	var timestamp string
	if err := json.Unmarshal(b, &timestamp); err != nil {
		return err
	}
	if timestamp == "" {
		t.Time = time.Time{}
		return nil
	}
	var err error
	t.Time, err = ParseTime(timestamp)
	return err
}

func (t *Timestamp) fromParts(parts []int) error {
	if len(parts) < 3 {
		return fmt.Errorf("entry: date array needs at least 3 parts, got %d", len(parts))
	}
	p := make([]int, 7)
	copy(p, parts)
	t.Time = time.Date(p[0], time.Month(p[1]), p[2], p[3], p[4], p[5], p[6], time.Local)
	return nil
}

func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("Jan 2, 2006 3:04 PM")
}

func FormatTime(v time.Time) string {
	return v.UTC().Format(time.RFC3339Nano)
}
