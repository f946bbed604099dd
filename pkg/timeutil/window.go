// Package timeutil parses the look-back windows accepted by `journal list --last`.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

var (
	segment = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	units   = map[string]time.Duration{
		"h":      time.Hour,
		"hr":     time.Hour,
		"hrs":    time.Hour,
		"hour":   time.Hour,
		"hours":  time.Hour,
		"d":      day,
		"day":    day,
		"days":   day,
		"w":      7 * day,
		"wk":     7 * day,
		"week":   7 * day,
		"weeks":  7 * day,
		"mo":     30 * day,
		"month":  30 * day,
		"months": 30 * day,
	}
)

// Window is a look-back period ending now. The zero Window matches
// everything.
type Window struct {
	d time.Duration
}

// ParseWindow reads "3d", "2w" or combinations like "1w2d". A blank input is
// the zero Window.
func ParseWindow(input string) (Window, error) {
	rest := strings.ToLower(strings.TrimSpace(input))
	if rest == "" {
		return Window{}, nil
	}
	var total time.Duration
	for len(rest) > 0 {
		m := segment.FindStringSubmatch(rest)
		if len(m) != 3 {
			return Window{}, fmt.Errorf("invalid window segment %q", strings.TrimSpace(rest))
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return Window{}, fmt.Errorf("invalid window value %q: %w", m[1], err)
		}
		unit, ok := units[m[2]]
		if !ok {
			return Window{}, fmt.Errorf("unsupported window unit %q, use h, d, w or mo", m[2])
		}
		total += time.Duration(n) * unit
		rest = rest[len(m[0]):]
	}
	if total <= 0 {
		return Window{}, fmt.Errorf("window must be greater than zero")
	}
	return Window{d: total}, nil
}

func (w Window) IsZero() bool { return w.d == 0 }

// Since is the start of the window measured back from now.
func (w Window) Since(now time.Time) time.Time {
	if w.IsZero() {
		return time.Time{}
	}
	return now.Add(-w.d)
}

// Contains reports whether t falls inside the window. Undated times only
// match the zero Window.
func (w Window) Contains(t, now time.Time) bool {
	if w.IsZero() {
		return true
	}
	if t.IsZero() {
		return false
	}
	return !t.Before(w.Since(now))
}

// String renders the window compactly, e.g. "1w2d".
func (w Window) String() string {
	if w.IsZero() {
		return "all"
	}
	var parts []string
	rest := w.d
	for _, u := range []struct {
		label string
		size  time.Duration
	}{{"w", 7 * day}, {"d", day}, {"h", time.Hour}} {
		if rest < u.size {
			continue
		}
		n := rest / u.size
		rest -= n * u.size
		parts = append(parts, fmt.Sprintf("%d%s", n, u.label))
	}
	if len(parts) == 0 {
		return w.d.String()
	}
	return strings.Join(parts, "")
}
