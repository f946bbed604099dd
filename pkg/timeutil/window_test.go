package timeutil

import (
	"testing"
	"time"
)

func TestParseWindowBlankMatchesAll(t *testing.T) {
	w, err := ParseWindow("  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !w.IsZero() || w.String() != "all" {
		t.Fatalf("expected zero window, got %s", w)
	}
	if !w.Contains(time.Time{}, time.Now()) {
		t.Fatal("zero window should match undated entries")
	}
}

func TestParseWindowComposite(t *testing.T) {
	w, err := ParseWindow("1w2d6h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := w.String(); got != "1w2d6h" {
		t.Fatalf("unexpected label: %s", got)
	}
	now := time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)
	want := now.Add(-(9*24 + 6) * time.Hour)
	if got := w.Since(now); !got.Equal(want) {
		t.Fatalf("Since = %v, want %v", got, want)
	}
}

func TestParseWindowMonths(t *testing.T) {
	w, err := ParseWindow("1mo")
	if err != nil {
		t.Fatal(err)
	}
	if got := w.String(); got != "4w2d" {
		t.Fatalf("unexpected label: %s", got)
	}
}

func TestWindowContains(t *testing.T) {
	now := time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)
	w, _ := ParseWindow("3d")
	cases := map[string]struct {
		at   time.Time
		want bool
	}{
		"inside":   {now.Add(-48 * time.Hour), true},
		"boundary": {now.Add(-72 * time.Hour), true},
		"outside":  {now.Add(-73 * time.Hour), false},
		"undated":  {time.Time{}, false},
	}
	for name, tc := range cases {
		if got := w.Contains(tc.at, now); got != tc.want {
			t.Errorf("%s: Contains = %v, want %v", name, got, tc.want)
		}
	}
}

func TestParseWindowInvalid(t *testing.T) {
	for _, in := range []string{"noop", "3y", "0d"} {
		if _, err := ParseWindow(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}
