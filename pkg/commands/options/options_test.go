package options

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/api"
	"tableflip.dev/journal/pkg/entry"
)

func TestPatchOnlyHoldsChangedFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "edit"}
	o := &EntryOptions{}
	AddEntryArgs(cmd, o)
	if err := cmd.ParseFlags([]string{"--mood", "anxious", "--title", ""}); err != nil {
		t.Fatal(err)
	}
	p, err := o.Patch()
	if err != nil {
		t.Fatal(err)
	}
	if p.Content != nil {
		t.Error("content was not set but is in the patch")
	}
	if p.Title == nil || *p.Title != "" {
		t.Error("explicit empty title should be in the patch")
	}
	if p.Sentiment == nil || *p.Sentiment != entry.Anxious {
		t.Errorf("sentiment = %v", p.Sentiment)
	}
}

func TestPatchRejectsUnknownMood(t *testing.T) {
	cmd := &cobra.Command{Use: "edit"}
	o := &EntryOptions{}
	AddEntryArgs(cmd, o)
	if err := cmd.ParseFlags([]string{"--mood", "bored"}); err == nil {
		t.Fatal("expected parse error")
	}
	p, err := o.Patch()
	if err != nil {
		t.Fatal(err)
	}
	if p.Sentiment != nil {
		t.Error("rejected mood should not be in the patch")
	}
}

func TestListMoodIsCanonical(t *testing.T) {
	cmd := &cobra.Command{Use: "list"}
	o := &ListOptions{}
	AddListArgs(cmd, o)
	if err := cmd.ParseFlags([]string{"-m", " Sad "}); err != nil {
		t.Fatal(err)
	}
	if o.Mood != string(entry.Sad) {
		t.Errorf("mood = %q", o.Mood)
	}
}

func TestDraftDefaultsMood(t *testing.T) {
	o := &EntryOptions{Title: "t", Content: "c"}
	d, err := o.Draft()
	if err != nil {
		t.Fatal(err)
	}
	if d.Sentiment != entry.Happy {
		t.Errorf("sentiment = %v", d.Sentiment)
	}
}

func TestResolveID(t *testing.T) {
	o := &IDOptions{}
	if err := o.ResolveID([]string{" abc "}); err != nil || o.ID != "abc" {
		t.Fatalf("ResolveID = %v, id %q", err, o.ID)
	}
	o = &IDOptions{ID: "x"}
	if err := o.ResolveID([]string{"y"}); err == nil {
		t.Fatal("expected conflict error")
	}
	o = &IDOptions{}
	if err := o.ResolveID(nil); err == nil {
		t.Fatal("expected missing id error")
	}
}

func TestHandleErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	prev := color.Output
	color.Output = &buf
	defer func() { color.Output = prev }()

	o := &OutputOptions{JSON: true}
	if err := o.HandleError(&api.NotFoundError{Message: "Journal entry not found"}); !errors.Is(err, ErrReported) {
		t.Fatalf("HandleError = %v, want ErrReported", err)
	}
	var got map[string]string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got["error"] != "Journal entry not found" {
		t.Errorf("error = %q", got["error"])
	}
}

func TestHandleErrorJSONNilStaysNil(t *testing.T) {
	var buf bytes.Buffer
	prev := color.Output
	color.Output = &buf
	defer func() { color.Output = prev }()

	o := &OutputOptions{JSON: true}
	if err := o.HandleError(nil); err != nil {
		t.Fatalf("HandleError(nil) = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %q for a nil error", buf.String())
	}
}

func TestHandleErrorPlain(t *testing.T) {
	o := &OutputOptions{}
	err := o.HandleError(&api.NetworkError{Op: "GET", Err: bytes.ErrTooLarge})
	if err == nil || err.Error() != "Could not reach the journal server" {
		t.Fatalf("HandleError = %v", err)
	}
	if o.HandleError(nil) != nil {
		t.Fatal("nil error should stay nil")
	}
}
