package edit

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/printers"
	"tableflip.dev/journal/pkg/prompt"
)

// Edit changes the fields named by Patch. Interactive edits every field with
// the current values as defaults.
type Edit struct {
	ID          string
	Patch       entry.Patch
	Interactive bool
	ShowID      bool
	JSON        bool

	Journal  *journal.Synchronizer
	Prompter prompt.Prompter
	Out      io.Writer
}

func (n *Edit) Do(ctx context.Context) error {
	p := n.Patch
	var (
		cur     entry.Entry
		fetched bool
	)
	if n.Interactive && n.Prompter != nil {
		var err error
		if cur, err = n.Journal.Fetch(ctx, n.ID); err != nil {
			return err
		}
		fetched = true
		if p, err = n.prompt(p.Apply(cur)); err != nil {
			return err
		}
	}
	if p.Empty() {
		return errors.New("nothing to change, use --title, --content or --mood")
	}

	var (
		e   entry.Entry
		err error
	)
	if fetched {
		e, err = n.Journal.UpdateFrom(ctx, cur, p)
	} else {
		e, err = n.Journal.Update(ctx, n.ID, p)
	}
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	if n.JSON {
		return pp.JSON(e)
	}
	pp.Title("Updated")
	pp.Entries(e)
	return nil
}

func (n *Edit) prompt(d entry.Draft) (entry.Patch, error) {
	var err error
	if d.Title, err = n.Prompter.Text("Title", d.Title, prompt.NotBlank); err != nil {
		return entry.Patch{}, err
	}
	if d.Content, err = n.Prompter.Text("Content", d.Content, prompt.NotBlank); err != nil {
		return entry.Patch{}, err
	}
	if d.Sentiment, err = n.Prompter.Mood("Mood", d.Sentiment); err != nil {
		return entry.Patch{}, err
	}
	return entry.PatchFrom(d), nil
}
