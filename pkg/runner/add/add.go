package add

import (
	"context"
	"io"
	"strings"

	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/printers"
	"tableflip.dev/journal/pkg/prompt"
)

type Add struct {
	Draft entry.Draft
	// Interactive prompts for the fields the draft is missing.
	Interactive bool
	// ContentFrom is read for the content when the draft content is "-".
	ContentFrom io.Reader
	ShowID      bool
	JSON        bool

	Journal  *journal.Synchronizer
	Prompter prompt.Prompter
	Out      io.Writer
}

func (n *Add) Do(ctx context.Context) error {
	d, err := n.draft()
	if err != nil {
		return err
	}

	e, err := n.Journal.Create(ctx, d)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	if n.JSON {
		return pp.JSON(e)
	}
	pp.Title("Added")
	pp.Entries(e)
	return nil
}

func (n *Add) draft() (entry.Draft, error) {
	d := n.Draft
	if d.Content == "-" && n.ContentFrom != nil {
		b, err := io.ReadAll(n.ContentFrom)
		if err != nil {
			return d, err
		}
		d.Content = string(b)
	}
	if !n.Interactive || n.Prompter == nil {
		return d, nil
	}

	var err error
	if strings.TrimSpace(d.Title) == "" {
		if d.Title, err = n.Prompter.Text("Title", "", prompt.NotBlank); err != nil {
			return d, err
		}
	}
	if strings.TrimSpace(d.Content) == "" {
		if d.Content, err = n.Prompter.Text("Content", "", prompt.NotBlank); err != nil {
			return d, err
		}
	}
	if d.Sentiment == "" {
		if d.Sentiment, err = n.Prompter.Mood("Mood", entry.DefaultSentiment); err != nil {
			return d, err
		}
	}
	return d, nil
}
