package get

import (
	"context"
	"errors"
	"io"
	"time"

	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/printers"
	"tableflip.dev/journal/pkg/timeutil"
)

type Get struct {
	ShowID   bool
	JSON     bool
	Limit    int
	Mood     entry.Sentiment
	Calendar bool
	Window   timeutil.Window

	Journal *journal.Synchronizer
	Out     io.Writer
	// Now anchors the calendar month and the --last window; defaults to time.Now.
	Now func() time.Time
}

func (n *Get) Do(ctx context.Context) error {
	if n.Journal == nil {
		return errors.New("can not get, no journal")
	}
	all, err := n.Journal.List(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	if n.Now != nil {
		now = n.Now()
	}
	all = n.filtered(all, now)

	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	if n.JSON {
		return pp.JSON(all)
	}

	if n.Calendar {
		pp.Month(now, all...)
	}
	title := "Journal"
	if !n.Window.IsZero() {
		title += ", last " + n.Window.String()
	}
	pp.TitleWithCount(title, len(all))
	pp.Entries(all...)
	return nil
}

func (n *Get) filtered(all []entry.Entry, now time.Time) []entry.Entry {
	c := make([]entry.Entry, 0, len(all))
	for _, a := range all {
		if !n.Window.Contains(a.Date.Time, now) {
			continue
		}
		if n.Mood == "" || n.Mood == a.Sentiment {
			c = append(c, a)
		}
	}
	if n.Limit > 0 && len(c) > n.Limit {
		c = c[:n.Limit]
	}
	return c
}
