package show

import (
	"context"
	"io"

	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/printers"
)

// Show prints one entry with its content rendered as markdown.
type Show struct {
	ID     string
	ShowID bool
	JSON   bool

	Journal *journal.Synchronizer
	Out     io.Writer
}

func (s *Show) Do(ctx context.Context) error {
	e, err := s.Journal.Fetch(ctx, s.ID)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: s.ShowID, Out: s.Out}
	if s.JSON {
		return pp.JSON(e)
	}
	pp.Entry(e)
	return nil
}
