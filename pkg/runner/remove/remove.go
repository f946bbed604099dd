package remove

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/journal"
)

// Remove deletes one entry after Confirmer agrees. Use journal.Always to
// delete without asking.
type Remove struct {
	ID string

	Journal   *journal.Synchronizer
	Confirmer journal.Confirmer
	Out       io.Writer
}

func (r *Remove) Do(ctx context.Context) error {
	out := r.Out
	if out == nil {
		out = color.Output
	}
	confirm := r.Confirmer
	if _, skip := confirm.(journal.Unconditional); confirm != nil && !skip {
		// Ask about the entry by title, and fail early on an unknown id.
		target, err := r.Journal.Fetch(ctx, r.ID)
		if err != nil {
			return err
		}
		confirm = journal.ConfirmFunc(func(ctx context.Context, _ entry.Entry) (bool, error) {
			return r.Confirmer.Confirm(ctx, target)
		})
	}
	err := r.Journal.Delete(ctx, r.ID, confirm)
	if errors.Is(err, journal.ErrCanceled) {
		_, _ = fmt.Fprintln(out, "Canceled.")
		return nil
	}
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, "Deleted.")
	return nil
}
