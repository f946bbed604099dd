// Package key prints the mood legend.
package key

import (
	"context"
	"io"

	"tableflip.dev/journal/pkg/printers"
)

// Key prints each mood with its emoji and wire value.
type Key struct {
	Out io.Writer
}

func (k *Key) Do(_ context.Context) error {
	pp := printers.PrettyPrint{Out: k.Out}
	pp.NewLine()
	pp.Moods()
	return nil
}
