package options

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/api"
)

// OutputOptions
type OutputOptions struct {
	JSON bool
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

// ErrReported marks a failure that was already written to the output. Callers
// should exit non-zero without printing it again.
var ErrReported = errors.New("error already reported")

// HandleError turns err into one readable line. With --json it is printed as
// {"error": ...} and ErrReported is returned in its place.
func (o *OutputOptions) HandleError(err error) error {
	if err == nil {
		return nil
	}
	msg := api.Message(err, "")
	if o.JSON {
		b, merr := json.Marshal(map[string]string{"error": msg})
		if merr != nil {
			return merr
		}
		_, _ = fmt.Fprintln(color.Output, string(b))
		return ErrReported
	}
	return errors.New(msg)
}

