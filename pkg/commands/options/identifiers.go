package options

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

// IDOptions
type IDOptions struct {
	ShowID bool
	ID     string
}

func AddShowIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().BoolVarP(&o.ShowID, "show-id", "k", false,
		"Show the ID of each entry.")
}

func AddIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().StringVar(&o.ID, "id", "",
		"Specify the id of an entry.")
}

// ResolveID takes the id from the first argument or the --id flag.
func (o *IDOptions) ResolveID(args []string) error {
	if len(args) > 0 {
		if o.ID != "" && o.ID != args[0] {
			return errors.New("id given both as argument and --id")
		}
		o.ID = args[0]
	}
	o.ID = strings.TrimSpace(o.ID)
	if o.ID == "" {
		return errors.New("requires an entry id, see `journal list --show-id`")
	}
	return nil
}
