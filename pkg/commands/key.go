package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/runner/key"
)

func addKey(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Print the moods and their emoji",
		Example: `
journal key
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k := key.Key{Out: cmd.OutOrStdout()}
			return output.HandleError(k.Do(cmd.Context()))
		},
	}

	topLevel.AddCommand(cmd)
}
