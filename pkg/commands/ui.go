package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the full-screen journal",
		Example: `
journal ui
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := requireLogin(cmd.Context(), logFileOnly)
			if err != nil {
				return output.HandleError(err)
			}
			defer d.Close()
			i := ui.UI{
				Journal:  d.journal,
				Session:  d.session,
				Weather:  d.client,
				Location: d.cfg.WeatherLocation(),
				Admin:    d.client,
				Logger:   d.log,
				Out:      cmd.OutOrStdout(),
			}
			return output.HandleError(i.Do(cmd.Context()))
		},
	}

	topLevel.AddCommand(cmd)
}
