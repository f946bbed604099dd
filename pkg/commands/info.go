package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and where the session is stored.",
		Example: `
journal info
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			d, err := loadDeps(cmd.Context(), logStderr)
			if err != nil {
				return output.HandleError(err)
			}
			defer d.Close()
			s := info.Info{
				Config:  d.cfg,
				Session: d.session,
				Out:     cmd.OutOrStdout(),
			}
			return output.HandleError(s.Do(cmd.Context()))
		},
	}

	topLevel.AddCommand(cmd)
}
