package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/admin"
	"tableflip.dev/journal/pkg/api"
	"tableflip.dev/journal/pkg/commands/options"
	"tableflip.dev/journal/pkg/prompt"
	adminrunner "tableflip.dev/journal/pkg/runner/admin"
)

func addAdmin(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage accounts, admins only",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addAdminUsers(cmd)
	addAdminCreate(cmd)

	topLevel.AddCommand(cmd)
}

func addAdminUsers(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List every account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := requireLogin(cmd.Context(), logStderr)
			if err != nil {
				return output.HandleError(err)
			}
			defer d.Close()
			u := adminrunner.Users{
				ShowID: io.ShowID,
				JSON:   output.JSON,
				Panel:  admin.NewPanel(d.client, d.session.User()),
				Out:    cmd.OutOrStdout(),
			}
			return output.HandleError(u.Do(cmd.Context()))
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addAdminCreate(topLevel *cobra.Command) {
	o := &options.NewUserOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create another admin account",
		Example: `
journal admin create -u grace -e grace@example.com
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := requireLogin(cmd.Context(), logStderr)
			if err != nil {
				return output.HandleError(err)
			}
			defer d.Close()
			c := adminrunner.Create{
				User: api.NewUser{
					UserName:          o.UserName,
					Email:             o.Email,
					SentimentAnalysis: o.SentimentAnalysis,
				},
				PasswordStdin: o.PasswordStdin,
				Panel:         admin.NewPanel(d.client, d.session.User()),
				Prompter:      prompt.Stdio(),
				In:            cmd.InOrStdin(),
				Out:           cmd.OutOrStdout(),
			}
			return output.HandleError(c.Do(cmd.Context()))
		},
	}

	options.AddNewUserArgs(cmd, o)
	topLevel.AddCommand(cmd)
}
