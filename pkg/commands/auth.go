package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/commands/options"
	"tableflip.dev/journal/pkg/prompt"
	"tableflip.dev/journal/pkg/runner/auth"
)

func addSignup(topLevel *cobra.Command) {
	o := &options.NewUserOptions{}

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a new account",
		Example: `
journal signup
journal signup --username ada --email ada@example.com
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := loadDeps(cmd.Context(), logStderr)
			if err != nil {
				return output.HandleError(err)
			}
			defer d.Close()
			s := auth.Signup{
				UserName:          o.UserName,
				Email:             o.Email,
				SentimentAnalysis: o.SentimentAnalysis,
				PasswordStdin:     o.PasswordStdin,
				Backend:           d.client,
				Prompter:          prompt.Stdio(),
				In:                cmd.InOrStdin(),
				Out:               cmd.OutOrStdout(),
			}
			return output.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddNewUserArgs(cmd, o)
	topLevel.AddCommand(cmd)
}

func addLogin(topLevel *cobra.Command) {
	o := &options.LoginOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with a password or a Google account",
		Example: `
journal login
journal login -u ada --password-stdin < password.txt
journal login --google
journal login --code 'http://localhost:3000/oauth2/redirect?token=...'
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := loadDeps(cmd.Context(), logStderr)
			if err != nil {
				return output.HandleError(err)
			}
			defer d.Close()
			l := auth.Login{
				UserName:      o.UserName,
				Google:        o.Google,
				Code:          o.Code,
				PasswordStdin: o.PasswordStdin,
				Backend:       d.client,
				Session:       d.session,
				Prompter:      prompt.Stdio(),
				In:            cmd.InOrStdin(),
				Out:           cmd.OutOrStdout(),
			}
			return output.HandleError(l.Do(cmd.Context()))
		},
	}

	options.AddLoginArgs(cmd, o)
	topLevel.AddCommand(cmd)
}

func addLogout(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := loadDeps(cmd.Context(), logStderr)
			if err != nil {
				return output.HandleError(err)
			}
			defer d.Close()
			l := auth.Logout{Session: d.session, Out: cmd.OutOrStdout()}
			return output.HandleError(l.Do(cmd.Context()))
		},
	}

	topLevel.AddCommand(cmd)
}

func addWhoAmI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Print the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := loadDeps(cmd.Context(), logStderr)
			if err != nil {
				return output.HandleError(err)
			}
			defer d.Close()
			w := auth.WhoAmI{JSON: output.JSON, Session: d.session, Out: cmd.OutOrStdout()}
			return output.HandleError(w.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
