package options

import (
	"github.com/spf13/cobra"
)

// LoginOptions
type LoginOptions struct {
	UserName      string
	Google        bool
	Code          string
	PasswordStdin bool
}

func AddLoginArgs(cmd *cobra.Command, o *LoginOptions) {
	cmd.Flags().StringVarP(&o.UserName, "username", "u", "",
		"Username to log in as, prompted for when empty.")
	cmd.Flags().BoolVar(&o.Google, "google", false,
		"Print the Google sign-in URL and wait for the authorization code.")
	cmd.Flags().StringVar(&o.Code, "code", "",
		"Exchange a Google authorization code for a session.")
	cmd.Flags().BoolVar(&o.PasswordStdin, "password-stdin", false,
		"Read the password from stdin instead of prompting.")
}

// NewUserOptions
type NewUserOptions struct {
	UserName          string
	Email             string
	SentimentAnalysis bool
	PasswordStdin     bool
}

func AddNewUserArgs(cmd *cobra.Command, o *NewUserOptions) {
	cmd.Flags().StringVarP(&o.UserName, "username", "u", "",
		"Username for the new account.")
	cmd.Flags().StringVarP(&o.Email, "email", "e", "",
		"Email for the new account.")
	cmd.Flags().BoolVar(&o.SentimentAnalysis, "sentiment-analysis", false,
		"Enable sentiment analysis for the account.")
	cmd.Flags().BoolVar(&o.PasswordStdin, "password-stdin", false,
		"Read the password from stdin instead of prompting.")
}
