package options

import (
	"github.com/spf13/cobra"
)

// GlobalOptions are persistent flags shared by every command.
type GlobalOptions struct {
	Verbose bool
	APIURL  string
}

func AddGlobalArgs(cmd *cobra.Command, o *GlobalOptions) {
	cmd.PersistentFlags().BoolVarP(&o.Verbose, "verbose", "v", false,
		"Log requests and responses at debug level.")
	cmd.PersistentFlags().StringVar(&o.APIURL, "api-url", "",
		"Journal server address, overrides api.url from the config file.")
}
