package commands

import (
	"errors"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/journal/pkg/commands/options"
)

var (
	output = &options.OutputOptions{}
	global = &options.GlobalOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "journal",
		Short: base.Wrap80("Keep a mood journal from the command line."),
		Long: base.Wrap80("Write, read and manage entries of your online journal. " +
			"Log in once with `journal login`; the session is kept on disk until you log out."),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddGlobalArgs(cmd, global)

	AddCommands(cmd)
	return cmd
}

// Reported is true when err was already written out, as with --json.
func Reported(err error) bool {
	return errors.Is(err, options.ErrReported)
}

func AddCommands(topLevel *cobra.Command) {
	addSignup(topLevel)
	addLogin(topLevel)
	addLogout(topLevel)
	addWhoAmI(topLevel)
	addList(topLevel)
	addShow(topLevel)
	addAdd(topLevel)
	addEdit(topLevel)
	addDelete(topLevel)
	addWeather(topLevel)
	addAdmin(topLevel)
	addUI(topLevel)
	addMCP(topLevel)
	addKey(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addUpgrade(topLevel)
	addCompletions(topLevel)
}
