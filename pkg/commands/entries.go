package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/commands/options"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/journal"
	"tableflip.dev/journal/pkg/prompt"
	"tableflip.dev/journal/pkg/runner/add"
	"tableflip.dev/journal/pkg/runner/edit"
	"tableflip.dev/journal/pkg/runner/get"
	"tableflip.dev/journal/pkg/runner/remove"
	"tableflip.dev/journal/pkg/runner/show"
	"tableflip.dev/journal/pkg/timeutil"
)

func addList(topLevel *cobra.Command) {
	lo := &options.ListOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"get", "ls"},
		Short:   "List journal entries, newest first",
		Example: `
journal list
journal ls --mood sad -n 5
journal list --calendar
journal list --last 2w
journal list --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mood, err := moodFilter(lo.Mood)
			if err != nil {
				return output.HandleError(err)
			}
			window, err := timeutil.ParseWindow(lo.Last)
			if err != nil {
				return output.HandleError(err)
			}
			d, err := requireLogin(cmd.Context(), logStderr)
			if err != nil {
				return output.HandleError(err)
			}
			defer d.Close()
			g := get.Get{
				ShowID:   io.ShowID,
				JSON:     output.JSON,
				Limit:    lo.Limit,
				Mood:     mood,
				Calendar: lo.Calendar,
				Window:   window,
				Journal:  d.journal,
				Out:      cmd.OutOrStdout(),
			}
			return output.HandleError(g.Do(cmd.Context()))
		},
	}

	options.AddListArgs(cmd, lo)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func moodFilter(s string) (entry.Sentiment, error) {
	if s == "" {
		return "", nil
	}
	return entry.ParseSentiment(s)
}

func addShow(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one entry with its content rendered as markdown",
		Example: `
journal show 3f2a9c4e-0d1b-4c55-9a7e-2b1f6a0c9d11
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := io.ResolveID(args); err != nil {
				return output.HandleError(err)
			}
			d, err := requireLogin(cmd.Context(), logStderr)
			if err != nil {
				return output.HandleError(err)
			}
			defer d.Close()
			s := show.Show{
				ID:      io.ID,
				ShowID:  io.ShowID,
				JSON:    output.JSON,
				Journal: d.journal,
				Out:     cmd.OutOrStdout(),
			}
			return output.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddIDArgs(cmd, io)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addAdd(topLevel *cobra.Command) {
	eo := &options.EntryOptions{}
	io := &options.IDOptions{}
	i := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Write a new entry",
		Example: `
journal add -t "Morning" -c "Slept well" -m happy
echo "long day" | journal add -t Evening -c - -m anxious
journal add -i
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			draft, err := eo.Draft()
			if err != nil {
				return output.HandleError(err)
			}
			d, err := requireLogin(cmd.Context(), logStderr)
			if err != nil {
				return output.HandleError(err)
			}
			defer d.Close()
			a := add.Add{
				Draft:       draft,
				Interactive: i.Interactive,
				ContentFrom: cmd.InOrStdin(),
				ShowID:      io.ShowID,
				JSON:        output.JSON,
				Journal:     d.journal,
				Prompter:    prompt.Stdio(),
				Out:         cmd.OutOrStdout(),
			}
			return output.HandleError(a.Do(cmd.Context()))
		},
	}

	options.AddEntryArgs(cmd, eo)
	options.InteractiveArgs(cmd, i)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addEdit(topLevel *cobra.Command) {
	eo := &options.EntryOptions{}
	io := &options.IDOptions{}
	i := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the title, content or mood of an entry",
		Long:  "Only the flags you pass are changed, everything else keeps its value.",
		Example: `
journal edit 3f2a9c4e-0d1b-4c55-9a7e-2b1f6a0c9d11 -m sad
journal edit 3f2a9c4e-0d1b-4c55-9a7e-2b1f6a0c9d11 -i
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := io.ResolveID(args); err != nil {
				return output.HandleError(err)
			}
			patch, err := eo.Patch()
			if err != nil {
				return output.HandleError(err)
			}
			d, err := requireLogin(cmd.Context(), logStderr)
			if err != nil {
				return output.HandleError(err)
			}
			defer d.Close()
			e := edit.Edit{
				ID:          io.ID,
				Patch:       patch,
				Interactive: i.Interactive,
				ShowID:      io.ShowID,
				JSON:        output.JSON,
				Journal:     d.journal,
				Prompter:    prompt.Stdio(),
				Out:         cmd.OutOrStdout(),
			}
			return output.HandleError(e.Do(cmd.Context()))
		},
	}

	options.AddEntryArgs(cmd, eo)
	options.AddIDArgs(cmd, io)
	options.InteractiveArgs(cmd, i)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addDelete(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry",
		Example: `
journal delete 3f2a9c4e-0d1b-4c55-9a7e-2b1f6a0c9d11
journal rm 3f2a9c4e-0d1b-4c55-9a7e-2b1f6a0c9d11 --yes
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := io.ResolveID(args); err != nil {
				return output.HandleError(err)
			}
			d, err := requireLogin(cmd.Context(), logStderr)
			if err != nil {
				return output.HandleError(err)
			}
			defer d.Close()
			r := remove.Remove{
				ID:        io.ID,
				Journal:   d.journal,
				Confirmer: confirmer(co),
				Out:       cmd.OutOrStdout(),
			}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddIDArgs(cmd, io)
	options.AddConfirmArgs(cmd, co)
	topLevel.AddCommand(cmd)
}

// confirmer asks on the terminal unless --yes was given.
func confirmer(co *options.ConfirmOptions) journal.Confirmer {
	if co.Yes {
		return journal.Always
	}
	return prompt.DeleteConfirmer{Prompter: prompt.Stdio()}
}

