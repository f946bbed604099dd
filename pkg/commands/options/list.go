package options

import (
	"github.com/spf13/cobra"
)

// ListOptions
type ListOptions struct {
	Limit    int
	Mood     string
	Calendar bool
	Last     string
}

func AddListArgs(cmd *cobra.Command, o *ListOptions) {
	cmd.Flags().IntVarP(&o.Limit, "limit", "n", 0,
		"Show at most this many entries, newest first.")
	addMoodFlag(cmd, &o.Mood, "Only show entries with this mood.")
	cmd.Flags().BoolVar(&o.Calendar, "calendar", false,
		"Show a calendar of the current month marking days with entries.")
	cmd.Flags().StringVar(&o.Last, "last", "",
		"Only show entries from this window, e.g. 3d, 2w or 1w2d.")
}
