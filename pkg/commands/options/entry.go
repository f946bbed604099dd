package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/entry"
)

// EntryOptions
type EntryOptions struct {
	Title   string
	Content string
	Mood    string

	cmd *cobra.Command
}

func AddEntryArgs(cmd *cobra.Command, o *EntryOptions) {
	o.cmd = cmd
	cmd.Flags().StringVarP(&o.Title, "title", "t", "",
		"Title of the entry.")
	cmd.Flags().StringVarP(&o.Content, "content", "c", "",
		`Content of the entry, markdown is rendered by "show". Use "-" to read stdin.`)
	addMoodFlag(cmd, &o.Mood, "Mood of the entry: happy, sad, angry or anxious.")
}

// Draft is the full draft described by the flags.
func (o *EntryOptions) Draft() (entry.Draft, error) {
	mood, err := entry.ParseSentiment(o.Mood)
	if err != nil {
		return entry.Draft{}, err
	}
	return entry.Draft{Title: o.Title, Content: o.Content, Sentiment: mood}, nil
}

// Patch holds only the flags that were set on the command line.
func (o *EntryOptions) Patch() (entry.Patch, error) {
	var p entry.Patch
	if o.changed("title") {
		v := o.Title
		p.Title = &v
	}
	if o.changed("content") {
		v := o.Content
		p.Content = &v
	}
	if o.changed("mood") {
		mood, err := entry.ParseSentiment(o.Mood)
		if err != nil {
			return entry.Patch{}, err
		}
		p.Sentiment = &mood
	}
	return p, nil
}

func (o *EntryOptions) changed(name string) bool {
	if o.cmd == nil {
		return false
	}
	return o.cmd.Flags().Changed(name)
}
