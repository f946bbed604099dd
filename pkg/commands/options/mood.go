package options

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tableflip.dev/journal/pkg/entry"
)

// moodValue rejects unknown moods while flags are parsed so a typo fails
// before any request is made.
type moodValue struct {
	target *string
}

var _ pflag.Value = moodValue{}

func (m moodValue) String() string {
	if m.target == nil {
		return ""
	}
	return *m.target
}

func (m moodValue) Set(v string) error {
	if strings.TrimSpace(v) == "" {
		*m.target = ""
		return nil
	}
	s, err := entry.ParseSentiment(v)
	if err != nil {
		return err
	}
	*m.target = string(s)
	return nil
}

func (moodValue) Type() string { return "mood" }

func addMoodFlag(cmd *cobra.Command, target *string, usage string) {
	cmd.Flags().VarP(moodValue{target: target}, "mood", "m", usage)
	_ = cmd.RegisterFlagCompletionFunc("mood", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return moodNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

func moodNames() []string {
	out := make([]string, 0, 4)
	for _, s := range entry.Sentiments() {
		out = append(out, strings.ToLower(string(s)))
	}
	return out
}
