package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/commands/options"
	"tableflip.dev/journal/pkg/runner/weather"
)

func addWeather(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "weather [location]",
		Short: "Show the current weather",
		Long:  "Show the current weather for a location, weather.location from the config by default.",
		Example: `
journal weather
journal weather Pune
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(cmd.Context(), logStderr)
			if err != nil {
				return output.HandleError(err)
			}
			defer d.Close()
			w := weather.Weather{
				Location: d.cfg.WeatherLocation(),
				JSON:     output.JSON,
				Source:   d.client,
				Out:      cmd.OutOrStdout(),
			}
			if len(args) > 0 {
				w.Location = args[0]
			}
			return output.HandleError(w.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
