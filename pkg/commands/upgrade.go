package commands

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
)

const installPath = "tableflip.dev/journal/cmd/journal"

func addUpgrade(topLevel *cobra.Command) {
	var ref string

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Reinstall the journal cli with go install",
		Example: `
journal upgrade
journal upgrade --ref v0.3.0
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := installPath + "@" + upgradeRef(ref)
			ex := exec.CommandContext(cmd.Context(), "go", "install", target)
			var out bytes.Buffer
			ex.Stdout = &out
			ex.Stderr = &out
			if err := ex.Run(); err != nil {
				return output.HandleError(fmt.Errorf("go install %s: %w\n%s", target, err, strings.TrimSpace(out.String())))
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Installed %s (was %s)\n", target, version)
			return nil
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "latest", "Version, branch or commit to install.")
	topLevel.AddCommand(cmd)
}

func upgradeRef(ref string) string {
	if ref = strings.TrimSpace(ref); ref == "" {
		return "latest"
	}
	return ref
}
