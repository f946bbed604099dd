package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/commands/options"
	"tableflip.dev/journal/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	mo := &options.MCPOptions{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve your journal to local assistants over MCP",
		Long: `Start a Model Context Protocol server that can list, search, read, write
and delete the signed in user's entries. Stdio is used unless --transport http
is given.`,
		Example: `
journal mcp
journal mcp --transport http --http-port 0
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			transport, err := mcp.ParseTransport(mo.Transport)
			if err != nil {
				return output.HandleError(err)
			}
			d, err := requireLogin(cmd.Context(), logStderr)
			if err != nil {
				return output.HandleError(err)
			}
			defer d.Close()

			r := mcp.Runner{
				Journal:   d.journal,
				Name:      "journal",
				Version:   version,
				Transport: transport,
				Stdin:     cmd.InOrStdin(),
				Stdout:    cmd.OutOrStdout(),
				HTTP: mcp.HTTPOptions{
					Host: mo.Host,
					Port: mo.Port,
					Path: mo.Path,
					Cert: strings.TrimSpace(mo.TLSCert),
					Key:  strings.TrimSpace(mo.TLSKey),
					Listening: func(url string) {
						_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on %s\n", url)
					},
				},
			}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddMCPArgs(cmd, mo)
	topLevel.AddCommand(cmd)
}
