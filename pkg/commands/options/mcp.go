package options

import (
	"github.com/spf13/cobra"
)

// MCPOptions
type MCPOptions struct {
	Transport string
	Host      string
	Port      int
	Path      string
	TLSCert   string
	TLSKey    string
}

func AddMCPArgs(cmd *cobra.Command, o *MCPOptions) {
	cmd.Flags().StringVar(&o.Transport, "transport", "stdio",
		"Transport to serve on: stdio or http.")
	cmd.Flags().StringVar(&o.Host, "http-host", "127.0.0.1",
		"Interface the http transport listens on.")
	cmd.Flags().IntVar(&o.Port, "http-port", 8080,
		"Port for the http transport, 0 picks a free one.")
	cmd.Flags().StringVar(&o.Path, "http-path", "/mcp",
		"Endpoint path for the http transport.")
	cmd.Flags().StringVar(&o.TLSCert, "http-tls-cert", "",
		"TLS certificate file, serves https together with --http-tls-key.")
	cmd.Flags().StringVar(&o.TLSKey, "http-tls-key", "",
		"TLS private key file.")
}
