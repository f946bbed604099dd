package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"
)

// Transport selects how the MCP server is exposed.
type Transport string

const (
	TransportStdio Transport = "stdio"
	TransportHTTP  Transport = "http"
)

// ParseTransport accepts "stdio" (the default for blank input) or "http".
func ParseTransport(s string) (Transport, error) {
	switch t := Transport(strings.ToLower(strings.TrimSpace(s))); t {
	case "", TransportStdio:
		return TransportStdio, nil
	case TransportHTTP:
		return t, nil
	default:
		return "", fmt.Errorf("unsupported transport %q (expected stdio or http)", s)
	}
}

const shutdownGrace = 5 * time.Second

// HTTPOptions configures the streamable HTTP transport.
type HTTPOptions struct {
	Host string
	Port int
	Path string
	Cert string
	Key  string

	// Listening is called once the listener is bound, with the URL clients
	// should use.
	Listening func(url string)
}

func (o HTTPOptions) path() string {
	p := strings.TrimSpace(o.Path)
	if p == "" {
		return "/mcp"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func (o HTTPOptions) host() string {
	if h := strings.TrimSpace(o.Host); h != "" {
		return h
	}
	return "127.0.0.1"
}

func (o HTTPOptions) tls() bool { return o.Cert != "" && o.Key != "" }

func (o HTTPOptions) validate() error {
	if o.Port < 0 || o.Port > 65535 {
		return fmt.Errorf("invalid http port %d", o.Port)
	}
	if (o.Cert == "") != (o.Key == "") {
		return errors.New("both http tls cert and key must be provided")
	}
	return nil
}

// URL is the endpoint address for a bound listener. Unspecified hosts are
// shown as loopback.
func (o HTTPOptions) URL(bound net.Addr) string {
	host, port := o.host(), strconv.Itoa(o.Port)
	if tcp, ok := bound.(*net.TCPAddr); ok {
		port = strconv.Itoa(tcp.Port)
		if ip := net.ParseIP(host); ip != nil && ip.IsUnspecified() {
			host = "127.0.0.1"
		}
	}
	scheme := "http"
	if o.tls() {
		scheme = "https"
	}
	return scheme + "://" + net.JoinHostPort(host, port) + o.path()
}

// Runner serves the journal over MCP until ctx ends or stdin closes.
type Runner struct {
	Journal Journal
	Name    string
	Version string

	Transport Transport
	HTTP      HTTPOptions

	// Stdin and Stdout replace the process streams for the stdio transport.
	Stdin  io.Reader
	Stdout io.Writer
}

func (r Runner) Do(ctx context.Context) error {
	if r.Journal == nil {
		return errors.New("mcp runner requires a journal")
	}
	srv := r.newServer()
	switch r.Transport {
	case "", TransportStdio:
		return r.serveStdio(ctx, srv)
	case TransportHTTP:
		return r.serveHTTP(ctx, srv)
	default:
		return fmt.Errorf("unknown MCP transport %q", r.Transport)
	}
}

func (r Runner) newServer() *server.MCPServer {
	name, version := r.Name, r.Version
	if name == "" {
		name = "journal"
	}
	if version == "" {
		version = "dev"
	}
	srv := server.NewMCPServer(
		name+" MCP",
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions("Read and write the signed-in user's journal entries. Deleting requires confirm=true."),
		server.WithRecovery(),
	)
	svc := NewService(r.Journal)
	registerResources(srv, svc)
	registerTools(srv, svc)
	return srv
}

func (r Runner) serveStdio(ctx context.Context, srv *server.MCPServer) error {
	in, out := r.Stdin, r.Stdout
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	err := server.NewStdioServer(srv).Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer) error {
	o := r.HTTP
	if err := o.validate(); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle(o.path(), server.NewStreamableHTTPServer(srv))
	hs := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	ln, err := net.Listen("tcp", net.JoinHostPort(o.host(), strconv.Itoa(o.Port)))
	if err != nil {
		return err
	}
	if o.Listening != nil {
		o.Listening(o.URL(ln.Addr()))
	}

	stop := context.AfterFunc(ctx, func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = hs.Shutdown(sctx)
	})
	defer stop()

	if o.tls() {
		err = hs.ServeTLS(ln, o.Cert, o.Key)
	} else {
		err = hs.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
