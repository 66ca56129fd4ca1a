package commands

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/todo/pkg/runner/mcp"
)

type mcpOptions struct {
	transport   string
	httpHost    string
	httpPort    int
	httpPath    string
	httpTLSCert string
	httpTLSKey  string
}

func addMCP(topLevel *cobra.Command) {
	o := &mcpOptions{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "start the Model Context Protocol server",
		Long: `Launch an MCP server that exposes the task list and its operations
through the Model Context Protocol.`,
		Example: `
todo mcp
todo mcp --transport stdio
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			runner, err := o.runner(cmd)
			if err != nil {
				return err
			}
			return withSession(cmd.ErrOrStderr(), func(s *session) error {
				runner.App = s.Service
				return runner.Do(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVar(&o.transport, "transport", string(mcp.TransportHTTP), "transport to use: http or stdio")
	cmd.Flags().StringVar(&o.httpHost, "http-host", "127.0.0.1", "host/interface for HTTP transport")
	cmd.Flags().IntVar(&o.httpPort, "http-port", 8080, "port for HTTP transport (use 0 for random)")
	cmd.Flags().StringVar(&o.httpPath, "http-path", "/mcp", "HTTP endpoint path")
	cmd.Flags().StringVar(&o.httpTLSCert, "http-tls-cert", "", "TLS certificate file for HTTPS")
	cmd.Flags().StringVar(&o.httpTLSKey, "http-tls-key", "", "TLS private key file for HTTPS")

	topLevel.AddCommand(cmd)
}

// runner validates the flags and builds the runner without a service.
func (o *mcpOptions) runner(cmd *cobra.Command) (mcp.Runner, error) {
	path := strings.TrimSpace(o.httpPath)
	if path == "" {
		path = "/mcp"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	runner := mcp.Runner{
		Name:             "todo",
		Version:          version,
		HTTPEndpointPath: path,
		HTTPServerCert:   strings.TrimSpace(o.httpTLSCert),
		HTTPServerKey:    strings.TrimSpace(o.httpTLSKey),
	}

	switch strings.ToLower(strings.TrimSpace(o.transport)) {
	case "", string(mcp.TransportHTTP):
		host := strings.TrimSpace(o.httpHost)
		if host == "" {
			host = "127.0.0.1"
		}
		if o.httpPort < 0 || o.httpPort > 65535 {
			return runner, fmt.Errorf("invalid http-port %d", o.httpPort)
		}

		addr := net.JoinHostPort(host, strconv.Itoa(o.httpPort))
		runner.Transport = mcp.TransportHTTP
		runner.HTTPListenAddr = addr
		runner.OnHTTPListening = func(a net.Addr) {
			tcpAddr, ok := a.(*net.TCPAddr)
			if !ok {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "MCP HTTP server listening on %s%s\n", addr, path)
				return
			}

			displayHost := host
			if displayHost == "0.0.0.0" || displayHost == "::" {
				if tcpAddr.IP != nil && !tcpAddr.IP.IsUnspecified() {
					displayHost = tcpAddr.IP.String()
				} else {
					displayHost = "127.0.0.1"
				}
			}
			if strings.Contains(displayHost, ":") && !strings.HasPrefix(displayHost, "[") {
				displayHost = "[" + displayHost + "]"
			}

			scheme := "http"
			if runner.HTTPServerCert != "" && runner.HTTPServerKey != "" {
				scheme = "https"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(),
				"MCP HTTP server listening on %s://%s:%d%s\n",
				scheme,
				displayHost,
				tcpAddr.Port,
				path,
			)
		}
	case string(mcp.TransportStdio):
		runner.Transport = mcp.TransportStdio
	default:
		return runner, fmt.Errorf("unsupported transport %q (expected http or stdio)", o.transport)
	}
	return runner, nil
}
