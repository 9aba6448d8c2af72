package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/kutbudev/aha-mcp/internal/api"
	"github.com/kutbudev/aha-mcp/internal/config"
	"github.com/kutbudev/aha-mcp/internal/engine"
	"github.com/kutbudev/aha-mcp/internal/mcp"
	"github.com/urfave/cli/v2"
)

func NewMcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "MCP (Model Context Protocol) server management",
		Subcommands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start MCP server (stdio, or streamable HTTP with --http)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "http",
						Usage:   "listen address for HTTP mode, e.g. :8080",
						EnvVars: []string{"AHA_MCP_HTTP_ADDR"},
					},
				},
				Action: func(c *cli.Context) error {
					rt, err := loadRuntime()
					if err != nil {
						return fail(err)
					}
					srv, err := mcp.New(rt.engine, rt.log)
					if err != nil {
						return err
					}

					ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
					defer stop()

					if addr := c.String("http"); addr != "" {
						return srv.ListenAndServe(ctx, addr)
					}
					return srv.ServeStdio(ctx)
				},
			},
			{
				Name:  "config",
				Usage: "Print MCP config examples for clients",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "client",
						Aliases: []string{"c"},
						Usage:   "target client (generic|codex|claude)",
						Value:   "generic",
					},
				},
				Action: func(c *cli.Context) error {
					switch strings.ToLower(c.String("client")) {
					case "codex":
						printCodexConfig(os.Stdout)
					case "claude":
						printClaudeConfig(os.Stdout)
					default:
						printGenericConfig(os.Stdout)
					}
					return nil
				},
			},
			{
				Name:  "tools",
				Usage: "List available MCP tools",
				Action: func(c *cli.Context) error {
					srv, err := offlineServer()
					if err != nil {
						return err
					}
					return printJSON(os.Stdout, srv.Tools())
				},
			},
		},
	}
}

// NewCallCommand runs one tool outside of an MCP session, which is handy
// for scripting and for checking credentials.
func NewCallCommand() *cli.Command {
	return &cli.Command{
		Name:      "call",
		Usage:     "Run an MCP tool once and print its result",
		ArgsUsage: "<tool> [json-arguments]",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("tool name is required")
			}
			name := c.Args().First()
			args, err := toolArgs(c.Args().Get(1))
			if err != nil {
				return err
			}

			rt, err := loadRuntime()
			if err != nil {
				return fail(err)
			}
			srv, err := mcp.New(rt.engine, rt.log)
			if err != nil {
				return err
			}

			res, err := srv.Dispatch(c.Context, name, args)
			if err != nil {
				return fail(err)
			}
			fmt.Println(mcp.ResultText(res))
			return nil
		},
	}
}

// toolArgs validates the optional JSON argument object. "-" reads it
// from stdin.
func toolArgs(raw string) (json.RawMessage, error) {
	if raw == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("could not read arguments: %w", err)
		}
		raw = string(b)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON object: %w", err)
	}
	return json.RawMessage(raw), nil
}

// offlineServer builds a server for introspection only; nothing it holds
// can reach Aha!.
func offlineServer() (*mcp.Server, error) {
	cfg := config.Config{}
	return mcp.New(engine.New(cfg, api.NewClient(&cfg, nil), nil), nil)
}

func printGenericConfig(w io.Writer) {
	cfg := map[string]interface{}{
		"mcpServers": map[string]interface{}{
			"aha": map[string]interface{}{
				"command": "aha-mcp",
				"args":    []string{"mcp", "serve"},
				"env": map[string]string{
					"AHA_DOMAIN":    "yourcompany",
					"AHA_API_TOKEN": "<token>",
				},
			},
		},
	}
	b, _ := json.MarshalIndent(cfg, "", "  ")
	fmt.Fprintln(w, string(b))
}

func printCodexConfig(w io.Writer) {
	fmt.Fprintln(w, "# Add the following to ~/.codex/config.toml (merge with existing settings)")
	fmt.Fprintln(w, "[mcp_servers.aha]")
	fmt.Fprintln(w, "command = \"aha-mcp\"")
	fmt.Fprintln(w, "args = [\"mcp\", \"serve\"]")
	fmt.Fprintln(w, "enabled = true")
}

func printClaudeConfig(w io.Writer) {
	fmt.Fprintln(w, "# Register with Claude Code (token is read from the keyring after 'aha-mcp setup')")
	fmt.Fprintln(w, "claude mcp add aha -- aha-mcp mcp serve")
}
