package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/kutbudev/aha-mcp/internal/api"
	"github.com/kutbudev/aha-mcp/internal/config"
	"github.com/kutbudev/aha-mcp/internal/engine"
	apierrors "github.com/kutbudev/aha-mcp/internal/errors"
	"github.com/kutbudev/aha-mcp/internal/logging"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

// Helper functions shared across commands

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// runtime is everything a command needs to talk to Aha!.
type runtime struct {
	cfg    *config.Config
	log    *slog.Logger
	engine *engine.Engine
}

// loadRuntime reads the configuration and wires client and engine.
func loadRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w (run 'aha-mcp setup' first)", err)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel)
	client := api.NewClient(cfg, logger)
	return &runtime{
		cfg:    cfg,
		log:    logger,
		engine: engine.New(*cfg, client, logger),
	}, nil
}

// fail turns err into a one-line message and exit status 1.
func fail(err error) error {
	return cli.Exit(apierrors.ParseAPIError(err), 1)
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		return w
	}
	return 80
}

// renderMarkdown styles md for the terminal, or returns it unchanged when
// stdout is not a terminal.
func renderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if !isTerminal(os.Stdout) {
		return md
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(terminalWidth()-4),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// printField writes an aligned "label: value" line.
func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-10s", label+":")), value)
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

var jsonFlag = &cli.BoolFlag{
	Name:  "json",
	Usage: "print raw JSON",
}
