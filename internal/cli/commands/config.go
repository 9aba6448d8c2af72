package commands

import (
	"fmt"
	"os"

	"github.com/kutbudev/aha-mcp/internal/config"
	"github.com/urfave/cli/v2"
)

// NewConfigCommand creates the 'config' command group.
func NewConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect the configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective configuration without secrets",
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return fail(err)
					}
					return printJSON(os.Stdout, cfg.Public())
				},
			},
			{
				Name:  "path",
				Usage: "Print the config file location",
				Action: func(c *cli.Context) error {
					path, err := config.GetConfigPath()
					if err != nil {
						return err
					}
					fmt.Println(path)
					return nil
				},
			},
		},
	}
}
