package main

import (
	"log"
	"os"

	"github.com/kutbudev/aha-mcp/internal/cli/commands"
	"github.com/kutbudev/aha-mcp/internal/mcp"
	"github.com/urfave/cli/v2"
)

// Version will be set during build with ldflags
var Version = "0.4.0"

func main() {
	mcp.Version = Version

	app := &cli.App{
		Name:    "aha-mcp",
		Usage:   "Aha! MCP server and command line client",
		Version: Version,
		Commands: []*cli.Command{
			// Core commands
			commands.NewSetupCommand(),
			commands.NewMcpCommand(),
			commands.NewCallCommand(),

			// Records
			commands.NewRecordCommand(),
			commands.NewPageCommand(),
			commands.NewIdeaCommand(),
			commands.NewSearchCommand(),
			commands.NewFeatureCommand(),

			// Planning
			commands.NewReleasesCommand(),
			commands.NewStatusesCommand(),

			// Users
			commands.NewUserCommand(),
			commands.NewWhoamiCommand(),

			// Meta
			commands.NewConfigCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
