package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/kutbudev/aha-mcp/internal/engine"
	"github.com/kutbudev/aha-mcp/internal/models"
	"github.com/urfave/cli/v2"
)

// NewFeatureCommand creates the 'feature' command group.
func NewFeatureCommand() *cli.Command {
	return &cli.Command{
		Name:    "feature",
		Aliases: []string{"f"},
		Usage:   "Create, update and comment on features",
		Subcommands: []*cli.Command{
			featureCreateCmd(),
			featureUpdateCmd(),
			featureCommentCmd(),
		},
	}
}

func featureCreateCmd() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a feature in a release",
		ArgsUsage: "<name>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "release",
				Aliases:  []string{"r"},
				Usage:    "release ID",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "feature description (markdown)",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("feature name is required")
			}

			rt, err := loadRuntime()
			if err != nil {
				return fail(err)
			}
			rec, err := rt.engine.CreateFeature(c.Context, models.CreateFeatureInput{
				Name:        strings.Join(c.Args().Slice(), " "),
				Description: c.String("description"),
				ReleaseID:   c.String("release"),
			})
			if err != nil {
				return fail(err)
			}

			fmt.Println(okStyle.Render(fmt.Sprintf("✅ Feature %s created!", rec.ReferenceNum)))
			printRecord(os.Stdout, rec)
			return nil
		},
	}
}

func featureUpdateCmd() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Change the release, assignee or workflow status of a feature",
		ArgsUsage: "<reference>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "release",
				Usage: "release ID",
			},
			&cli.StringFlag{
				Name:  "assignee",
				Usage: "assignee user ID",
			},
			&cli.StringFlag{
				Name:  "email",
				Usage: "assignee email (resolved to a user ID)",
			},
			&cli.StringFlag{
				Name:    "status",
				Aliases: []string{"s"},
				Usage:   "workflow status name or ID",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("reference is required")
			}

			rt, err := loadRuntime()
			if err != nil {
				return fail(err)
			}
			rec, err := rt.engine.UpdateFeature(c.Context, engine.UpdateFeatureRequest{
				Reference:           c.Args().First(),
				Release:             c.String("release"),
				AssignedToUser:      c.String("assignee"),
				AssignedToUserEmail: c.String("email"),
				WorkflowStatus:      c.String("status"),
			})
			if err != nil {
				return fail(err)
			}

			fmt.Println(okStyle.Render(fmt.Sprintf("✅ Feature %s updated!", rec.ReferenceNum)))
			printRecord(os.Stdout, rec)
			return nil
		},
	}
}

func featureCommentCmd() *cli.Command {
	return &cli.Command{
		Name:      "comment",
		Usage:     "Add a comment to a feature",
		ArgsUsage: "<reference> <text...>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("reference and comment text are required")
			}
			ref := c.Args().First()
			body := strings.Join(c.Args().Tail(), " ")

			rt, err := loadRuntime()
			if err != nil {
				return fail(err)
			}
			comment, err := rt.engine.AddFeatureComment(c.Context, ref, body)
			if err != nil {
				return fail(err)
			}

			fmt.Println(okStyle.Render(fmt.Sprintf("✅ Comment %s added to %s", comment.ID, ref)))
			return nil
		},
	}
}
