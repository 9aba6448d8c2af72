package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/kutbudev/aha-mcp/internal/models"
	"github.com/urfave/cli/v2"
)

// NewReleasesCommand lists every release of a product.
func NewReleasesCommand() *cli.Command {
	return &cli.Command{
		Name:    "releases",
		Aliases: []string{"rel"},
		Usage:   "List releases of a product, oldest first",
		Flags: []cli.Flag{
			jsonFlag,
			&cli.StringFlag{
				Name:    "product",
				Aliases: []string{"p"},
				Usage:   "product ID (defaults to AHA_PRODUCT_ID)",
			},
		},
		Action: func(c *cli.Context) error {
			rt, err := loadRuntime()
			if err != nil {
				return fail(err)
			}

			var releases []models.Release
			err = withSpinner("Fetching releases...", func() error {
				var err error
				releases, err = rt.engine.GetReleases(c.Context, c.String("product"))
				return err
			})
			if err != nil {
				return fail(err)
			}
			if c.Bool("json") {
				return printJSON(os.Stdout, releases)
			}
			printReleases(os.Stdout, releases)
			return nil
		},
	}
}

// NewStatusesCommand lists the workflow statuses of a project.
func NewStatusesCommand() *cli.Command {
	return &cli.Command{
		Name:      "statuses",
		Usage:     "List workflow statuses of a project",
		ArgsUsage: "<project-id>",
		Flags:     []cli.Flag{jsonFlag},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("project ID is required")
			}
			projectID := c.Args().First()

			rt, err := loadRuntime()
			if err != nil {
				return fail(err)
			}

			var statuses []models.WorkflowStatus
			err = withSpinner("Fetching workflow statuses...", func() error {
				var err error
				statuses, err = rt.engine.GetWorkflowStatuses(c.Context, projectID)
				return err
			})
			if err != nil {
				return fail(err)
			}
			if c.Bool("json") {
				return printJSON(os.Stdout, statuses)
			}
			printStatuses(os.Stdout, statuses)
			return nil
		},
	}
}

func printReleases(w io.Writer, releases []models.Release) {
	if len(releases) == 0 {
		fmt.Fprintln(w, "No releases found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tREFERENCE\tNAME\tRELEASE DATE")
	fmt.Fprintln(tw, "--\t---------\t----\t------------")
	for _, r := range releases {
		date := ""
		if r.ReleaseDate != nil {
			date = *r.ReleaseDate
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			r.ID,
			orDash(r.ReferenceNum),
			truncateString(r.Name, 40),
			orDash(date))
	}
	tw.Flush()
}

func printStatuses(w io.Writer, statuses []models.WorkflowStatus) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	fmt.Fprintln(tw, "--\t----")
	for _, s := range statuses {
		fmt.Fprintf(tw, "%s\t%s\n", s.ID, s.Name)
	}
	tw.Flush()
}
