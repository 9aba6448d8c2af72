package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/kutbudev/aha-mcp/internal/engine"
	"github.com/kutbudev/aha-mcp/internal/models"
	"github.com/kutbudev/aha-mcp/internal/reference"
	"github.com/urfave/cli/v2"
)

// NewRecordCommand creates the 'record' command group.
func NewRecordCommand() *cli.Command {
	return &cli.Command{
		Name:    "record",
		Aliases: []string{"r"},
		Usage:   "Read features and requirements",
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Show a feature (DEVELOP-123) or requirement (ADT-123-1)",
				ArgsUsage: "<reference>",
				Flags:     []cli.Flag{jsonFlag},
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("reference is required")
					}
					ref := c.Args().First()

					rt, err := loadRuntime()
					if err != nil {
						return fail(err)
					}
					rec, err := rt.engine.GetRecord(c.Context, ref)
					if err != nil {
						return fail(err)
					}
					if rec == nil {
						kind, _ := reference.Classify(ref)
						fmt.Println(engine.NotFoundMessage(kind, ref))
						return nil
					}
					if c.Bool("json") {
						return printJSON(os.Stdout, rec)
					}
					printRecord(os.Stdout, rec)
					return nil
				},
			},
		},
	}
}

// NewIdeaCommand creates the 'idea' command.
func NewIdeaCommand() *cli.Command {
	return &cli.Command{
		Name:      "idea",
		Usage:     "Show an idea (ABC-I-213) as JSON",
		ArgsUsage: "<reference>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("reference is required")
			}
			ref := c.Args().First()

			rt, err := loadRuntime()
			if err != nil {
				return fail(err)
			}
			idea, err := rt.engine.GetIdea(c.Context, ref)
			if err != nil {
				return fail(err)
			}
			if idea == nil {
				fmt.Println(engine.NotFoundMessage(reference.Idea, ref))
				return nil
			}
			return printJSON(os.Stdout, idea)
		},
	}
}

// NewPageCommand creates the 'page' command group.
func NewPageCommand() *cli.Command {
	return &cli.Command{
		Name:  "page",
		Usage: "Read notes and pages",
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Show a page (ABC-N-213)",
				ArgsUsage: "<reference>",
				Flags: []cli.Flag{
					jsonFlag,
					&cli.BoolFlag{
						Name:    "parent",
						Aliases: []string{"p"},
						Usage:   "include the parent page",
					},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("reference is required")
					}
					ref := c.Args().First()

					rt, err := loadRuntime()
					if err != nil {
						return fail(err)
					}
					page, err := rt.engine.GetPage(c.Context, ref, c.Bool("parent"))
					if err != nil {
						return fail(err)
					}
					if page == nil {
						fmt.Println(engine.NotFoundMessage(reference.Page, ref))
						return nil
					}
					if c.Bool("json") {
						return printJSON(os.Stdout, page)
					}
					printPage(os.Stdout, page)
					return nil
				},
			},
		},
	}
}

// NewSearchCommand creates the 'search' command.
func NewSearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Aliases:   []string{"s"},
		Usage:     "Search documents",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			jsonFlag,
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "searchable type (Page, Feature, Requirement, ...)",
				Value:   engine.DefaultSearchableType,
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "result page",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("search query is required")
			}

			var page *int
			if c.IsSet("page") {
				p := c.Int("page")
				page = &p
			}

			rt, err := loadRuntime()
			if err != nil {
				return fail(err)
			}
			res, err := rt.engine.SearchDocuments(c.Context, c.Args().First(), c.String("type"), page)
			if err != nil {
				return fail(err)
			}
			if c.Bool("json") {
				return printJSON(os.Stdout, res)
			}
			printSearch(os.Stdout, res)
			return nil
		},
	}
}

func printRecord(w io.Writer, rec *models.Record) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s  %s", rec.ReferenceNum, rec.Name)))
	if rec.WorkflowStatus != nil {
		printField(w, "Status", rec.WorkflowStatus.Name)
	}
	if rec.Release != nil {
		printField(w, "Release", fmt.Sprintf("%s (%s)", rec.Release.Name, rec.Release.ID))
	}
	if rec.AssignedToUser != nil {
		printField(w, "Assignee", rec.AssignedToUser.Name)
	}
	if rec.Project != nil {
		printField(w, "Project", rec.Project.ID)
	}
	if rec.Description != nil {
		fmt.Fprintln(w)
		fmt.Fprint(w, renderMarkdown(rec.Description.MarkdownBody))
	}
}

func printPage(w io.Writer, page *models.Page) {
	fmt.Fprintln(w, titleStyle.Render(page.Name))
	if page.Parent != nil {
		printField(w, "Parent", fmt.Sprintf("%s (%s)", page.Parent.Name, page.Parent.ReferenceNum))
	}
	for _, child := range page.Children {
		printField(w, "Child", fmt.Sprintf("%s (%s)", child.Name, child.ReferenceNum))
	}
	if page.Description != nil {
		fmt.Fprintln(w)
		fmt.Fprint(w, renderMarkdown(page.Description.MarkdownBody))
	}
}

func printSearch(w io.Writer, res *models.SearchResult) {
	if len(res.Nodes) == 0 {
		fmt.Fprintln(w, "No documents found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tID\tNAME\tURL")
	fmt.Fprintln(tw, "----\t--\t----\t---")
	for _, n := range res.Nodes {
		name := ""
		if n.Name != nil {
			name = *n.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			n.SearchableType,
			n.SearchableID,
			truncateString(orDash(name), 50),
			n.URL)
	}
	tw.Flush()
	fmt.Fprintf(w, "\nPage %d of %d (%d results)\n", res.CurrentPage, res.TotalPages, res.TotalCount)
}
