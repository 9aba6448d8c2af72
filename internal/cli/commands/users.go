package commands

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/urfave/cli/v2"
)

// NewUserCommand looks up an Aha! user by email.
func NewUserCommand() *cli.Command {
	return &cli.Command{
		Name:      "user",
		Usage:     "Find a user by email",
		ArgsUsage: "<email>",
		Flags: []cli.Flag{
			jsonFlag,
			&cli.BoolFlag{
				Name:    "copy",
				Aliases: []string{"c"},
				Usage:   "copy the user ID to the clipboard",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("email is required")
			}

			rt, err := loadRuntime()
			if err != nil {
				return fail(err)
			}
			user, err := rt.engine.GetUserByEmail(c.Context, c.Args().First())
			if err != nil {
				return fail(err)
			}

			if c.Bool("json") {
				if err := printJSON(os.Stdout, user); err != nil {
					return err
				}
			} else {
				fmt.Println(titleStyle.Render(orDash(user.Name)))
				printField(os.Stdout, "ID", user.ID)
				printField(os.Stdout, "Email", user.Email)
			}

			if c.Bool("copy") {
				if err := clipboard.WriteAll(user.ID); err != nil {
					return fmt.Errorf("could not copy to clipboard: %w", err)
				}
				fmt.Fprintln(os.Stderr, "📋 User ID copied to clipboard.")
			}
			return nil
		},
	}
}

// NewWhoamiCommand shows the configured requester.
func NewWhoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the user configured by AHA_USER_EMAIL",
		Action: func(c *cli.Context) error {
			rt, err := loadRuntime()
			if err != nil {
				return fail(err)
			}
			user, err := rt.engine.GetConfiguredUser(c.Context)
			if err != nil {
				return fail(err)
			}
			printField(os.Stdout, "Email", user.Email)
			printField(os.Stdout, "ID", user.UserID)
			return nil
		},
	}
}
