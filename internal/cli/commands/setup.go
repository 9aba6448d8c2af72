package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/kutbudev/aha-mcp/internal/config"
	"github.com/urfave/cli/v2"
)

type setupAnswers struct {
	Domain    string `survey:"domain"`
	UserEmail string `survey:"email"`
	ProductID string `survey:"product"`
	Token     string `survey:"token"`
}

func NewSetupCommand() *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Configure the Aha! domain, API token and defaults",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "token-stdin",
				Usage: "read the API token from stdin instead of prompting",
			},
			&cli.BoolFlag{
				Name:  "no-keyring",
				Usage: "store the token in the config file instead of the keyring",
			},
		},
		Subcommands: []*cli.Command{
			{
				Name:  "logout",
				Usage: "Remove the stored API token",
				Action: func(c *cli.Context) error {
					if err := config.NewKeyringStore().Delete(); err != nil {
						return fmt.Errorf("could not remove token: %w", err)
					}
					fmt.Println(okStyle.Render("✅ API token removed."))
					return nil
				},
			},
		},
		Action: func(c *cli.Context) error {
			return handleSetup(c.Bool("token-stdin"), c.Bool("no-keyring"))
		},
	}
}

func handleSetup(tokenFromStdin, noKeyring bool) error {
	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	current, err := config.LoadFile(path, nil)
	if err != nil {
		return err
	}

	qs := []*survey.Question{
		{
			Name:     "domain",
			Prompt:   &survey.Input{Message: "Aha! domain (acme for acme.aha.io):", Default: current.Domain},
			Validate: survey.Required,
		},
		{
			Name:   "email",
			Prompt: &survey.Input{Message: "Your Aha! email (used as default assignee):", Default: current.UserEmail},
		},
		{
			Name:   "product",
			Prompt: &survey.Input{Message: "Default product ID for releases (optional):", Default: current.ProductID},
		},
	}
	if !tokenFromStdin {
		qs = append(qs, &survey.Question{
			Name:     "token",
			Prompt:   &survey.Password{Message: "API token (Settings > Personal > Developer):"},
			Validate: survey.Required,
		})
	}

	var answers setupAnswers
	if err := survey.Ask(qs, &answers); err != nil {
		return err
	}
	if tokenFromStdin {
		tok, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && tok == "" {
			return fmt.Errorf("could not read token: %w", err)
		}
		answers.Token = tok
	}

	cfg := applySetup(current, answers)
	if err := cfg.Validate(); err != nil {
		return err
	}

	withToken := noKeyring
	if !noKeyring {
		store := config.NewKeyringStore()
		if err := store.Set(cfg.APIToken); err != nil {
			return fmt.Errorf("could not store token: %w", err)
		}
		fmt.Printf("Token stored in %s.\n", store.Backend())
	}
	if err := config.SaveConfig(path, cfg, withToken); err != nil {
		return fmt.Errorf("could not save config: %w", err)
	}

	fmt.Println(okStyle.Render("✅ Setup complete!"))
	fmt.Printf("Config: %s\n", path)
	fmt.Println("Try: aha-mcp record get DEVELOP-123")
	return nil
}

// applySetup merges prompt answers over the current configuration.
func applySetup(current *config.Config, a setupAnswers) *config.Config {
	cfg := *current
	cfg.Domain = strings.TrimSpace(a.Domain)
	cfg.UserEmail = strings.TrimSpace(a.UserEmail)
	cfg.ProductID = strings.TrimSpace(a.ProductID)
	if tok := strings.TrimSpace(a.Token); tok != "" {
		cfg.APIToken = tok
	}
	return &cfg
}
