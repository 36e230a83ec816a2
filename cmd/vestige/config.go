package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/panbanda/vestige/internal/service/analysis"
	"github.com/panbanda/vestige/pkg/config"
	"github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"
)

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the effective configuration",
				Description: `Shows the merged configuration from defaults and the config file.

Examples:
  vestige config show                   # Show effective config
  vestige -c vestige.toml config show   # Show config from specific file`,
				Action: runConfigShowCmd,
			},
			{
				Name:  "validate",
				Usage: "Validate a configuration file",
				Description: `Validates a vestige configuration file for syntax errors and invalid
values, including rule modes and ignore patterns.

Examples:
  vestige config validate                   # Validates default config locations
  vestige -c vestige.toml config validate   # Validates specific file`,
				Action: runConfigValidateCmd,
			},
		},
	}
}

func runConfigShowCmd(c *cli.Context) error {
	path := c.String("config")
	if path == "" {
		path = config.Locate()
	}

	var cfg *config.Config
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
		fmt.Printf("# Configuration from: %s\n\n", path)
	} else {
		cfg = config.DefaultConfig()
		fmt.Println("# Default configuration (no config file found)")
	}

	content, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Print(string(content))

	return nil
}

func runConfigValidateCmd(c *cli.Context) error {
	path := c.String("config")
	if path == "" {
		path = config.Locate()
	}

	if path == "" {
		color.Yellow("No config file found. Default configuration is valid.")
		return nil
	}

	if err := config.ValidateFile(path); err != nil {
		color.Red("Configuration validation failed:")
		fmt.Printf("  - %s\n", err)
		return cli.Exit("", 1)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	// Schema validation cannot check regexp syntax, so compile the rule
	// options too.
	svc := analysis.New(analysis.WithConfig(cfg))
	if _, err := svc.RuleOptions(analysis.UnusedOptions{}); err != nil {
		color.Red("Configuration validation failed:")
		fmt.Printf("  - %s\n", err)
		return cli.Exit("", 1)
	}

	color.Green("Configuration valid: %s", path)
	return nil
}
