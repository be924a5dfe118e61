package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/docdex/docdex/pkg/config"
	"github.com/docdex/docdex/pkg/core"
	"github.com/docdex/docdex/pkg/engine"
)

// ActivateCommand creates the activate command
func ActivateCommand() *cli.Command {
	return &cli.Command{
		Name:      "activate",
		Usage:     "Activate a result reference printed by `query --refs`",
		ArgsUsage: "<reference>",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one reference argument")
			}
			return runActivate(ctx, c.String("config"), c.Args().First())
		},
	}
}

func runActivate(ctx context.Context, configPath, reference string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	registry := core.GetGlobalRegistry()
	if err := createProvidersFromConfig(registry, cfg); err != nil {
		return fmt.Errorf("creating providers: %w", err)
	}
	defer func() {
		if err := registry.Close(); err != nil {
			fmt.Printf("Warning: failed to close registry: %v\n", err)
		}
	}()

	eng := engine.New(registry, cfg.MinQueryLength)
	if err := eng.Activate(ctx, reference); err != nil {
		return fmt.Errorf("activating reference: %w", err)
	}
	return nil
}
