package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/docdex/docdex/pkg/config"
	"github.com/docdex/docdex/pkg/core"
	"github.com/docdex/docdex/pkg/providers/dash"
)

var (
	docsetNameStyle    = titleStyle
	docsetKeywordStyle = completionStyle
)

// DocsetsCommand creates the docsets command with its subcommands
func DocsetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "docsets",
		Usage: "Manage installed docsets",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List docsets visible to the configured providers",
				Action: func(ctx context.Context, c *cli.Command) error {
					return listDocsets(ctx, c.String("config"))
				},
			},
			{
				Name:      "install",
				Usage:     "Install a docset from a .tgz archive",
				ArgsUsage: "<archive.tgz>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Destination docsets directory (defaults to the Zeal docsets directory)",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return fmt.Errorf("expected exactly one archive argument")
					}
					return installDocset(c.Args().First(), c.String("dir"))
				},
			},
		},
	}
}

func listDocsets(ctx context.Context, configPath string) error {
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

	total := 0
	for _, provider := range registry.AllProviders() {
		// The empty keyword is a prefix of every keyword, so this lists
		// every docset the provider can see.
		docSets, err := provider.SearchDocSets(ctx, "")
		if err != nil {
			fmt.Printf("Warning: provider %s failed: %v\n", provider.Name(), err)
			continue
		}

		for _, ds := range docSets {
			fmt.Printf("%s  [%s]\n", docsetNameStyle.Render(ds.Name),
				docsetKeywordStyle.Render(strings.Join(ds.Keywords, ", ")))
			if ds.Description != "" && ds.Description != ds.Name {
				fmt.Printf("  %s\n", subtextStyle.Render(ds.Description))
			}
			total++
		}
	}

	fmt.Printf("\nTotal: %d docsets\n", total)
	return nil
}

func installDocset(archivePath, destDir string) error {
	if destDir == "" {
		dataDir, err := config.GetDefaultDataDir()
		if err != nil {
			return fmt.Errorf("locating docsets directory: %w", err)
		}
		destDir = filepath.Join(dataDir, "Zeal", "Zeal", "docsets")
	}

	if err := dash.ExtractArchive(archivePath, destDir); err != nil {
		return fmt.Errorf("installing docset: %w", err)
	}

	fmt.Printf("Installed %s into %s\n", filepath.Base(archivePath), destDir)
	return nil
}
