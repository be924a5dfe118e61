package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/docdex/docdex/pkg/config"
	"github.com/docdex/docdex/pkg/core"
	"github.com/docdex/docdex/pkg/engine"
)

// Styles for query result rendering
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	categoryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	subtextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	completionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	relevanceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// QueryCommand creates the query command
func QueryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "Search docsets, e.g. `docdex query \"py list\"`",
		ArgsUsage: "<keyword> [term]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "refs",
				Usage: "Print the activation reference for each result",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			raw := strings.Join(c.Args().Slice(), " ")
			return runQuery(ctx, c.String("config"), raw, c.Bool("refs"))
		},
	}
}

func runQuery(ctx context.Context, configPath, raw string, showRefs bool) error {
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
	entries, err := eng.Query(ctx, raw)
	if err != nil {
		return fmt.Errorf("running query: %w", err)
	}

	engine.SortEntries(entries)
	printEntries(entries, showRefs)
	return nil
}

func printEntries(entries []engine.QueryEntry, showRefs bool) {
	if len(entries) == 0 {
		fmt.Println("No results found")
		return
	}

	for i, entry := range entries {
		switch entry.MatchType {
		case engine.MatchCompletion:
			fmt.Printf("%d. %s\n", i+1, completionStyle.Render(entry.DisplayText))
		default:
			line := titleStyle.Render(entry.DisplayText)
			if entry.Properties.Category != "" {
				line += "  " + categoryStyle.Render(entry.Properties.Category)
			}
			line += "  " + relevanceStyle.Render(fmt.Sprintf("(%.2f)", entry.Relevance))
			fmt.Printf("%d. %s\n", i+1, line)
			if entry.Properties.Subtext != "" {
				fmt.Printf("   %s\n", subtextStyle.Render(entry.Properties.Subtext))
			}
		}
		if showRefs {
			fmt.Printf("   ref: %s\n", entry.Data)
		}
	}

	fmt.Printf("\nTotal: %d results\n", len(entries))
}
