package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dukex/orpheusflows/pkg/catalog"
	"github.com/dukex/orpheusflows/pkg/cmd"
	"github.com/dukex/orpheusflows/pkg/graph"
	"github.com/dukex/orpheusflows/pkg/log"
	"github.com/dukex/orpheusflows/pkg/models"
	"github.com/dukex/orpheusflows/pkg/persistence"
	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
)

var errInvalidGraph = errors.New("graph is invalid")

func GraphCommand() *cli.Command {
	return &cli.Command{
		Name:  "graph",
		Usage: "Inspect the stored workflow graph",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "file",
				Usage: "Read a serialized graph from this file instead of the storage URL",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "Check the stored graph against the workflow rules and the catalog",
				Action: func(ctx context.Context, command *cli.Command) error {
					g, cat, err := loadGraph(ctx, command)
					if err != nil {
						return err
					}

					return validateGraph(command.Root().Writer, g, cat)
				},
			},
			{
				Name:  "show",
				Usage: "Print the stored workflow in chain order",
				Action: func(ctx context.Context, command *cli.Command) error {
					g, cat, err := loadGraph(ctx, command)
					if err != nil {
						return err
					}

					return showGraph(command.Root().Writer, g, cat)
				},
			},
		},
	}
}

func loadGraph(ctx context.Context, command *cli.Command) (*models.Graph, *catalog.Catalog, error) {
	log.Setup(command.String("log-level"))

	logger := log.WithModule("graph")

	cat, err := cmd.NewCatalog(logger, command.String("catalog-path"))
	if err != nil {
		return nil, nil, err
	}

	if path := command.String("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read graph file: %w", err)
		}

		g, err := persistence.Unmarshal(data)
		if err != nil {
			return nil, nil, err
		}

		return g, cat, nil
	}

	g, err := loadStored(ctx, logger, command.String("database-url"), cat)
	if err != nil {
		return nil, nil, err
	}

	return g, cat, nil
}

func loadStored(ctx context.Context, logger *slog.Logger, databaseURL string, cat *catalog.Catalog) (*models.Graph, error) {
	medium, err := cmd.NewPersistence(ctx, logger, databaseURL)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := medium.Close(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
		}
	}()

	g, err := persistence.NewBridge(logger, medium, cat).Load(ctx)
	if err != nil {
		return nil, err
	}

	if g == nil {
		g = &models.Graph{}
	}

	return g, nil
}

func validateGraph(w io.Writer, g *models.Graph, cat *catalog.Catalog) error {
	ok := color.New(color.FgGreen).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()

	if err := graph.Validate(*g, cat); err != nil {
		_, _ = fmt.Fprintf(w, "%s %v\n", bad("invalid:"), err)

		return fmt.Errorf("%w: %w", errInvalidGraph, err)
	}

	for _, n := range g.Nodes {
		if _, found := cat.GetByID(n.DefinitionID); !found {
			_, _ = fmt.Fprintf(w, "%s node %s uses unknown definition %q\n", warn("warning:"), n.ID, n.DefinitionID)
		}
	}

	_, _ = fmt.Fprintf(w, "%s %d nodes, %d edges\n", ok("valid:"), len(g.Nodes), len(g.Edges))

	return nil
}

func showGraph(w io.Writer, g *models.Graph, cat *catalog.Catalog) error {
	model := graph.New(cat)
	if err := model.Hydrate(*g); err != nil {
		return fmt.Errorf("%w: %w", errInvalidGraph, err)
	}

	trigger := color.New(color.FgCyan, color.Bold).SprintFunc()
	step := color.New(color.FgWhite).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	chain := model.Chain()
	if len(chain) == 0 {
		_, _ = fmt.Fprintln(w, faint("no trigger placed"))
	}

	inChain := make(map[string]bool, len(chain))

	for i, n := range chain {
		inChain[n.ID] = true

		label := labelOf(cat, n)
		if i == 0 {
			_, _ = fmt.Fprintf(w, "%s %s\n", trigger("▶ "+label), faint(n.ID))
		} else {
			_, _ = fmt.Fprintf(w, "%s %s\n", step("  → "+label), faint(n.ID))
		}

		printValues(w, n, faint)
	}

	for _, n := range g.Nodes {
		if !inChain[n.ID] {
			_, _ = fmt.Fprintf(w, "%s %s\n", faint("  ∅ "+labelOf(cat, n)+" (unconnected)"), faint(n.ID))
		}
	}

	return nil
}

func printValues(w io.Writer, n models.Node, faint func(a ...any) string) {
	for key, value := range n.Values {
		_, _ = fmt.Fprintf(w, "      %s\n", faint(key+" = "+value))
	}
}

func labelOf(cat *catalog.Catalog, n models.Node) string {
	if def, ok := cat.GetByID(n.DefinitionID); ok {
		return def.Label
	}

	return n.DefinitionID
}
