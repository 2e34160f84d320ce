package main

import (
	"context"
	"fmt"
	"io"

	"github.com/dukex/orpheusflows/pkg/cmd"
	"github.com/dukex/orpheusflows/pkg/log"
	"github.com/dukex/orpheusflows/pkg/models"
	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
)

func CatalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Inspect the node catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the available triggers and steps",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "role",
						Usage: "Only list definitions of this role (trigger, step)",
					},
				},
				Action: func(_ context.Context, command *cli.Command) error {
					log.Setup(command.String("log-level"))

					cat, err := cmd.NewCatalog(log.WithModule("catalog"), command.String("catalog-path"))
					if err != nil {
						return err
					}

					definitions := cat.All()

					if role := command.String("role"); role != "" {
						if role != string(models.RoleTrigger) && role != string(models.RoleStep) {
							return fmt.Errorf("unknown role %q", role)
						}

						definitions = cat.GetByRole(models.Role(role))
					}

					printDefinitions(command.Root().Writer, definitions)

					return nil
				},
			},
		},
	}
}

func printDefinitions(w io.Writer, definitions []models.NodeDefinition) {
	trigger := color.New(color.FgCyan).SprintFunc()
	step := color.New(color.FgGreen).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	for _, def := range definitions {
		role := step(def.Role)
		if def.IsTrigger() {
			role = trigger(def.Role)
		}

		_, _ = fmt.Fprintf(w, "%-8s %-24s %s\n", role, def.ID, def.Label)

		for _, f := range def.Fields {
			_, _ = fmt.Fprintf(w, "         %s\n", faint(fmt.Sprintf("%s (%s)", f.ID, f.Type)))
		}
	}
}
