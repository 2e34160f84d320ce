package main

import (
	"context"
	"fmt"

	"github.com/dukex/orpheusflows/pkg/cmd"
	"github.com/dukex/orpheusflows/pkg/editor"
	"github.com/dukex/orpheusflows/pkg/log"
	"github.com/dukex/orpheusflows/pkg/otelhelper"
	"github.com/dukex/orpheusflows/pkg/persistence"
	"github.com/urfave/cli/v3"
)

func RunCommand() *cli.Command {
	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Start the editor API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "users-path",
				Usage:   "TOML file of [[users]] known to the identity provider",
				Sources: cli.EnvVars("USERS_PATH"),
			},
			&cli.StringFlag{
				Name:     "user-id",
				Usage:    "Identifier of the authenticated user editing the canvas",
				Required: true,
				Sources:  cli.EnvVars("USER_ID"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma separated Kafka brokers, used with --event-bus kafka",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.BoolFlag{
				Name:    "otel-enabled",
				Usage:   "Export traces over OTLP/HTTP",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("api")

			logger.InfoContext(ctx, "Initializing Orpheusflows editor")

			if command.Bool("otel-enabled") {
				shutdown, err := otelhelper.Init(ctx, "orpheusflows")
				if err != nil {
					return fmt.Errorf("failed to initialize tracer: %w", err)
				}

				defer func() {
					if err := shutdown(ctx); err != nil {
						logger.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
					}
				}()
			}

			catalog, err := cmd.NewCatalog(log.WithModule("catalog"), command.String("catalog-path"))
			if err != nil {
				return err
			}

			user, err := cmd.NewIdentity(ctx, log.WithModule("identity"), command.String("users-path"), command.String("user-id"))
			if err != nil {
				return err
			}

			medium, err := cmd.NewPersistence(ctx, log.WithModule("persistence"), command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := medium.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus, err := cmd.NewEventBus(log.WithModule("eventbus"), command.String("event-bus"), command.String("kafka-brokers"))
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			if err := cmd.SubscribeAuditLog(ctx, log.WithModule("audit"), eventBus); err != nil {
				return fmt.Errorf("failed to subscribe audit log: %w", err)
			}

			session := editor.NewSession(editor.Config{
				Logger:    log.WithModule("editor"),
				User:      *user,
				Catalog:   catalog,
				Store:     persistence.NewBridge(log.WithModule("persistence"), medium, catalog),
				Publisher: eventBus,
			})

			// a broken saved graph is reported to the user, not fatal
			_ = session.Load(ctx)

			api := NewAPI(logger, session, catalog, medium)

			if err := api.Start(command.Int("port")); err != nil {
				logger.ErrorContext(ctx, "Failed to start editor API", "error", err)

				return err
			}

			return nil
		},
	}
}
