package main

import (
	"log/slog"
	"strconv"

	"github.com/dukex/orpheusflows/pkg/catalog"
	"github.com/dukex/orpheusflows/pkg/editor"
	"github.com/dukex/orpheusflows/pkg/persistence"
	"github.com/dukex/orpheusflows/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger   *slog.Logger
	session  *editor.Session
	catalog  *catalog.Catalog
	medium   persistence.Medium
	validate *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	session *editor.Session,
	catalog *catalog.Catalog,
	medium persistence.Medium,
) *API {
	return &API{
		logger:   logger,
		session:  session,
		catalog:  catalog,
		medium:   medium,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewEditorHandlers(a.logger, a.session, a.catalog, a.medium, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Orpheusflows Editor")
	})

	handlers.Routes(app)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
