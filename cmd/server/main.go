package main

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/example/stockroom/internal/config"
	"github.com/example/stockroom/internal/database"
	"github.com/example/stockroom/internal/routes"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)
	database.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword)

	app := fiber.New(fiber.Config{
		AppName:      "Stockroom Backend",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	routes.Register(app, db, cfg)

	log.Info().Str("port", cfg.AppPort).Msg("starting server")
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal().Err(err).Msg("fiber.Listen error")
	}
}

// errorHandler shapes every handler error into the response envelope.
// Unexpected errors are logged with full detail but answered with a generic
// message so storage internals never reach the wire.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"success": false,
			"error":   fiberErr.Message,
		})
	}

	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("unhandled error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   "internal server error",
	})
}
