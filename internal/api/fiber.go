// Package api wires the Fiber application: middleware, health check and routes.
package api

import (
	"time"

	"github.com/baristahub/baristahub-backend/graphql"
	"github.com/baristahub/baristahub-backend/restapi"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
)

// Options are the app-level settings that are not route dependencies
type Options struct {
	AllowOrigins string
	// DisableAccessLog turns off the request logger, used by tests
	DisableAccessLog bool
}

// NewFiberApp creates and configures a Fiber app with REST and GraphQL routes.
// deps.Schema is built from deps.Store when left empty.
func NewFiberApp(deps restapi.Deps, opts Options) (*fiber.App, error) {
	if deps.Schema.QueryType() == nil {
		schema, err := graphql.CreateSchema(deps.Store)
		if err != nil {
			return nil, err
		}
		deps.Schema = schema
	}

	app := fiber.New(fiber.Config{
		AppName:      "baristahub-backend API v1.0",
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ReadTimeout:  60 * time.Second,
		ErrorHandler: errorHandler,
	})

	// Middleware
	app.Use(fiberrecover.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))

	if opts.AllowOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowOrigins,
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
			AllowCredentials: true,
			AllowMethods:     "GET, POST, HEAD, PUT, DELETE, PATCH, OPTIONS",
		}))
	}

	if !opts.DisableAccessLog {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("graphql_op", "-")
			return c.Next()
		})
		app.Use(logger.New(logger.Config{
			Format: "${time} ${status} - ${latency} ${method} ${path} ${locals:graphql_op}\n",
		}))
	}

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	restapi.SetupRoutes(app, deps)

	return app, nil
}

// errorHandler keeps framework errors (404, 405, body limit) in the
// {"message": ...} shape the handlers use.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}
	return c.Status(code).JSON(fiber.Map{"message": message})
}
