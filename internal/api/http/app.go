package httpapi

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/i474232898/urbo/internal/planning"
)

// Options configures the HTTP surface.
type Options struct {
	CORSOrigins []string
	// AccessLog enables the request logger middleware.
	AccessLog bool
}

// NewApp builds the Fiber app with middleware, health check and API routes.
func NewApp(service *planning.Service, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "urbo",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// Aggregate runs four upstream calls back to back.
		WriteTimeout: 2 * time.Minute,
		ErrorHandler: ErrorHandler,
	})

	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(recover.New())
	if len(opts.CORSOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(opts.CORSOrigins, ","),
			AllowCredentials: true,
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "urbo",
		})
	})

	RegisterRoutes(app, service)
	return app
}
