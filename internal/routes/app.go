package routes

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/config"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// NewApp wires services, handlers and global middleware into a Fiber app.
// extra middleware runs before the global stack (Sentry in production).
func NewApp(cfg *config.Config, db *gorm.DB, ping func() error, extra ...fiber.Handler) *fiber.App {
	authService := services.NewAuthService(db, cfg)
	recipeService := services.NewRecipeService(db, cfg)

	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(ping)
	recipeHandler := handlers.NewRecipeHandler(recipeService)

	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: ErrorHandler,
	})

	for _, h := range extra {
		app.Use(h)
	}
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(metrics.Middleware())
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	Setup(app, cfg, authHandler, healthHandler, recipeHandler)
	return app
}

// ErrorHandler hides server error details from clients.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	errCode := dto.CodeInternal
	switch code {
	case fiber.StatusNotFound:
		errCode = dto.CodeNotFound
	case fiber.StatusUnauthorized:
		errCode = dto.CodeUnauthorized
	case fiber.StatusForbidden:
		errCode = dto.CodeForbidden
	default:
		if code < 500 {
			errCode = dto.CodeValidation
		}
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
		Code:    errCode,
	})
}
