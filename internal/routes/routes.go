package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/config"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	recipeHandler *handlers.RecipeHandler,
) {
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	api.Use(perIPLimit(cfg.RateLimit))

	api.Get("/health", healthHandler.Check)

	// Stricter limit on credential checks; refresh uses the general one.
	credentials := perIPLimit(cfg.AuthRateLimit)
	auth := api.Group("/auth")
	auth.Post("/register", credentials, authHandler.Register)
	auth.Post("/login", credentials, authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Recipes: public reads, owner-scoped writes
	recipes := api.Group("/recipes")
	recipes.Get("/", recipeHandler.List)
	recipes.Get("/:id", recipeHandler.Get)
	recipes.Post("/", middleware.JWTProtected(cfg), recipeHandler.Create)
	recipes.Post("/batch", middleware.JWTProtected(cfg), recipeHandler.CreateBatch)
	recipes.Put("/:id", middleware.JWTProtected(cfg), recipeHandler.Update)
	recipes.Delete("/:id", middleware.JWTProtected(cfg), recipeHandler.Delete)
}

func perIPLimit(perMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               perMinute,
		Expiration:        time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}
