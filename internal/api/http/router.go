package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/visage-campus/visage-backend/internal/api/http/handlers"
	"github.com/visage-campus/visage-backend/internal/auth"
	"github.com/visage-campus/visage-backend/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes under /api.
// Guards are attached per route, not per group, so unknown paths fall through to the 404 handler.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	api := app.Group("/api")

	api.Get("/health", cfg.Health.Live)
	api.Get("/health/ready", cfg.Health.Ready)
	api.Get("/health/metrics", cfg.Health.Metrics)

	authenticated := func(h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), h}
	}
	admin := func(h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin), h}
	}

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/profile", authenticated(cfg.Auth.Profile)...)
	authGroup.Post("/change-password", authenticated(cfg.Auth.ChangePassword)...)
	authGroup.Get("/verify", authenticated(cfg.Auth.Verify)...)

	users := api.Group("/users")
	users.Put("/profile", authenticated(cfg.Users.UpdateProfile)...)
	users.Get("/", admin(cfg.Users.List)...)
	users.Post("/", admin(cfg.Users.Create)...)
	users.Get("/:id<int>", admin(cfg.Users.Get)...)
	users.Put("/:id<int>", admin(cfg.Users.Update)...)
	users.Delete("/:id<int>", admin(cfg.Users.Delete)...)

	api.Get("/roles", admin(cfg.Users.Roles)...)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
}
