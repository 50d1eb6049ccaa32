package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-service/internal/api/http/handlers"
	"github.com/spec-kit/user-service/internal/auth"
	"github.com/spec-kit/user-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Authentication always runs before any
// authorization policy on protected groups.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/register", cfg.Auth.Register)
	app.Post("/login", cfg.Auth.Login)
	app.Post("/auth/refresh", cfg.Auth.Refresh)
	app.Get("/verify-email", cfg.Auth.VerifyEmail)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/", auth.RequireRole(domain.RoleAdmin, domain.RoleManager), cfg.Users.List)
	users.Get("/:id", auth.RequireRole(domain.RoleAdmin, domain.RoleManager), cfg.Users.Get)
	users.Put("/:id", auth.RequireRole(domain.RoleAdmin, domain.RoleManager), cfg.Users.Update)
	users.Delete("/:id", auth.RequireRole(domain.RoleAdmin, domain.RoleManager), cfg.Users.Delete)
	users.Patch("/:id/profile", auth.RequireSelfOrRole("id", domain.RoleAdmin, domain.RoleManager), cfg.Users.UpdateProfile)
	users.Patch("/:id/upgrade-professional", auth.RequireRole(domain.RoleAdmin, domain.RoleManager), cfg.Users.UpgradeProfessional)
}
