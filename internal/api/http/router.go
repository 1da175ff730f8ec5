package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/club-admin/internal/api/http/handlers"
	"github.com/spec-kit/club-admin/internal/auth"
	"github.com/spec-kit/club-admin/internal/rbac"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Staff          *handlers.StaffHandler
	Activity       *handlers.ActivityHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	authProtected.Get("/session", cfg.Auth.Session)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	staffGroup := app.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireAction(rbac.ActionManageStaff))
	staffGroup.Post("", cfg.Staff.Create)
	staffGroup.Get("", cfg.Staff.List)
	staffGroup.Patch("/:id/active", cfg.Staff.SetActive)
	staffGroup.Patch("/:id/role", cfg.Staff.SetRole)
	staffGroup.Post("/:id/password/reset", cfg.Staff.ResetPassword)

	app.Get("/activity", cfg.AuthMiddleware.Handle, auth.RequireAction(rbac.ActionReadActivityLog), cfg.Activity.Recent)
}
