package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stutiagarwal3007/esahayak-2025/internal/api/http/handlers"
	"github.com/stutiagarwal3007/esahayak-2025/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Leads          *handlers.LeadsHandler
	ImportExport   *handlers.ImportExportHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	leads := app.Group("/leads", cfg.AuthMiddleware.Handle, auth.RequireUser())
	leads.Post("", cfg.Leads.CreateLead)
	leads.Get("", cfg.Leads.ListLeads)
	// Static segments must be registered ahead of the :id parameter.
	leads.Get("/export", cfg.ImportExport.ExportLeads)
	leads.Post("/import", cfg.ImportExport.ImportLeads)
	leads.Get("/:id", cfg.Leads.GetLead)
	leads.Put("/:id", cfg.Leads.UpdateLead)
	leads.Delete("/:id", cfg.Leads.DeleteLead)
}
