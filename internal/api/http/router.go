package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/tcnexs/backend/internal/api/dto"
	"github.com/tcnexs/backend/internal/api/http/handlers"
	"github.com/tcnexs/backend/internal/auth"
	"github.com/tcnexs/backend/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Companies     *handlers.CompaniesHandler
	Announcements *handlers.AnnouncementsHandler
	Projects      *handlers.ProjectsHandler
	Gate          *auth.Gate
	// ProjectWriteRoles gates project creation and deletion.
	ProjectWriteRoles []domain.Role
	// Metrics serves the Prometheus exposition; nil disables /metrics.
	Metrics nethttp.Handler
	// UploadDir is served read-only under /uploads when set.
	UploadDir string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	protect := cfg.Gate.Protect

	app.Get("/", cfg.Health.Root)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}
	if cfg.UploadDir != "" {
		app.Static(dto.UploadsPrefix, cfg.UploadDir, fiber.Static{Browse: false})
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", protect(cfg.Auth.Logout))
	authGroup.Get("/me", protect(cfg.Auth.Me))

	companies := api.Group("/companies")
	companies.Get("/me", protect(cfg.Companies.Me))
	companies.Put("/me", protect(cfg.Companies.UpdateMe))
	companies.Get("/", protect(cfg.Companies.List))
	companies.Get("/:id", cfg.Companies.Get)
	companies.Put("/:id", protect(cfg.Companies.Update))
	companies.Post("/:id/photo", protect(cfg.Companies.UploadPhoto))

	announcements := api.Group("/announcements")
	announcements.Get("/", protect(cfg.Announcements.List))
	announcements.Get("/:id", cfg.Announcements.Get)
	announcements.Post("/", protect(cfg.Announcements.Create))
	announcements.Put("/:id", protect(cfg.Announcements.Update))
	announcements.Delete("/:id", protect(cfg.Announcements.Delete))

	writers := auth.RequireRole(cfg.ProjectWriteRoles...)
	projects := api.Group("/projects")
	projects.Get("/", protect(cfg.Projects.List))
	projects.Get("/:id", protect(cfg.Projects.Get))
	projects.Post("/", protect(cfg.Projects.Create, writers))
	projects.Put("/:id", protect(cfg.Projects.Update))
	projects.Delete("/:id", protect(cfg.Projects.Delete, writers))
}
