package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sheda3838/tuteskillz-backend/internal/config"
	"github.com/sheda3838/tuteskillz-backend/internal/handler"
	"github.com/sheda3838/tuteskillz-backend/internal/middleware"
	"github.com/sheda3838/tuteskillz-backend/internal/models"
	"github.com/sheda3838/tuteskillz-backend/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AccountHandler   *handler.AccountHandler
	SessionHandler   *handler.SessionHandler
	PaymentHandler   *handler.PaymentHandler
	FeedbackHandler  *handler.FeedbackHandler
	NoteHandler      *handler.NoteHandler
	AdminHandler     *handler.AdminHandler
	DashboardHandler *handler.DashboardHandler
	JWTMiddleware    fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AccountHandler != nil {
		auth := api.Group("/auth")
		deps.AccountHandler.Register(auth)
	}

	if deps.SessionHandler != nil {
		sessions := api.Group("/session", jwtMiddleware)
		deps.SessionHandler.Register(sessions)
	}

	if deps.PaymentHandler != nil {
		// The provider webhook is authenticated by its signed payload, not
		// by a bearer token, so this group stays outside the JWT guard.
		payments := api.Group("/payment")
		deps.PaymentHandler.Register(payments)
	}

	if deps.FeedbackHandler != nil {
		feedback := api.Group("/feedback", jwtMiddleware)
		deps.FeedbackHandler.Register(feedback)
	}

	if deps.NoteHandler != nil {
		notes := api.Group("/notes", jwtMiddleware)
		deps.NoteHandler.Register(notes)
	}

	if deps.DashboardHandler != nil {
		dashboard := api.Group("/dashboard", jwtMiddleware)
		deps.DashboardHandler.Register(dashboard)
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(models.RoleAdmin))
		deps.AdminHandler.Register(admin)
	}
}
