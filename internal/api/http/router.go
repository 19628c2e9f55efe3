package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Session        *handlers.SessionHandler
	Tickets        *handlers.TicketsHandler
	Categories     *handlers.CategoriesHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. The identity middleware loads the
// principal and the gate confines each role to its own area; per-record
// visibility is enforced further down by the query predicate.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Use(cfg.AuthMiddleware.Handle, auth.Gate())

	app.Get("/", landing)
	app.Get(auth.SignInPath, signIn)
	app.Get("/me", cfg.Session.Me)

	for _, area := range []string{"/user", "/agent", "/admin"} {
		group := app.Group(area)
		group.Get("/dashboard", cfg.Tickets.Dashboard)
		group.Get("/tickets", cfg.Tickets.List)
		group.Post("/tickets", cfg.Tickets.Create)
		group.Get("/tickets/:id", cfg.Tickets.Get)
		group.Patch("/tickets/:id", cfg.Tickets.Update)
		group.Delete("/tickets/:id", cfg.Tickets.Delete)
		group.Post("/tickets/:id/comments", cfg.Tickets.AddComment)
		group.Get("/categories", cfg.Categories.List)
		group.Get("/categories/:id", cfg.Categories.Get)
	}

	admin := app.Group("/admin")
	admin.Post("/categories", cfg.Categories.Create)
	admin.Patch("/categories/:id", cfg.Categories.Update)
	admin.Delete("/categories/:id", cfg.Categories.Delete)
	admin.Get("/users", cfg.Users.List)
	admin.Patch("/users/:id/role", cfg.Users.UpdateRole)
}

func landing(c *fiber.Ctx) error {
	return c.JSON(dto.Envelope{
		Success: true,
		Message: "Helpdesk",
	})
}

func signIn(c *fiber.Ctx) error {
	return c.Status(http.StatusUnauthorized).JSON(dto.Envelope{
		Success: false,
		Message: "Sign in with the identity provider to continue",
	})
}
