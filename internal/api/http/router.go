package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/behnamfe76/helpdesk-service/internal/api/http/handlers"
	"github.com/behnamfe76/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Metrics        *handlers.MetricsHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Metrics)
	}

	api := app.Group("/api")
	api.Post("/auth", cfg.Auth.Login)

	protected := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	protected.Post("/refresh", cfg.Auth.Refresh)
	protected.Post("/logout", cfg.Auth.Logout)

	tickets := protected.Group("/ticket")
	tickets.Get("/summary", auth.Require(auth.OpTicketSummary), cfg.Tickets.Summary)
	tickets.Post("/", auth.Require(auth.OpTicketCreate), cfg.Tickets.CreateTicket)
	tickets.Get("/", auth.Require(auth.OpTicketList), cfg.Tickets.ListTickets)
	tickets.Get("/:id", auth.Require(auth.OpTicketRead), cfg.Tickets.GetTicket)
	tickets.Put("/:id", auth.Require(auth.OpTicketUpdate), cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", auth.Require(auth.OpTicketDelete), cfg.Tickets.DeleteTicket)
	tickets.Put("/:id/status/:status", auth.Require(auth.OpTicketTransition), cfg.Tickets.ChangeStatus)

	users := protected.Group("/user", auth.Require(auth.OpUserManage))
	users.Post("/", cfg.Users.CreateUser)
	users.Get("/", cfg.Users.ListUsers)
	users.Get("/:id", cfg.Users.GetUser)
	users.Put("/:id", cfg.Users.UpdateUser)
	users.Delete("/:id", cfg.Users.DeleteUser)
}
