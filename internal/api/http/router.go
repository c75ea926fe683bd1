package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quickseat/portal/internal/api/http/handlers"
	"github.com/quickseat/portal/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Catalog        *handlers.CatalogHandler
	Bookings       *handlers.BookingsHandler
	Tickets        *handlers.TicketsHandler
	AdminTickets   *handlers.AdminTicketsHandler
	Dashboard      *handlers.DashboardHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Users.ChangePassword)

	// public catalog
	app.Get("/events", cfg.Catalog.ListEvents)
	app.Get("/events/:id", cfg.Catalog.GetEvent)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	protected.Post("/bookings", cfg.Bookings.CreateBooking)
	protected.Get("/bookings", cfg.Bookings.ListBookings)
	protected.Get("/bookings/:id", cfg.Bookings.GetBooking)
	protected.Post("/bookings/:id/cancel", cfg.Bookings.CancelBooking)

	protected.Post("/tickets", cfg.Tickets.CreateTicket)
	protected.Get("/tickets", cfg.Tickets.ListTickets)
	protected.Get("/tickets/:id", cfg.Tickets.GetTicket)
	protected.Post("/tickets/:id/responses", cfg.Tickets.AddResponse)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())

	admin.Get("/venues", cfg.Catalog.ListVenues)
	admin.Post("/venues", cfg.Catalog.CreateVenue)
	admin.Put("/venues/:id", cfg.Catalog.UpdateVenue)

	admin.Get("/events", cfg.Catalog.AdminListEvents)
	admin.Post("/events", cfg.Catalog.CreateEvent)
	admin.Put("/events/:id", cfg.Catalog.UpdateEvent)

	admin.Get("/bookings", cfg.Bookings.AdminListBookings)
	admin.Post("/bookings/:id/confirm", cfg.Bookings.ConfirmBooking)
	admin.Post("/bookings/:id/cancel", cfg.Bookings.CancelBooking)

	admin.Get("/tickets", cfg.AdminTickets.ListTickets)
	admin.Get("/tickets/:id", cfg.AdminTickets.GetTicket)
	admin.Post("/tickets/:id/responses", cfg.AdminTickets.AddResponse)
	admin.Patch("/tickets/:id/status", cfg.AdminTickets.ChangeStatus)

	admin.Get("/dashboard", cfg.Dashboard.Summary)
	admin.Get("/metrics", cfg.Metrics.Snapshot)
}
