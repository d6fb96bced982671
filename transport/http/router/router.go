package router

import (
	"salon/internal/handlers/admin"
	"salon/internal/handlers/auth"
	"salon/internal/handlers/booking"
	"salon/internal/handlers/catalog"
	"salon/internal/handlers/home"
	"salon/internal/handlers/staff"
	"salon/internal/handlers/stream"
	"salon/internal/handlers/user"
	"salon/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth    auth.Handler
	Catalog catalog.Handler
	Staff   staff.Handler
	Booking booking.Handler
	Home    home.Handler
	Stream  stream.Handler
	Admin   admin.Handler
	User    user.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	Middleware     middleware.AuthRole
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.Middleware.APIKey, r.Middleware.Auth, r.Middleware.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Catalog.Router(routerGroup)
		r.DomainHandlers.Staff.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Home.Router(routerGroup)
		r.DomainHandlers.Stream.Router(routerGroup)

		routerGroup.Route("/admin", func(adminGroup chi.Router) {
			r.DomainHandlers.Admin.Router(adminGroup)
			r.DomainHandlers.User.Router(adminGroup)
		})
	})
}

// Drain blocks until writes accepted before shutdown have finished.
func (r *Router) Drain() {
	r.DomainHandlers.Admin.Wait()
}

func New(domainHandlers DomainHandlers, middleware middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Middleware:     middleware,
	}
}
