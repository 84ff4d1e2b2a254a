package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/talent-hub/internal/handler"
	"github.com/iliyamo/talent-hub/internal/middleware"
	"github.com/iliyamo/talent-hub/internal/model"
)

// RegisterEvents registers the public, cached event reads on e and the
// authenticated event routes on g.
func RegisterEvents(e *echo.Echo, g *echo.Group, h *handler.EventHandler, cache *middleware.ResponseCache) {
	// Public browse; responses are cached in Redis and purged on writes.
	e.GET("/api/events", h.List, cache.Middleware())
	e.GET("/api/events/:id", h.Get, cache.Middleware())

	fed := middleware.RequireRole(model.RoleFederation)
	g.POST("/events", h.Create, fed)
	g.PUT("/events/:id", h.Update, fed)
	g.DELETE("/events/:id", h.Delete, fed)

	g.POST("/events/:id/register", h.Register, middleware.RequireRole(model.RoleAthlete))
	g.GET("/events/:id/registrations", h.Registrations, middleware.RequireRole(model.RoleCoach, model.RoleFederation))
}
