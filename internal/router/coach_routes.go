package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/talent-hub/internal/handler"
	"github.com/iliyamo/talent-hub/internal/middleware"
	"github.com/iliyamo/talent-hub/internal/model"
)

// RegisterCoach registers coach routes on the authenticated /api group.
// Squads, favorites and notes belong to the coach in the path, so only that
// coach may reach them.
func RegisterCoach(g *echo.Group, h *handler.CoachHandler) {
	g.GET("/coach/:id", h.Get)
	g.POST("/coach/:id", h.Save,
		middleware.RequireRole(model.RoleCoach, model.RoleFederation),
		middleware.RequireSelf("id", model.RoleFederation))

	c := g.Group("/coach/:id", middleware.RequireRole(model.RoleCoach), middleware.RequireSelf("id"))

	// ---- Squads ----
	c.GET("/squads", h.ListSquads)
	c.GET("/roster", h.Roster)
	c.POST("/squad", h.CreateSquad)
	c.PUT("/squad/:squadId", h.UpdateSquad)
	c.DELETE("/squad/:squadId", h.DeleteSquad)
	c.POST("/squad/:squadId/assign", h.Assign)
	c.DELETE("/squad/:squadId/athlete/:athleteId", h.Unassign)

	// ---- Favorites ----
	c.GET("/favorite", h.ListFavorites)
	c.POST("/favorite", h.AddFavorite)
	c.DELETE("/favorite/:athleteId", h.RemoveFavorite)

	// ---- Notes ----
	c.GET("/note/:athleteId", h.Note)
	c.PUT("/note/:athleteId", h.PutNote)
}
