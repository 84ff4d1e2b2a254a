package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/talent-hub/internal/handler"
	"github.com/iliyamo/talent-hub/internal/middleware"
	"github.com/iliyamo/talent-hub/internal/model"
)

// RegisterAthlete registers athlete profile routes on the authenticated
// /api group.  Reads are open to every role; writes are limited to the
// athlete (and the federation for the profile itself).
func RegisterAthlete(g *echo.Group, h *handler.AthleteHandler) {
	self := middleware.RequireSelf("id")

	g.GET("/athlete/:id", h.Get)
	g.POST("/athlete/:id", h.Save,
		middleware.RequireRole(model.RoleAthlete, model.RoleFederation),
		middleware.RequireSelf("id", model.RoleFederation))
	g.GET("/athlete/:id/squads", h.MySquads, middleware.RequireSelf("id", model.RoleCoach, model.RoleFederation))

	// ---- Achievements ----
	g.POST("/athlete/:id/achievement", h.AddAchievement, self)
	g.DELETE("/athlete/:id/achievement/:achId", h.DeleteAchievement, self)
	g.POST("/athlete/:id/achievement/:achId/verify", h.VerifyAchievement,
		middleware.RequireRole(model.RoleCoach, model.RoleFederation))

	// ---- Performance ----
	g.GET("/athlete/:id/performance", h.ListPerformances)
	g.POST("/athlete/:id/performance", h.AddPerformance, self)

	g.GET("/athletes", h.Search, middleware.RequireRole(model.RoleCoach, model.RoleFederation))
}
