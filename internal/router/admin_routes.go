package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/talent-hub/internal/handler"
	"github.com/iliyamo/talent-hub/internal/middleware"
	"github.com/iliyamo/talent-hub/internal/model"
)

// RegisterAdmin registers federation administration, the caller's own
// notifications and uploads on the authenticated /api group.
func RegisterAdmin(g *echo.Group, a *handler.AdminHandler, n *handler.NotificationHandler, u *handler.UploadHandler) {
	admin := g.Group("/admin", middleware.RequireRole(model.RoleFederation))
	admin.GET("/athletes", a.ListAthletes)
	admin.GET("/coaches", a.ListCoaches)
	admin.PUT("/athlete/:id/status", a.SetAthleteStatus)
	admin.PUT("/coach/:id/status", a.SetCoachStatus)
	admin.GET("/note/:subjectId", a.Note)
	admin.PUT("/note/:subjectId", a.PutNote)

	// Ownership of a single notification is checked in the query.
	g.GET("/notifications/:userId", n.List, middleware.RequireSelf("userId"))
	g.PUT("/notifications/:id/read", n.MarkRead)
	g.DELETE("/notifications/:id", n.Delete)

	g.POST("/upload", u.Upload)
}
