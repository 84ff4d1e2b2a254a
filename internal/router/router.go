package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/talent-hub/internal/handler"    // handlers that implement the endpoints
	"github.com/iliyamo/talent-hub/internal/middleware" // JWT, role, ownership, rate limit and cache middleware
)

// Handlers collects every handler the router mounts.
type Handlers struct {
	Health       *handler.Health
	Auth         *handler.AuthHandler
	Athlete      *handler.AthleteHandler
	Coach        *handler.CoachHandler
	Event        *handler.EventHandler
	Notification *handler.NotificationHandler
	Admin        *handler.AdminHandler
	Upload       *handler.UploadHandler
}

// Options carries the middleware that is built once in main and shared by
// several route groups.
type Options struct {
	JWTSecret string
	RateLimit echo.MiddlewareFunc // applied to register and login
	Cache     *middleware.ResponseCache
	UploadDir string
	StaticDir string
}

// Register mounts the whole API on e.
func Register(e *echo.Echo, h Handlers, o Options) {
	RegisterRoutes(e, h.Health, o)
	RegisterAuth(e, h.Auth, o)

	// Every /api route below the auth group needs a valid access token.
	api := e.Group("/api", middleware.JWTAuth(o.JWTSecret))
	RegisterAthlete(api, h.Athlete)
	RegisterCoach(api, h.Coach)
	RegisterEvents(e, api, h.Event, o.Cache)
	RegisterAdmin(api, h.Admin, h.Notification, h.Upload)
}

// RegisterRoutes registers routes that do not require authentication: the
// health check, Prometheus metrics and static files.
func RegisterRoutes(e *echo.Echo, health *handler.Health, o Options) {
	e.GET("/healthz", health.Check)
	e.GET("/metrics", middleware.MetricsHandler())
	if o.UploadDir != "" {
		e.Static("/uploads", o.UploadDir) // files written by the upload handler
	}
	if o.StaticDir != "" {
		e.Static("/", o.StaticDir)
	}
}

// RegisterAuth registers the authentication routes.  Register and login are
// rate limited; refresh and logout authenticate with the refresh token in
// the body.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, o Options) {
	g := e.Group("/api/auth")
	limit := o.RateLimit
	if limit == nil {
		limit = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	g.POST("/register", a.Register, limit)
	g.POST("/login", a.Login, limit)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.GET("/me", a.Me, middleware.JWTAuth(o.JWTSecret))
}
