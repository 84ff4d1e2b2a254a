package handler // declare the package name; contains HTTP handlers

import (
    "context"      // ping deadline
    "database/sql" // database handle to ping
    "net/http"     // status codes
    "time"         // ping timeout

    "github.com/labstack/echo/v4"  // echo is the web framework used for this project
    "github.com/redis/go-redis/v9" // optional redis dependency
)

// Health reports whether the service and its backing stores respond.  MySQL
// is required; Redis is optional and only reported.
type Health struct {
    DB    *sql.DB
    Redis *redis.Client
}

// Check answers 200 when MySQL answers a ping and 503 otherwise.
func (h *Health) Check(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
    defer cancel()

    body := echo.Map{"status": "ok", "db": "up", "redis": "disabled"}
    status := http.StatusOK
    if h.DB == nil || h.DB.PingContext(ctx) != nil {
        body["status"], body["db"] = "degraded", "down"
        status = http.StatusServiceUnavailable
    }
    if h.Redis != nil {
        body["redis"] = "up"
        if err := h.Redis.Ping(ctx).Err(); err != nil {
            body["redis"] = "down" // rate limiting and caching pass through
        }
    }
    return c.JSON(status, body)
}
