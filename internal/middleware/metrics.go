package middleware

import (
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
    "github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
    httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
        Name: "talenthub_http_requests_total",
        Help: "HTTP requests by method, route and status.",
    }, []string{"method", "route", "status"})

    httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
        Name:    "talenthub_http_request_duration_seconds",
        Help:    "HTTP request latency by method and route.",
        Buckets: prometheus.DefBuckets,
    }, []string{"method", "route"})
)

// Metrics records a counter and a latency histogram per request.  Routes
// are labelled by their pattern (c.Path()) so IDs do not explode the label
// space; unmatched paths share the "unmatched" label.
func Metrics() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            if err != nil {
                c.Error(err)
            }

            route := c.Path()
            if route == "" {
                route = "unmatched"
            }
            method := c.Request().Method
            status := strconv.Itoa(c.Response().Status)
            httpRequests.WithLabelValues(method, route, status).Inc()
            httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
            return nil
        }
    }
}

// MetricsHandler exposes the default Prometheus registry.
func MetricsHandler() echo.HandlerFunc {
    return echo.WrapHandler(promhttp.Handler())
}
