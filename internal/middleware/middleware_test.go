package middleware

import (
    "context"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/talent-hub/internal/config"
    "github.com/iliyamo/talent-hub/internal/logger"
    "github.com/iliyamo/talent-hub/internal/utils"
)

const secret = "test-secret"

func bearer(t *testing.T, id uint64, role string) string {
    t.Helper()
    tok, err := utils.NewAccessToken(secret, id, role, 5)
    require.NoError(t, err)
    return "Bearer " + tok.Token
}

func serve(e *echo.Echo, method, path, auth string) *httptest.ResponseRecorder {
    req := httptest.NewRequest(method, path, nil)
    if auth != "" {
        req.Header.Set(echo.HeaderAuthorization, auth)
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func whoami(c echo.Context) error {
    id, _ := UserID(c)
    return c.JSON(http.StatusOK, echo.Map{"id": id, "role": Role(c)})
}

func TestJWTAuth(t *testing.T) {
    e := echo.New()
    e.GET("/me", whoami, JWTAuth(secret))

    rec := serve(e, http.MethodGet, "/me", bearer(t, 42, "coach"))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `{"id":42,"role":"coach"}`, rec.Body.String())

    assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/me", "").Code)
    assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/me", "Bearer garbage").Code)

    other, err := utils.NewAccessToken("other-secret", 42, "coach", 5)
    require.NoError(t, err)
    assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/me", "Bearer "+other.Token).Code)
}

func TestRequireRole(t *testing.T) {
    e := echo.New()
    e.GET("/fed", whoami, JWTAuth(secret), RequireRole("federation"))

    assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/fed", bearer(t, 1, "federation")).Code)
    assert.Equal(t, http.StatusForbidden, serve(e, http.MethodGet, "/fed", bearer(t, 2, "athlete")).Code)
}

func TestRequireSelf(t *testing.T) {
    e := echo.New()
    e.POST("/athlete/:id", whoami, JWTAuth(secret), RequireSelf("id", "federation"))

    assert.Equal(t, http.StatusOK, serve(e, http.MethodPost, "/athlete/5", bearer(t, 5, "athlete")).Code)
    assert.Equal(t, http.StatusForbidden, serve(e, http.MethodPost, "/athlete/6", bearer(t, 5, "athlete")).Code)
    assert.Equal(t, http.StatusForbidden, serve(e, http.MethodPost, "/athlete/6", bearer(t, 5, "coach")).Code)
    assert.Equal(t, http.StatusOK, serve(e, http.MethodPost, "/athlete/6", bearer(t, 1, "federation")).Code)
    assert.Equal(t, http.StatusBadRequest, serve(e, http.MethodPost, "/athlete/abc", bearer(t, 5, "athlete")).Code)
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
    t.Helper()
    mr := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    t.Cleanup(func() { _ = rdb.Close() })
    return mr, rdb
}

func TestRateLimitBlocksAfterCapacity(t *testing.T) {
    _, rdb := newRedis(t)
    cfg := config.RateLimitConfig{
        Enabled:        true,
        Capacity:       2,
        RefillTokens:   1,
        RefillInterval: time.Minute,
        TTL:            10 * time.Minute,
        KeyStrategy:    "ip_route",
        Prefix:         "rl",
    }
    e := echo.New()
    e.POST("/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RateLimit(cfg, rdb, logger.Discard()))

    first := serve(e, http.MethodPost, "/login", "")
    assert.Equal(t, http.StatusOK, first.Code)
    assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
    assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
    assert.Equal(t, http.StatusOK, serve(e, http.MethodPost, "/login", "").Code)

    blocked := serve(e, http.MethodPost, "/login", "")
    assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
    assert.NotEmpty(t, blocked.Header().Get("Retry-After"))
    assert.Contains(t, blocked.Body.String(), "rate limit exceeded")
}

func TestRateLimitWithoutRedis(t *testing.T) {
    e := echo.New()
    cfg := config.RateLimitConfig{Enabled: true, Capacity: 1}
    e.POST("/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RateLimit(cfg, nil, logger.Discard()))
    for i := 0; i < 3; i++ {
        assert.Equal(t, http.StatusOK, serve(e, http.MethodPost, "/login", "").Code)
    }
}

func TestRateKeyStrategies(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
    req.RemoteAddr = "10.0.0.1:1234"
    c := e.NewContext(req, httptest.NewRecorder())
    c.SetPath("/api/auth/login")

    assert.Equal(t, "rl:ip:10.0.0.1", rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c))
    assert.Equal(t, "rl:user:anon", rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}, c))
    c.Set(ctxUserID, uint64(9))
    assert.Equal(t, "rl:user:9:route:POST /api/auth/login", rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user_route"}, c))
}

func TestResponseCacheHitAndPurge(t *testing.T) {
    mr, rdb := newRedis(t)
    cfg := config.CacheConfig{
        Enabled:      true,
        Methods:      map[string]bool{http.MethodGet: true},
        TTL:          time.Minute,
        KeyStrategy:  "route_query",
        Prefix:       "cache",
        MaxBodyBytes: 1 << 10,
    }
    rc := NewResponseCache(cfg, rdb, logger.Discard())

    calls := 0
    e := echo.New()
    e.GET("/events", func(c echo.Context) error {
        calls++
        return c.JSON(http.StatusOK, echo.Map{"calls": calls})
    }, rc.Middleware())

    miss := serve(e, http.MethodGet, "/events", "")
    assert.Equal(t, "MISS", miss.Header().Get("X-Cache"))
    hit := serve(e, http.MethodGet, "/events", "")
    assert.Equal(t, "HIT", hit.Header().Get("X-Cache"))
    assert.Equal(t, strings.TrimSpace(miss.Body.String()), strings.TrimSpace(hit.Body.String()))
    assert.Equal(t, 1, calls)
    assert.Len(t, mr.Keys(), 1)

    rc.Purge(context.Background())
    assert.Empty(t, mr.Keys())
    assert.Equal(t, "MISS", serve(e, http.MethodGet, "/events", "").Header().Get("X-Cache"))
    assert.Equal(t, 2, calls)
}

func TestResponseCacheSkipsErrors(t *testing.T) {
    mr, rdb := newRedis(t)
    cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{http.MethodGet: true}, Prefix: "cache"}
    rc := NewResponseCache(cfg, rdb, logger.Discard())

    e := echo.New()
    e.GET("/events/:id", func(c echo.Context) error {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
    }, rc.Middleware())

    assert.Equal(t, http.StatusNotFound, serve(e, http.MethodGet, "/events/9", "").Code)
    assert.Empty(t, mr.Keys())
}

func TestMetricsEndpoint(t *testing.T) {
    e := echo.New()
    e.Use(Metrics())
    e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
    e.GET("/metrics", MetricsHandler())

    serve(e, http.MethodGet, "/ping", "")
    rec := serve(e, http.MethodGet, "/metrics", "")
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), `talenthub_http_requests_total{method="GET",route="/ping",status="200"}`)
}
