package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/hex"
    "encoding/json"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/talent-hub/internal/config"
)

// cachedResponse is what ResponseCache stores per key.
type cachedResponse struct {
    Status      int    `json:"status"`
    ContentType string `json:"content_type"`
    Body        []byte `json:"body"`
}

// bodyRecorder tees the response body into buf up to limit bytes.
type bodyRecorder struct {
    http.ResponseWriter
    status   int
    buf      bytes.Buffer
    limit    int
    overflow bool
}

func (w *bodyRecorder) WriteHeader(code int) {
    w.status = code
    w.ResponseWriter.WriteHeader(code)
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
    if w.limit > 0 && w.buf.Len()+len(b) > w.limit {
        w.overflow = true
    } else {
        w.buf.Write(b)
    }
    return w.ResponseWriter.Write(b)
}

// ResponseCache serves repeated reads of public listings from Redis.  Only
// 200 responses no larger than MaxBodyBytes are stored.  Hits carry
// "X-Cache: HIT", misses "X-Cache: MISS".
type ResponseCache struct {
    cfg config.CacheConfig
    rdb *redis.Client
    log logrus.FieldLogger
}

func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client, log logrus.FieldLogger) *ResponseCache {
    if cfg.TTL <= 0 {
        cfg.TTL = 30 * time.Second
    }
    return &ResponseCache{cfg: cfg, rdb: rdb, log: log}
}

func (rc *ResponseCache) enabled() bool { return rc != nil && rc.cfg.Enabled && rc.rdb != nil }

// Middleware returns the caching middleware; a pass-through when disabled.
func (rc *ResponseCache) Middleware() echo.MiddlewareFunc {
    if !rc.enabled() {
        return passThrough
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !rc.cfg.Methods[c.Request().Method] {
                return next(c)
            }
            ctx := c.Request().Context()
            key := rc.key(c)

            if raw, err := rc.rdb.Get(ctx, key).Bytes(); err == nil {
                var hit cachedResponse
                if json.Unmarshal(raw, &hit) == nil {
                    c.Response().Header().Set("X-Cache", "HIT")
                    return c.Blob(hit.Status, hit.ContentType, hit.Body)
                }
            } else if !errors.Is(err, redis.Nil) {
                rc.log.WithError(err).Warn("cache: get failed")
            }

            rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: rc.cfg.MaxBodyBytes}
            c.Response().Writer = rec
            c.Response().Header().Set("X-Cache", "MISS")
            if err := next(c); err != nil {
                return err
            }
            if rec.status != http.StatusOK || rec.overflow {
                return nil
            }
            payload, err := json.Marshal(cachedResponse{
                Status:      rec.status,
                ContentType: c.Response().Header().Get(echo.HeaderContentType),
                Body:        rec.buf.Bytes(),
            })
            if err == nil {
                // the request context may already be cancelled once the body is flushed
                if err := rc.rdb.Set(context.Background(), key, payload, rc.cfg.TTL).Err(); err != nil {
                    rc.log.WithError(err).Warn("cache: set failed")
                }
            }
            return nil
        }
    }
}

// Purge drops every cached response under the configured prefix.  Called
// after event mutations.
func (rc *ResponseCache) Purge(ctx context.Context) {
    if !rc.enabled() {
        return
    }
    iter := rc.rdb.Scan(ctx, 0, rc.cfg.Prefix+":*", 100).Iterator()
    var keys []string
    for iter.Next(ctx) {
        keys = append(keys, iter.Val())
    }
    if err := iter.Err(); err != nil {
        rc.log.WithError(err).Warn("cache: purge scan failed")
        return
    }
    if len(keys) > 0 {
        if err := rc.rdb.Del(ctx, keys...).Err(); err != nil {
            rc.log.WithError(err).Warn("cache: purge delete failed")
        }
    }
}

// key hashes the parts selected by KeyStrategy under the prefix.
func (rc *ResponseCache) key(c echo.Context) string {
    r := c.Request()
    var parts []string
    switch strings.ToLower(rc.cfg.KeyStrategy) {
    case "route":
        parts = []string{c.Path()}
    case "method_route":
        parts = []string{r.Method, c.Path()}
    case "method_route_query":
        parts = []string{r.Method, c.Path(), r.URL.RawQuery}
    default:
        parts = []string{c.Path(), r.URL.RawQuery}
    }
    // the concrete path keeps /events/1 and /events/2 apart under the same pattern
    parts = append(parts, r.URL.Path)
    sum := sha1.Sum([]byte(strings.Join(parts, "|")))
    return rc.cfg.Prefix + ":" + hex.EncodeToString(sum[:])
}
