package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/binary"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/mamutes/party-service/internal/config"
)

// captureWriter copies the response body (up to limit bytes) while
// forwarding it to the client.
type captureWriter struct {
    http.ResponseWriter
    status    int
    buf       bytes.Buffer
    limit     int64
    truncated bool
}

func (cw *captureWriter) WriteHeader(code int) {
    cw.status = code
    cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
    if cw.limit > 0 && int64(cw.buf.Len()+len(b)) > cw.limit {
        cw.truncated = true
    } else {
        cw.buf.Write(b)
    }
    return cw.ResponseWriter.Write(b)
}

// resourceRoot is the first segment of the route template, e.g. "parties"
// for both /parties and /parties/:id.
func resourceRoot(c echo.Context) string {
    root, _, _ := strings.Cut(strings.TrimPrefix(c.Path(), "/"), "/")
    return root
}

func versionKey(cfg config.CacheConfig, root string) string {
    return cfg.Prefix + ":ver:" + root
}

// cacheKey combines the resource version with a digest of the request as
// selected by the key strategy. Bumping the version orphans every entry of
// that resource at once; orphans expire with their TTL.
func cacheKey(cfg config.CacheConfig, c echo.Context, root string, version int64) string {
    r := c.Request()
    var parts []string
    switch strings.ToLower(cfg.KeyStrategy) {
    case "route":
        parts = []string{"route", c.Path()}
    case "method_route":
        parts = []string{"method", r.Method, "route", c.Path()}
    case "method_route_query":
        parts = []string{"method", r.Method, "route", c.Path(), "q", r.URL.RawQuery}
    default: // "route_query"
        parts = []string{"route", c.Path(), "q", r.URL.RawQuery}
    }
    // Path params are part of the request identity even when the template is not.
    parts = append(parts, "p", strings.Join(c.ParamValues(), "/"))
    sum := sha1.Sum([]byte(strings.Join(parts, ":")))
    return fmt.Sprintf("%s:%s:v%d:%x", cfg.Prefix, root, version, sum[:])
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
    hdrJSON, err := json.Marshal(header)
    if err != nil {
        return nil, err
    }
    out := make([]byte, 8, 8+len(hdrJSON)+len(body))
    binary.BigEndian.PutUint32(out[0:4], uint32(status))
    binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
    out = append(out, hdrJSON...)
    return append(out, body...), nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
    if len(bs) < 8 {
        return 0, nil, nil, false
    }
    status = int(binary.BigEndian.Uint32(bs[0:4]))
    hlen := int(binary.BigEndian.Uint32(bs[4:8]))
    if hlen < 0 || 8+hlen > len(bs) {
        return 0, nil, nil, false
    }
    header = http.Header{}
    if hlen > 0 {
        if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
            return 0, nil, nil, false
        }
    }
    return status, header, bs[8+hlen:], true
}

// bumpVersion orphans the cached reads of root after a successful write.
func bumpVersion(c echo.Context, cfg config.CacheConfig, rdb *redis.Client, log *zap.Logger, root string) {
    if s := c.Response().Status; s < 200 || s >= 300 {
        return
    }
    ctx := context.WithoutCancel(c.Request().Context())
    if err := rdb.Incr(ctx, versionKey(cfg, root)).Err(); err != nil {
        log.Warn("cache invalidation failed", zap.String("resource", root), zap.Error(err))
    }
}

// NewCacheInvalidator is for routes outside a resource root that still
// write to it, such as /auth/register creating users.
func NewCacheInvalidator(cfg config.CacheConfig, rdb *redis.Client, log *zap.Logger, root string) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return passThrough
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if err := next(c); err != nil {
                return err
            }
            bumpVersion(c, cfg, rdb, log, root)
            return nil
        }
    }
}

// NewRedisCache serves repeated reads of a resource from Redis and drops
// them as soon as any write to the same resource succeeds. Requests whose
// method is not in cfg.Methods are treated as writes.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, log *zap.Logger) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return passThrough
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 30 * time.Second
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            root := resourceRoot(c)
            if root == "" {
                return next(c)
            }
            ctx := c.Request().Context()

            if !cfg.Methods[c.Request().Method] {
                if err := next(c); err != nil {
                    return err
                }
                bumpVersion(c, cfg, rdb, log, root)
                return nil
            }

            version, err := rdb.Get(ctx, versionKey(cfg, root)).Int64()
            if err != nil && err != redis.Nil {
                log.Warn("cache version lookup failed", zap.String("resource", root), zap.Error(err))
                return next(c)
            }
            key := cacheKey(cfg, c, root, version)

            if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
                if status, hdr, body, ok := decodePayload(bs); ok {
                    for k, vals := range hdr {
                        if strings.EqualFold(k, echo.HeaderContentLength) {
                            continue
                        }
                        for _, v := range vals {
                            c.Response().Header().Add(k, v)
                        }
                    }
                    c.Response().Header().Set("X-Cache", "HIT")
                    return c.Blob(status, hdr.Get(echo.HeaderContentType), body)
                }
            }

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(cfg.MaxBodyBytes)}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")
            if err := next(c); err != nil {
                return err
            }
            if cw.status != http.StatusOK || cw.truncated {
                return nil
            }
            hdr := c.Response().Header().Clone()
            hdr.Del("X-Cache")
            hdr.Del(echo.HeaderXRequestID)
            payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes())
            if err == nil {
                err = rdb.Set(context.WithoutCancel(ctx), key, payload, ttl).Err()
            }
            if err != nil {
                log.Warn("cache store failed", zap.String("key", key), zap.Error(err))
            }
            return nil
        }
    }
}
