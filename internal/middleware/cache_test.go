package middleware

import (
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
    "go.uber.org/zap"

    "github.com/mamutes/party-service/internal/config"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
    t.Helper()
    mr := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    t.Cleanup(func() { _ = rdb.Close() })
    return mr, rdb
}

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
    return rec
}

func testCacheConfig() config.CacheConfig {
    return config.CacheConfig{
        Enabled:      true,
        Methods:      map[string]bool{http.MethodGet: true},
        TTL:          time.Minute,
        KeyStrategy:  "route_query",
        Prefix:       "cache",
        MaxBodyBytes: 1 << 10,
    }
}

// cachedServer counts how often each handler really runs.
func cachedServer(t *testing.T, cfg config.CacheConfig) (*echo.Echo, *miniredis.Miniredis, map[string]int) {
    t.Helper()
    mr, rdb := newRedis(t)
    calls := map[string]int{}
    mw := NewRedisCache(cfg, rdb, zap.NewNop())

    e := echo.New()
    e.GET("/users", func(c echo.Context) error {
        calls["list"]++
        return c.JSON(http.StatusOK, echo.Map{"n": calls["list"]})
    }, mw)
    e.GET("/users/:id", func(c echo.Context) error {
        calls["get"]++
        return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id")})
    }, mw)
    e.POST("/users", func(c echo.Context) error {
        return c.JSON(http.StatusCreated, echo.Map{})
    }, mw)
    e.DELETE("/users/:id", func(c echo.Context) error {
        return echo.NewHTTPError(http.StatusNotFound, "User not found")
    }, mw)
    e.GET("/parties", func(c echo.Context) error {
        calls["parties"]++
        return c.JSON(http.StatusOK, echo.Map{})
    }, mw)
    return e, mr, calls
}

func TestCache_HitAfterMiss(t *testing.T) {
    e, _, calls := cachedServer(t, testCacheConfig())

    first := serve(e, http.MethodGet, "/users?skip=1")
    assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
    second := serve(e, http.MethodGet, "/users?skip=1")
    assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
    assert.Equal(t, http.StatusOK, second.Code)
    assert.Equal(t, first.Body.String(), second.Body.String())
    assert.Equal(t, first.Header().Get(echo.HeaderContentType), second.Header().Get(echo.HeaderContentType))
    assert.Equal(t, 1, calls["list"])

    // A different query is a different entry.
    serve(e, http.MethodGet, "/users?skip=2")
    assert.Equal(t, 2, calls["list"])
}

func TestCache_PathParamsAreDistinctEntries(t *testing.T) {
    e, _, calls := cachedServer(t, testCacheConfig())

    a := serve(e, http.MethodGet, "/users/1")
    b := serve(e, http.MethodGet, "/users/2")
    assert.NotEqual(t, a.Body.String(), b.Body.String())
    assert.Equal(t, 2, calls["get"])
}

func TestCache_SuccessfulWriteInvalidatesResource(t *testing.T) {
    e, mr, calls := cachedServer(t, testCacheConfig())

    serve(e, http.MethodGet, "/users")
    serve(e, http.MethodGet, "/parties")
    require.Equal(t, http.StatusCreated, serve(e, http.MethodPost, "/users").Code)

    rec := serve(e, http.MethodGet, "/users")
    assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
    assert.Equal(t, 2, calls["list"])
    assert.Contains(t, rec.Body.String(), `"n":2`)

    // Other resources keep their entries.
    assert.Equal(t, "HIT", serve(e, http.MethodGet, "/parties").Header().Get("X-Cache"))

    v, err := mr.Get("cache:ver:users")
    require.NoError(t, err)
    assert.Equal(t, "1", v)
}

func TestCache_FailedWriteKeepsEntries(t *testing.T) {
    e, mr, _ := cachedServer(t, testCacheConfig())

    serve(e, http.MethodGet, "/users")
    assert.Equal(t, http.StatusNotFound, serve(e, http.MethodDelete, "/users/9").Code)

    assert.Equal(t, "HIT", serve(e, http.MethodGet, "/users").Header().Get("X-Cache"))
    assert.False(t, mr.Exists("cache:ver:users"))
}

func TestCacheInvalidator_BumpsNamedResource(t *testing.T) {
    e, mr, calls := cachedServer(t, testCacheConfig())
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    t.Cleanup(func() { _ = rdb.Close() })
    users := NewCacheInvalidator(testCacheConfig(), rdb, zap.NewNop(), "users")
    e.POST("/auth/register", func(c echo.Context) error {
        return c.JSON(http.StatusCreated, echo.Map{})
    }, users)
    e.POST("/auth/taken", func(c echo.Context) error {
        return echo.NewHTTPError(http.StatusConflict, "email already exists")
    }, users)

    serve(e, http.MethodGet, "/users")
    serve(e, http.MethodPost, "/auth/taken")
    assert.Equal(t, "HIT", serve(e, http.MethodGet, "/users").Header().Get("X-Cache"))

    serve(e, http.MethodPost, "/auth/register")
    assert.Equal(t, "MISS", serve(e, http.MethodGet, "/users").Header().Get("X-Cache"))
    assert.Equal(t, 2, calls["list"])
}

func TestCache_EntriesExpire(t *testing.T) {
    e, mr, calls := cachedServer(t, testCacheConfig())

    serve(e, http.MethodGet, "/users")
    mr.FastForward(2 * time.Minute)
    serve(e, http.MethodGet, "/users")
    assert.Equal(t, 2, calls["list"])
}

func TestCache_OversizedBodiesAreNotStored(t *testing.T) {
    cfg := testCacheConfig()
    cfg.MaxBodyBytes = 4
    e, _, calls := cachedServer(t, cfg)

    serve(e, http.MethodGet, "/users")
    serve(e, http.MethodGet, "/users")
    assert.Equal(t, 2, calls["list"])
}

func TestCache_DisabledWithoutClient(t *testing.T) {
    mw := NewRedisCache(testCacheConfig(), nil, zap.NewNop())
    e := echo.New()
    e.GET("/users", func(c echo.Context) error { return c.String(http.StatusOK, "ok") }, mw)

    rec := serve(e, http.MethodGet, "/users")
    assert.Equal(t, "ok", rec.Body.String())
    assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestPayloadCodec(t *testing.T) {
    hdr := http.Header{"Content-Type": {"application/json"}}
    bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
    require.NoError(t, err)

    status, got, body, ok := decodePayload(bs)
    require.True(t, ok)
    assert.Equal(t, http.StatusOK, status)
    assert.Equal(t, hdr, got)
    assert.Equal(t, `{"a":1}`, string(body))

    _, _, _, ok = decodePayload([]byte(strings.Repeat("x", 4)))
    assert.False(t, ok)
}
