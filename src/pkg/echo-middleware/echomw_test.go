package echomw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedEcho(limiter *IPRateLimiter) *echo.Echo {
	e := echo.New()
	e.Use(RouteAccessLogger)
	e.Use(limiter.Middleware)
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return e
}

func request(e *echo.Echo, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimiterMiddlewareRejectsOverBurst(t *testing.T) {
	limiter := NewIPRateLimiter(Config{RequestsPerSecond: 1, Burst: 2, IdleMinutes: 1})
	e := newLimitedEcho(limiter)

	assert.Equal(t, http.StatusOK, request(e, "10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, request(e, "10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, request(e, "10.0.0.1:1002"))

	// Another client has its own bucket.
	assert.Equal(t, http.StatusOK, request(e, "10.0.0.2:1000"))
	assert.Equal(t, 2, limiter.Len())
}

func TestSweepDropsIdleClients(t *testing.T) {
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewIPRateLimiter(Config{RequestsPerSecond: 5, Burst: 5, IdleMinutes: 1})
	limiter.nowFunc = func() time.Time { return now }

	require.True(t, limiter.Allow("10.0.0.1"))
	now = now.Add(30 * time.Second)
	require.True(t, limiter.Allow("10.0.0.2"))

	now = now.Add(45 * time.Second)
	assert.Equal(t, 1, limiter.Sweep())
	assert.Equal(t, 1, limiter.Len())
}

func TestRouteAccessLoggerPassesHandlerErrors(t *testing.T) {
	e := echo.New()
	e.Use(RouteAccessLogger)
	e.GET("/charts/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "no such chart")
	})

	req := httptest.NewRequest(http.MethodGet, "/charts/missing", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDefaultValueConfig(t *testing.T) {
	t.Cleanup(func() { Cfg = DefaultValueConfig() })
	InitializeConfig(&Config{Burst: 10})
	assert.Equal(t, 10, Cfg.Burst)
	assert.Equal(t, 3, Cfg.RequestsPerSecond)
	assert.Equal(t, 1, Cfg.IdleMinutes)
}
