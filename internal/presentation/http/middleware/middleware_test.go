package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoicing-api/internal/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerMiddlewareSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(LoggerMiddleware(zap.New(core)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))

	entries := logs.FilterMessage("request completed").All()
	assert.Len(t, entries, 2)
	assert.Equal(t, "req-123", entries[1].ContextMap()["request_id"])
}

func TestCORSMiddlewareWildcard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware(&config.CORSConfig{AllowedOrigins: []string{"*"}}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://billing.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddlewareDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware(&config.CORSConfig{AllowedHeaders: []string{"Content-Type"}}))
	r.POST("/invoices/pay", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/invoices/pay", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", IdempotencyKeyHeader)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), IdempotencyKeyHeader)

	req = httptest.NewRequest(http.MethodPost, "/invoices/pay", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), IdempotencyReplayedHeader)
}

func TestRateLimiterCleanupDropsStaleClients(t *testing.T) {
	rl := NewClientRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 1, EntryTTL: time.Minute})
	defer rl.Stop()

	rl.getLimiter("10.0.0.1")
	rl.getLimiter("10.0.0.2")
	assert.Equal(t, 2, rl.ActiveClients())

	rl.cleanup(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, rl.ActiveClients())
}

func TestRateLimiterConfigFromWindow(t *testing.T) {
	cfg := RateLimiterConfigFromWindow(120, 60)
	assert.Equal(t, 2.0, cfg.RequestsPerSecond)
	assert.Equal(t, 120, cfg.BurstSize)

	assert.Equal(t, DefaultRateLimiterConfig(), RateLimiterConfigFromWindow(0, 60))
}
