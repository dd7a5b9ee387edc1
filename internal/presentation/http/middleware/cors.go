package middleware

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoicing-api/internal/config"
)

var (
	defaultCORSOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	defaultCORSMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions}
	defaultCORSHeaders = []string{"Accept", "Content-Type", "Origin", RequestIDHeader, IdempotencyKeyHeader}
)

// CORSMiddleware lets browser clients call the invoice API. Clients always
// see the request id and the idempotency replay marker.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:     withDefault(cfg.AllowedOrigins, defaultCORSOrigins),
		AllowMethods:     withDefault(cfg.AllowedMethods, defaultCORSMethods),
		AllowHeaders:     withDefault(cfg.AllowedHeaders, defaultCORSHeaders),
		ExposeHeaders:    []string{RequestIDHeader, IdempotencyReplayedHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if !slices.Contains(corsConfig.AllowHeaders, IdempotencyKeyHeader) {
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, IdempotencyKeyHeader)
	}

	// a wildcard origin cannot carry credentials
	if slices.Contains(corsConfig.AllowOrigins, "*") {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}

	return cors.New(corsConfig)
}

func withDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return slices.Clone(fallback)
	}
	return slices.Clone(values)
}
