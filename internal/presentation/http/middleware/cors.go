package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/imranmdl/tile-granite-management-sub002/internal/config"
)

var (
	defaultCORSOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	defaultCORSMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	defaultCORSHeaders = []string{"Accept", "Authorization", "Content-Type", "Origin", "X-Request-ID"}

	// Browsers need these exposed to read export filenames and limiter state.
	exposedHeaders = []string{
		"Content-Disposition",
		"Content-Length",
		"X-Request-ID",
		"X-RateLimit-Limit",
		"X-RateLimit-Remaining",
		"Retry-After",
	}
)

// CORSMiddleware creates a CORS middleware. Empty lists fall back to the
// defaults above and Idempotency-Key is always allowed.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     orDefault(cfg.AllowedOrigins, defaultCORSOrigins),
		AllowMethods:     orDefault(cfg.AllowedMethods, defaultCORSMethods),
		AllowHeaders:     withHeader(orDefault(cfg.AllowedHeaders, defaultCORSHeaders), IdempotencyKeyHeader),
		ExposeHeaders:    exposedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

func withHeader(headers []string, name string) []string {
	for _, h := range headers {
		if http.CanonicalHeaderKey(h) == name {
			return headers
		}
	}
	out := make([]string, 0, len(headers)+1)
	out = append(out, headers...)
	return append(out, name)
}
