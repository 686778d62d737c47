package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/repository"
	"github.com/imranmdl/tile-granite-management-sub002/internal/presentation/http/dto/response"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/apperror"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	Now  func() time.Time
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when an authenticated caller
// repeats a mutating request with the same Idempotency-Key. Only 2xx
// responses are stored. A live key sent to another method or path is
// rejected with 422.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	now := config.Now
	if now == nil {
		now = time.Now
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}

		actorValue, exists := c.Get(ContextUserID)
		if !exists {
			c.Next()
			return
		}
		actorID, ok := actorValue.(int64)
		if !ok {
			c.Next()
			return
		}

		existing, err := config.Repo.GetByKey(c.Request.Context(), idempotencyKey, actorID)
		if err != nil {
			log.Warn().Err(err).Str("key", idempotencyKey).Msg("idempotency lookup failed")
			c.Next()
			return
		}

		endpoint := c.Request.Method + " " + c.Request.URL.Path
		if existing != nil && !existing.IsExpired(now()) {
			if existing.Endpoint != endpoint {
				response.Error(c, apperror.ErrIdempotencyKeyReused)
				c.Abort()
				return
			}
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		if status := c.Writer.Status(); status < 200 || status >= 300 {
			return
		}

		ikey := &entity.IdempotencyKey{
			Key:          idempotencyKey,
			ActorID:      actorID,
			Endpoint:     endpoint,
			ResponseCode: c.Writer.Status(),
			ResponseBody: blw.body.String(),
			ExpiresAt:    now().Add(IdempotencyKeyTTL),
		}
		if err := config.Repo.Create(c.Request.Context(), ikey); err != nil {
			log.Warn().Err(err).Str("key", idempotencyKey).Msg("failed to store idempotency key")
		}
	}
}

// SweepIdempotencyKeys deletes expired keys every interval until ctx ends
func SweepIdempotencyKeys(ctx context.Context, repo repository.IdempotencyRepository, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			n, err := repo.DeleteExpired(ctx, t)
			if err != nil {
				log.Warn().Err(err).Msg("idempotency sweep failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("deleted", n).Msg("expired idempotency keys removed")
			}
		}
	}
}
