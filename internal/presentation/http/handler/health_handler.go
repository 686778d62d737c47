package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing dependency is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves liveness and readiness
type HealthHandler struct {
	service string
	db      Pinger
}

// NewHealthHandler creates a new health handler. db may be nil.
func NewHealthHandler(service string, db Pinger) *HealthHandler {
	return &HealthHandler{service: service, db: db}
}

// Health handles the health check
func (h *HealthHandler) Health(c *gin.Context) {
	body := gin.H{"status": "ok", "service": h.service}
	if h.db == nil {
		c.JSON(http.StatusOK, body)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		body["status"] = "degraded"
		body["database"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	body["database"] = "ok"
	c.JSON(http.StatusOK, body)
}
