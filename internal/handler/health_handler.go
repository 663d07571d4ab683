package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/salonmost/booking-api/internal/service"
)

// HealthHandler exposes liveness, readiness and Prometheus endpoints.
type HealthHandler struct {
	db      *sqlx.DB
	redis   *redis.Client
	metrics *service.MetricsService
}

// NewHealthHandler constructs a HealthHandler. redis may be nil when the
// cache is disabled.
func NewHealthHandler(db *sqlx.DB, rdb *redis.Client, metrics *service.MetricsService) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb, metrics: metrics}
}

// Health is the liveness probe.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready checks downstream dependencies. A missing cache degrades the answer
// but does not fail it: availability works uncached.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	status := http.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		checks["database"] = "down"
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = "up"
	}

	if h.redis == nil {
		checks["cache"] = "disabled"
	} else if err := h.redis.Ping(ctx).Err(); err != nil {
		checks["cache"] = "down"
	} else {
		checks["cache"] = "up"
	}

	c.JSON(status, gin.H{"status": checks, "time": time.Now().UTC().Format(time.RFC3339)})
}

// Prometheus serves the metrics registry.
func (h *HealthHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
