package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gestor/backend/internal/infrastructure/logger"
	"github.com/gestor/backend/internal/infrastructure/persistence"
	"github.com/gestor/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const readinessTimeout = 2 * time.Second

// DatabaseChecker is the part of persistence.Database used by readiness checks
type DatabaseChecker interface {
	Ping(ctx context.Context) error
	Stats() (persistence.ConnectionStats, error)
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	BaseHandler
	db    DatabaseChecker
	redis *redis.Client
	now   func() time.Time
}

// NewHealthHandler creates a new HealthHandler. redisClient may be nil.
func NewHealthHandler(db DatabaseChecker, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redisClient,
		now:   time.Now,
	}
}

// HealthResponse is the body of the probe endpoints
type HealthResponse struct {
	Status   string                       `json:"status" example:"healthy"`
	Time     string                       `json:"time" example:"2026-01-15T10:00:00Z"`
	Checks   map[string]string            `json:"checks,omitempty"`
	Database *persistence.ConnectionStats `json:"database,omitempty"`
}

// Health godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200 {object} dto.Response{data=HealthResponse}
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	h.Success(c, HealthResponse{
		Status: "healthy",
		Time:   h.now().UTC().Format(time.RFC3339),
	})
}

// Ready godoc
// @Summary      Readiness probe
// @Description  Pings the database and, when configured, redis
// @Tags         health
// @Produce      json
// @Success      200 {object} dto.Response{data=HealthResponse}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	log := logger.L(c.Request.Context())
	checks := map[string]string{}

	if err := h.db.Ping(ctx); err != nil {
		log.Warn("Readiness check failed", zap.String("dependency", "database"), zap.Error(err))
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeUnavailable, "Database is unavailable")
		return
	}
	checks["database"] = "ok"

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			log.Warn("Readiness check failed", zap.String("dependency", "redis"), zap.Error(err))
			h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeUnavailable, "Redis is unavailable")
			return
		}
		checks["redis"] = "ok"
	}

	resp := HealthResponse{
		Status: "ready",
		Time:   h.now().UTC().Format(time.RFC3339),
		Checks: checks,
	}
	if stats, err := h.db.Stats(); err == nil {
		resp.Database = &stats
	}
	h.Success(c, resp)
}
