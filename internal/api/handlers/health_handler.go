package handlers

import (
	"net/http"

	"activity-registration/internal/infrastructure/database"
	interfaces "activity-registration/internal/interfaces/infrastructure"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler reports liveness of the service and its dependencies
type HealthHandler struct {
	db    *gorm.DB
	cache interfaces.CacheService
}

func NewHealthHandler(db *gorm.DB, cache interfaces.CacheService) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	checks := gin.H{"database": "ok", "cache": "ok"}
	healthy := true

	if err := database.HealthCheck(h.db); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}
	if err := h.cache.Health(c.Request.Context()); err != nil {
		checks["cache"] = err.Error()
		healthy = false
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, APIResponse{
		Success: healthy,
		Data:    checks,
	})
}

// Readiness handles GET /ready. Ready means the database answers; the cache
// is best-effort and does not gate readiness.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := database.HealthCheck(h.db); err != nil {
		c.JSON(http.StatusServiceUnavailable, APIResponse{
			Success: false,
			Message: "database not ready",
			Errors:  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Message: "ready"})
}

// Liveness handles GET /live
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Message: "alive"})
}
