package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/pantrymatch/backend/internal/database"
	"github.com/pageza/pantrymatch/backend/internal/service"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthHandler reports the state of the store, redis and the corpus.
type HealthHandler struct {
	db          *gorm.DB
	redis       *redis.Client
	suggestions service.ISuggestionService
}

// NewHealthHandler creates a health handler. redisClient may be nil.
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client, suggestions service.ISuggestionService) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient, suggestions: suggestions}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	healthy := true
	checks := gin.H{}

	if err := database.HealthCheck(ctx, h.db); err != nil {
		healthy = false
		checks["database"] = err.Error()
	} else {
		checks["database"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			// Redis only backs the cache and the limiter.
			checks["redis"] = err.Error()
		} else {
			checks["redis"] = "ok"
		}
	}

	body := gin.H{"checks": checks}
	if status, err := h.suggestions.Status(ctx); err != nil {
		healthy = false
		checks["corpus"] = err.Error()
	} else {
		checks["corpus"] = "ok"
		body["corpus"] = status
	}

	if !healthy {
		body["status"] = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	body["status"] = "healthy"
	c.JSON(http.StatusOK, body)
}
