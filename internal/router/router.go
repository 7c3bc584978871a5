package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pageza/pantrymatch/backend/config"
	"github.com/pageza/pantrymatch/backend/internal/api"
	"github.com/pageza/pantrymatch/backend/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SetupRouter configures middleware and the application routes. redisClient
// may be nil, in which case requests are not rate limited.
func SetupRouter(cfg *config.Config, logger *zap.Logger, redisClient *redis.Client, handlers api.Handlers) *gin.Engine {
	if cfg.Env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoRoute(middleware.NotFound)
	router.NoMethod(middleware.MethodNotAllowed)

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
		middleware.ErrorHandler(logger),
		middleware.CORS(cfg.Server.AllowedOrigins),
	)

	// Scrapes are not rate limited.
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.RateLimit.Enabled && redisClient != nil {
		limiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window: cfg.RateLimit.Window,
			Limit:  cfg.RateLimit.Requests,
		}, logger)
		router.Use(limiter.Middleware())
	} else if cfg.RateLimit.Enabled {
		logger.Warn("rate limiting disabled: redis is not configured")
	}

	api.RegisterRoutes(router, handlers)
	return router
}
