package api

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes.
type Handlers struct {
	Suggest *SuggestHandler
	Recipe  *RecipeHandler
	Corpus  *CorpusHandler
	Health  *HealthHandler
}

// RegisterRoutes registers all API routes. The unversioned /api paths are
// kept for existing clients.
func RegisterRoutes(router *gin.Engine, h Handlers) {
	router.GET("/health", h.Health.HealthCheck)
	router.GET("/api/health", h.Health.HealthCheck)

	legacy := router.Group("/api")
	{
		legacy.POST("/suggest", h.Suggest.Suggest)
		legacy.GET("/recipe/:id", h.Recipe.GetRecipe)
	}

	v1 := router.Group("/api/v1")
	{
		h.Suggest.RegisterRoutes(v1)
		h.Recipe.RegisterRoutes(v1)
		h.Corpus.RegisterRoutes(v1)
	}
}
