package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/pantrymatch/backend/internal/service"
)

// CorpusHandler exposes corpus maintenance operations.
type CorpusHandler struct {
	suggestions service.ISuggestionService
}

func NewCorpusHandler(suggestions service.ISuggestionService) *CorpusHandler {
	return &CorpusHandler{suggestions: suggestions}
}

func (h *CorpusHandler) RegisterRoutes(router gin.IRoutes) {
	router.POST("/corpus/refresh", h.Refresh)
}

// Refresh drops the cached corpus and reloads it right away so a broken
// store is reported to the caller instead of the next suggestion request.
func (h *CorpusHandler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.suggestions.Invalidate(ctx); err != nil {
		_ = c.Error(err)
	}

	status, err := h.suggestions.Status(ctx)
	if err != nil {
		respondCorpusError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "reloaded",
		"corpus": status,
	})
}
