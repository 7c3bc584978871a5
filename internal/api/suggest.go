package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/pantrymatch/backend/internal/matching"
	"github.com/pageza/pantrymatch/backend/internal/middleware"
	"github.com/pageza/pantrymatch/backend/internal/service"
)

// SuggestHandler serves ranked recipe suggestions.
type SuggestHandler struct {
	suggestions service.ISuggestionService
}

func NewSuggestHandler(suggestions service.ISuggestionService) *SuggestHandler {
	return &SuggestHandler{suggestions: suggestions}
}

func (h *SuggestHandler) RegisterRoutes(router gin.IRoutes) {
	router.POST("/suggest", h.Suggest)
}

// Suggest ranks recipes for the posted ingredients. A missing or empty body
// behaves like {}.
func (h *SuggestHandler) Suggest(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "Failed to read request body"})
		return
	}

	var req SuggestRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "Invalid request body: " + err.Error()})
			return
		}
	}

	results, err := h.suggestions.Suggest(c.Request.Context(), service.SuggestOptions{
		Ingredients: []string(req.Ingredients),
		MaxResults:  req.MaxResults.Value,
		AllowSubst:  req.AllowSubst.Value,
	})
	if err != nil {
		respondCorpusError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// respondCorpusError maps an unusable corpus to 503 and anything else to 500.
func respondCorpusError(c *gin.Context, err error) {
	_ = c.Error(err)
	if errors.Is(err, matching.ErrEmptyCorpus) || errors.Is(err, matching.ErrInvalidCorpus) {
		c.JSON(http.StatusServiceUnavailable, middleware.ErrorResponse{Error: "Recipe corpus unavailable"})
		return
	}
	c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "Failed to compute suggestions"})
}
