package router

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/pageza/pantrymatch/backend/config"
	"github.com/pageza/pantrymatch/backend/internal/api"
	"github.com/pageza/pantrymatch/backend/internal/matching"
	"github.com/pageza/pantrymatch/backend/internal/middleware"
	"github.com/pageza/pantrymatch/backend/internal/service"
	"github.com/pageza/pantrymatch/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	db := testhelpers.SetupTestDatabase(t)
	testhelpers.SeedSampleCorpus(t, db)

	engine, err := matching.NewEngine(context.Background(), service.NewCorpusStore(db))
	require.NoError(t, err)

	cfg := &config.Config{
		Env:       config.Test,
		Server:    config.ServerConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		Suggest:   config.SuggestConfig{DefaultMaxResults: 20, MaxResultsCap: 100, DefaultAllowSubst: true},
		RateLimit: config.RateLimitConfig{Enabled: true, Requests: 1, Window: time.Minute},
	}
	suggestions := service.NewSuggestionService(engine, nil, cfg.Suggest, nil)

	return SetupRouter(cfg, zap.NewNop(), nil, api.Handlers{
		Suggest: api.NewSuggestHandler(suggestions),
		Recipe:  api.NewRecipeHandler(service.NewRecipeService(db)),
		Corpus:  api.NewCorpusHandler(suggestions),
		Health:  api.NewHealthHandler(db, nil, suggestions),
	})
}

func TestRouterServesRoutes(t *testing.T) {
	r := setupRouter(t)

	w := testhelpers.PerformRequest(r, http.MethodPost, "/api/suggest", `{"ingredients": ["egg"]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	// Without redis the limiter is off, so a second request also passes.
	w = testhelpers.PerformRequest(r, http.MethodPost, "/api/suggest", `{"ingredients": ["egg"]}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testhelpers.PerformRequest(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterMetrics(t *testing.T) {
	r := setupRouter(t)
	testhelpers.PerformRequest(r, http.MethodGet, "/api/v1/recipes", nil)

	w := testhelpers.PerformRequest(r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "pantrymatch_api_requests_total"))
}

func TestRouterJSONErrors(t *testing.T) {
	r := setupRouter(t)

	w := testhelpers.PerformRequest(r, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())

	w = testhelpers.PerformRequest(r, http.MethodGet, "/api/suggest", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
