package service

import (
	"context"
	"time"

	"github.com/pageza/pantrymatch/backend/config"
	"github.com/pageza/pantrymatch/backend/internal/matching"
	"github.com/pageza/pantrymatch/backend/internal/metrics"
	"go.uber.org/zap"
)

// SuggestOptions are the caller's suggestion parameters. Nil fields take the
// configured defaults.
type SuggestOptions struct {
	Ingredients []string
	MaxResults  *int
	AllowSubst  *bool
}

// CorpusStatus describes the snapshot currently served.
type CorpusStatus struct {
	Version     uint64    `json:"version"`
	LoadedAt    time.Time `json:"loaded_at"`
	Recipes     int       `json:"recipes"`
	Ingredients int       `json:"ingredients"`
	Policy      string    `json:"substitution_policy"`
}

// SuggestionService serves ranked suggestions from the matching engine with
// an optional result cache in front.
type SuggestionService struct {
	engine *matching.Engine
	cache  SuggestionCache
	cfg    config.SuggestConfig
	logger *zap.Logger
}

// NewSuggestionService creates a new SuggestionService instance. cache may be
// nil.
func NewSuggestionService(engine *matching.Engine, cache SuggestionCache, cfg config.SuggestConfig, logger *zap.Logger) *SuggestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionService{
		engine: engine,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
	}
}

// Request applies defaults and bounds to opts.
func (s *SuggestionService) Request(opts SuggestOptions) matching.Request {
	maxResults := s.cfg.DefaultMaxResults
	if opts.MaxResults != nil {
		maxResults = *opts.MaxResults
	}
	if maxResults < 0 {
		maxResults = 0
	}
	if s.cfg.MaxResultsCap > 0 && maxResults > s.cfg.MaxResultsCap {
		maxResults = s.cfg.MaxResultsCap
	}

	allowSubst := s.cfg.DefaultAllowSubst
	if opts.AllowSubst != nil {
		allowSubst = *opts.AllowSubst
	}

	return matching.Request{
		Ingredients: opts.Ingredients,
		MaxResults:  maxResults,
		AllowSubst:  allowSubst,
	}
}

// Suggest returns up to the requested number of ranked recipes.
func (s *SuggestionService) Suggest(ctx context.Context, opts SuggestOptions) ([]matching.MatchResult, error) {
	start := time.Now()
	req := s.Request(opts)

	results, err := s.suggest(ctx, req)
	if err != nil {
		return nil, err
	}

	metrics.RecordSuggestion(req.AllowSubst, len(results), time.Since(start))
	return results, nil
}

func (s *SuggestionService) suggest(ctx context.Context, req matching.Request) ([]matching.MatchResult, error) {
	if s.cache == nil || req.MaxResults == 0 {
		return s.engine.Suggest(ctx, req)
	}

	snap, err := s.engine.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	// A cache outage degrades to computing every request.
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		metrics.CacheErrors.Inc()
		s.logger.Warn("suggestion cache unavailable", zap.Error(err))
		return snap.Suggest(req), nil
	}

	normalized := s.engine.Normalizer().NormalizeAll(req.Ingredients)
	key := cacheKey(gen, snap.Version, normalized, req.MaxResults, req.AllowSubst)

	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheErrors.Inc()
		s.logger.Warn("failed to read suggestion cache", zap.Error(err))
	}
	if ok {
		metrics.CacheHits.Inc()
		return cached, nil
	}
	metrics.CacheMisses.Inc()

	results := snap.Suggest(matching.Request{
		Ingredients: normalized,
		MaxResults:  req.MaxResults,
		AllowSubst:  req.AllowSubst,
	})
	if err := s.cache.Set(ctx, key, results); err != nil {
		metrics.CacheErrors.Inc()
		s.logger.Warn("failed to write suggestion cache", zap.Error(err))
	}
	return results, nil
}

// Invalidate drops the engine snapshot and orphans cached results. The
// snapshot is reloaded lazily on the next request.
func (s *SuggestionService) Invalidate(ctx context.Context) error {
	s.engine.Invalidate()
	if s.cache == nil {
		return nil
	}
	gen, err := s.cache.Bump(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("suggestion cache invalidated", zap.Int64("generation", gen))
	return nil
}

// Status reports the snapshot in use, loading it if needed.
func (s *SuggestionService) Status(ctx context.Context) (CorpusStatus, error) {
	snap, err := s.engine.Snapshot(ctx)
	if err != nil {
		return CorpusStatus{}, err
	}
	return CorpusStatus{
		Version:     snap.Version,
		LoadedAt:    snap.LoadedAt,
		Recipes:     snap.RecipeCount(),
		Ingredients: snap.IngredientCount(),
		Policy:      string(snap.Policy()),
	}, nil
}
