package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pageza/pantrymatch/backend/config"
	"github.com/pageza/pantrymatch/backend/internal/api"
	"github.com/pageza/pantrymatch/backend/internal/database"
	"github.com/pageza/pantrymatch/backend/internal/logging"
	"github.com/pageza/pantrymatch/backend/internal/matching"
	"github.com/pageza/pantrymatch/backend/internal/metrics"
	"github.com/pageza/pantrymatch/backend/internal/router"
	"github.com/pageza/pantrymatch/backend/internal/server"
	"github.com/pageza/pantrymatch/backend/internal/service"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg, logger)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(db); err != nil {
		return err
	}

	policy, err := matching.ParsePolicy(cfg.Suggest.SubstitutionPolicy)
	if err != nil {
		return err
	}
	normalizer := matching.DefaultNormalizer()
	normalizer.Singularize = cfg.Suggest.Singularize

	// A corpus that cannot be read stops startup here.
	engine, err := matching.NewEngine(ctx, service.NewCorpusStore(db),
		matching.WithNormalizer(normalizer),
		matching.WithPolicy(policy),
		matching.WithAllowEmpty(cfg.Corpus.AllowEmpty),
		matching.WithLogger(logger.Named("matching")),
		matching.WithReloadHook(func(snap *matching.Snapshot, err error) {
			if err != nil {
				metrics.RecordCorpusLoad(0, 0, err)
				return
			}
			metrics.RecordCorpusLoad(snap.RecipeCount(), snap.IngredientCount(), nil)
		}),
	)
	if err != nil {
		return err
	}

	redisClient, err := database.NewRedisClient(cfg.Redis, logger)
	if err != nil {
		logger.Warn("continuing without redis", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var cache service.SuggestionCache
	if redisClient != nil {
		cache = service.NewRedisSuggestionCache(redisClient, cfg.Suggest.CacheTTL)
	}
	suggestions := service.NewSuggestionService(engine, cache, cfg.Suggest, logger.Named("suggest"))

	if redisClient != nil {
		watcher := service.NewCorpusWatcher(redisClient, cfg.Corpus.InvalidateChannel, suggestions, logger.Named("watcher"))
		go func() {
			if err := watcher.Run(ctx, nil); err != nil {
				logger.Error("corpus watcher stopped", zap.Error(err))
			}
		}()
	}

	handler := router.SetupRouter(cfg, logger, redisClient, api.Handlers{
		Suggest: api.NewSuggestHandler(suggestions),
		Recipe:  api.NewRecipeHandler(service.NewRecipeService(db)),
		Corpus:  api.NewCorpusHandler(suggestions),
		Health:  api.NewHealthHandler(db, redisClient, suggestions),
	})

	return server.New(cfg.Server, handler, logger).Run(ctx)
}
