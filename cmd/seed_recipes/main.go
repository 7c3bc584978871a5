package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/pageza/pantrymatch/backend/config"
	"github.com/pageza/pantrymatch/backend/internal/database"
	"github.com/pageza/pantrymatch/backend/internal/logging"
	"github.com/pageza/pantrymatch/backend/internal/matching"
	"github.com/pageza/pantrymatch/backend/internal/service"
	"go.uber.org/zap"
)

func main() {
	file := flag.String("file", "", "path to a corpus JSON document")
	s3URI := flag.String("s3", "", "s3://bucket/key of a corpus JSON document")
	replace := flag.Bool("replace", false, "remove the existing corpus before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	location := *file
	if *s3URI != "" {
		location = *s3URI
	}
	if location == "" {
		location = cfg.Corpus.DefaultDocumentURI
	}
	if location == "" {
		logger.Error("no corpus document given; use -file or -s3")
		_ = logger.Sync()
		os.Exit(2)
	}

	if err := seed(cfg, logger, location, *replace); err != nil {
		logger.Error("seeding failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func seed(cfg *config.Config, logger *zap.Logger, location string, replace bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var opener service.ObjectOpener
	if strings.HasPrefix(location, "s3://") {
		s3cfg, err := config.NewS3Config(ctx, cfg.Corpus)
		if err != nil {
			return err
		}
		opener = s3cfg
	}

	doc, err := service.LoadDocument(ctx, opener, location)
	if err != nil {
		return err
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(db); err != nil {
		return err
	}

	normalizer := matching.DefaultNormalizer()
	normalizer.Singularize = cfg.Suggest.Singularize

	stats, err := service.NewSeeder(db, normalizer, logger).Seed(ctx, doc, service.SeedOptions{Replace: replace})
	if err != nil {
		return err
	}
	logger.Info("seeded corpus",
		zap.String("source", location),
		zap.Int("recipes", stats.Recipes),
		zap.Int("ingredients", stats.Ingredients),
	)

	redisClient, err := database.NewRedisClient(cfg.Redis, logger)
	if err != nil {
		logger.Warn("running servers were not notified; refresh them manually", zap.Error(err))
		return nil
	}
	if redisClient == nil {
		return nil
	}
	defer redisClient.Close()

	return service.PublishInvalidation(ctx, redisClient, cfg.Corpus.InvalidateChannel, "seed:"+location)
}
