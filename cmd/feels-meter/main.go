// Command feels-meter runs the mood intensity scoring service.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ct1212/youtube-feels-meter/internal/cache"
	"github.com/ct1212/youtube-feels-meter/internal/config"
	"github.com/ct1212/youtube-feels-meter/internal/db"
	"github.com/ct1212/youtube-feels-meter/internal/metadata"
	"github.com/ct1212/youtube-feels-meter/internal/pipeline"
	"github.com/ct1212/youtube-feels-meter/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A local .env is optional; real deployments set the environment.
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := newLogger(cfg.Dev)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Durable cache store is optional; without it the cache runs purely
	// in-process.
	var store cache.Store
	if cfg.DatabaseURL != "" {
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()

		repo := database.CacheEntries()
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("preparing cache schema: %w", err)
		}
		store = repo
		log.Info("durable cache store enabled")
	}

	resultCache := cache.New(store,
		cache.WithDefaultTTL(cfg.CacheDefaultTTL),
		cache.WithLogger(log),
	)
	resultCache.StartSweeper(ctx, cfg.SweepInterval)

	pipelineOpts := []pipeline.Option{
		pipeline.WithTTLs(cfg.CacheHitTTL, cfg.CacheMissTTL),
		pipeline.WithWorkers(cfg.BatchWorkers),
		pipeline.WithLogger(log),
	}

	if cfg.SpotifyID != "" && cfg.SpotifySecret != "" {
		api, err := metadata.NewSpotifyAPI(ctx, cfg.SpotifyID, cfg.SpotifySecret)
		if err != nil {
			return fmt.Errorf("creating spotify client: %w", err)
		}
		resolver := metadata.NewSpotifyResolver(api, metadata.WithSpotifyLogger(log))
		pipelineOpts = append(pipelineOpts, pipeline.WithResolver(resolver))
		log.Info("spotify metadata resolution enabled")
	} else {
		log.Warn("spotify credentials missing, running on title heuristics only")
	}

	if cfg.LastfmAPIKey != "" {
		tags := metadata.NewLastfmClient(cfg.LastfmAPIKey)
		pipelineOpts = append(pipelineOpts, pipeline.WithTagFetcher(tags))
		log.Info("last.fm tag fallback enabled")
	}

	svc := pipeline.New(resultCache, pipelineOpts...)

	server := web.NewServer(web.ServerConfig{
		Addr:     cfg.Addr,
		Pipeline: svc,
		Cache:    resultCache,
		Logger:   log,
	})

	return server.Run()
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
