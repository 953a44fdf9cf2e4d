// Package config loads service configuration from the environment.
package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds every runtime setting. Only ADDR has a hard requirement of
// being routable; the external collaborators are all optional and the
// pipeline degrades gracefully when their credentials are absent.
type Config struct {
	Addr string `env:"ADDR, default=127.0.0.1:8080"`

	// DatabaseURL enables the durable cache store when set.
	DatabaseURL string `env:"DATABASE_URL"`

	// Spotify client-credentials pair for metadata resolution.
	SpotifyID     string `env:"SPOTIFY_ID"`
	SpotifySecret string `env:"SPOTIFY_SECRET"`

	// LastfmAPIKey enables the fallback genre tag source.
	LastfmAPIKey string `env:"LASTFM_API_KEY"`

	CacheDefaultTTL time.Duration `env:"CACHE_DEFAULT_TTL, default=6h"`
	CacheHitTTL     time.Duration `env:"CACHE_HIT_TTL, default=24h"`
	CacheMissTTL    time.Duration `env:"CACHE_MISS_TTL, default=10m"`
	SweepInterval   time.Duration `env:"CACHE_SWEEP_INTERVAL, default=1m"`

	BatchWorkers int `env:"BATCH_WORKERS, default=4"`

	// Dev switches logging to the human-readable development encoder.
	Dev bool `env:"DEV, default=false"`
}

// Load reads configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
