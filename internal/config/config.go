package config

import (
	"errors"
	"os"
	"strings"
)

type AppConfig struct {
	RedisURL    string
	DatabaseURL string // optional: completed-game archive

	GameCatalogPath string // optional override for the embedded catalog
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.GameCatalogPath = strings.TrimSpace(os.Getenv("GAME_CATALOG_PATH"))

	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}

	return cfg, nil
}
