package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the environment-backed defaults. Per-run options (feed
// path, URLs, policies) come from the command line instead.
type Config struct {
	YtDlpPath        string        `env:"PLAYCAST_YTDLP_PATH"         envDefault:"yt-dlp"`
	LogLevel         string        `env:"PLAYCAST_LOG_LEVEL"          envDefault:"info"`
	DownloadInterval time.Duration `env:"PLAYCAST_DOWNLOAD_INTERVAL"  envDefault:"0s"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
