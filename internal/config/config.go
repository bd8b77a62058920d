package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// CORSOrigins lists the origins allowed to call /api, space separated. A
	// page written by `render` and opened from disk sends Origin "null".
	CORSOrigins []string `env:"CORS_ORIGINS" default:"*"`

	CatalogFile string `env:"CATALOG_FILE"`
	UserAgent   string `env:"USER_AGENT" default:"weather-map/1.0 (github.com/Zachdehooge/weather-map)"`

	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" default:"30s"`
	FetchRetries int           `env:"FETCH_RETRIES" default:"0"`

	ErddapURL   string `env:"ERDDAP_URL" default:"https://pae-paha.pacioos.hawaii.edu/erddap"`
	WindDataset string `env:"WIND_DATASET" default:"ncep_global"`
	WindStride  int    `env:"WIND_STRIDE" default:"4"`

	MaxSessions    int           `env:"MAX_SESSIONS" default:"1000"`
	SessionIdleTTL time.Duration `env:"SESSION_IDLE_TTL" default:"30m"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Port == "" {
		return errors.New("PORT is required")
	}
	if cfg.FetchTimeout <= 0 {
		return errors.New("FETCH_TIMEOUT must be positive")
	}
	if cfg.FetchRetries < 0 {
		return errors.New("FETCH_RETRIES must not be negative")
	}
	if cfg.WindStride < 1 {
		return errors.New("WIND_STRIDE must be at least 1")
	}
	if cfg.MaxSessions < 1 {
		return fmt.Errorf("MAX_SESSIONS must be at least 1, got %d", cfg.MaxSessions)
	}
	if cfg.SessionIdleTTL <= 0 {
		return errors.New("SESSION_IDLE_TTL must be positive")
	}
	return nil
}
