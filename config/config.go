package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Config struct {
	Env          string `env:"ENVIRONMENT" envDefault:"development"`
	ServerPort   int    `env:"SERVER_PORT" envDefault:"8080"`
	APIKey       string `env:"API_KEY"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"wicketwatch.sqlite"`

	CheckInterval  time.Duration `env:"CHECK_INTERVAL" envDefault:"1m"`
	IngestInterval time.Duration `env:"INGEST_INTERVAL" envDefault:"24h"`

	CricketData struct {
		BaseURL string `env:"CRICKET_DATA_BASE_URL" envDefault:"https://api.cricapi.com/v1"`
		APIKey  string `env:"CRICKET_DATA_API_KEY"`
	}
	FCM struct {
		Endpoint    string `env:"FCM_ENDPOINT" envDefault:"https://fcm.googleapis.com/fcm/send"`
		ServerKey   string `env:"FCM_SERVER_KEY"`
		TimeoutSecs int    `env:"FCM_TIMEOUT_SECS" envDefault:"10"`
	}
	Mailgun struct {
		Domain      string `env:"MAILGUN_DOMAIN"`
		APIKey      string `env:"MAILGUN_API_KEY"`
		SenderFrom  string `env:"MAILGUN_SENDER_FROM"`
		TimeoutSecs int    `env:"MAILGUN_TIMEOUT_SECS" envDefault:"10"`
	}

	log *zap.Logger
}

func NewConfig(lc fx.Lifecycle, log *zap.Logger) *Config {
	cfg := &Config{log: log}
	if err := env.Parse(cfg); err != nil {
		log.Sugar().Panicf("failed to parse config from environment: %v", err)
	}

	cfg.requireSecret("API_KEY", cfg.APIKey, func(v string) { cfg.APIKey = v })
	cfg.requireSecret("CRICKET_DATA_API_KEY", cfg.CricketData.APIKey, func(v string) { cfg.CricketData.APIKey = v })

	return cfg
}

func (cfg *Config) IsProduction() bool {
	return cfg.Env == "production"
}

// requireSecret panics outside development; in development it substitutes a
// placeholder so the service can run against stubbed collaborators.
func (cfg *Config) requireSecret(name, value string, set func(string)) {
	if value != "" {
		return
	}
	if cfg.IsProduction() {
		cfg.log.Sugar().Panicf("%s envvar must be populated", name)
	}
	cfg.log.Sugar().Infof("%s envvar is empty, using development fallback", name)
	set("local-dev-key")
}
