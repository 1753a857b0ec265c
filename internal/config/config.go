package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is populated from the environment. The email API key is
// deliberately optional: its absence selects the gateway's log-only
// mode instead of failing startup.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	MySQLDSN  string `env:"MYSQL_DSN" envDefault:"root:root@tcp(localhost:3306)/chainmind?parseTime=true"`
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	EmailAPIKey  string `env:"RESEND_API_KEY"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"orders@chainmind.app"`
	EmailBaseURL string `env:"EMAIL_BASE_URL"`

	ForecastURL string `env:"AI_SERVICE_URL" envDefault:"http://localhost:5001"`

	EffectTimeout time.Duration `env:"EFFECT_TIMEOUT" envDefault:"10s"`
	DedupTTL      time.Duration `env:"DEDUP_TTL" envDefault:"6h"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
