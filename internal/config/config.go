package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Session struct {
		CookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"connect.sid"`
		TTL        time.Duration `env:"SESSION_TTL" envDefault:"24h"`
		Secure     bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	}

	Redis struct {
		URL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	}

	Siwe struct {
		Domain    string `env:"SIWE_DOMAIN" envDefault:"localhost:3000"`
		URI       string `env:"SIWE_URI" envDefault:"http://localhost:3000"`
		ChainID   int    `env:"SIWE_CHAIN_ID" envDefault:"1"`
		Statement string `env:"SIWE_STATEMENT" envDefault:"Sign in to manage the store."`
	}

	AdminsFile string `env:"ADMINS_FILE" envDefault:"admins.json"`
}

func Load() (*Config, error) {
	// A missing .env file is fine; production sets variables directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
