// internal/config/config.go
//
// Runtime configuration for the minigames server.
// Values come from the environment; a local `.env` file is loaded first
// when present (development convenience, never required).

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every tunable the server reads at startup.
type Config struct {
	Port           string        `env:"PORT"             envDefault:"5175"`
	LogLevel       string        `env:"LOG_LEVEL"        envDefault:"info"`
	DBPath         string        `env:"DB_PATH"          envDefault:"./data/minigames.db"`
	JWTSecret      string        `env:"JWT_SECRET"       envDefault:"dev_secret_change_me"`
	JWTExpiresDays int           `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string        `env:"COOKIE_NAME"      envDefault:"minigames_token"`
	ClientOrigin   string        `env:"CLIENT_ORIGIN"    envDefault:"http://localhost:5173"`
	DailySalt      string        `env:"DAILY_SALT"       envDefault:"local_dev_salt"`
	AppEnv         string        `env:"APP_ENV"          envDefault:"development"`
	SessionTTL     time.Duration `env:"SESSION_TTL"      envDefault:"30m"`
}

// Load reads `.env` (if any) and parses the environment into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.JWTExpiresDays <= 0 {
		cfg.JWTExpiresDays = 14
	}
	return cfg, nil
}

// Production reports whether cookies should be marked Secure.
func (c Config) Production() bool { return c.AppEnv == "production" }

// TokenTTL is the lifetime of issued auth tokens.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiresDays) * 24 * time.Hour
}
