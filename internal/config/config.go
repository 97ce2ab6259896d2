package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	defaultJWTSecret = "change-me-jwt-secret"
)

type Config struct {
	AppEnv      string   `env:"APP_ENV" envDefault:"dev"`
	DatabaseURL string   `env:"DATABASE_URL" envDefault:"wedding.db"`
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	FrontendURL string   `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	HTTP   HTTPServer
	Log    Log
	JWT    JWT    `envPrefix:"JWT_"`
	Stripe Stripe `envPrefix:"STRIPE_"`
	Redis  Redis  `envPrefix:"REDIS_"`
	AMQP   AMQP   `envPrefix:"AMQP_"`
	Jobs   Jobs   `envPrefix:"JOBS_"`
}

type HTTPServer struct {
	Host            string        `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

func (h HTTPServer) Addr() string { return h.Host + ":" + h.Port }

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type JWT struct {
	Secret string        `env:"SECRET" envDefault:"change-me-jwt-secret"`
	TTL    time.Duration `env:"TTL" envDefault:"24h"`
}

type Stripe struct {
	SecretKey     string        `env:"SECRET"`
	WebhookSecret string        `env:"WEBHOOK_SECRET"`
	Currency      string        `env:"CURRENCY" envDefault:"usd"`
	Timeout       time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Redis is optional; an empty Addr selects the in-process package locker.
type Redis struct {
	Addr     string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	LockTTL  time.Duration `env:"LOCK_TTL" envDefault:"30s"`
}

// AMQP is optional; an empty URL selects the log-only publisher.
type AMQP struct {
	URL      string `env:"URL"`
	Exchange string `env:"EXCHANGE" envDefault:"wedding.events"`
}

type Jobs struct {
	ExpirySchedule string `env:"EXPIRY_SCHEDULE" envDefault:"@every 1h"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.Stripe.Currency = strings.ToLower(strings.TrimSpace(cfg.Stripe.Currency))
	cfg.FrontendURL = strings.TrimRight(strings.TrimSpace(cfg.FrontendURL), "/")

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if u, err := url.Parse(cfg.FrontendURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("FRONTEND_URL must be an absolute URL")
	}
	if cfg.JWT.TTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.Stripe.Timeout <= 0 {
		return fmt.Errorf("STRIPE_TIMEOUT must be > 0")
	}
	if len(cfg.Stripe.Currency) != 3 {
		return fmt.Errorf("STRIPE_CURRENCY must be a 3-letter ISO code")
	}
	if cfg.HTTP.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be > 0")
	}
	if cfg.Redis.Addr != "" && cfg.Redis.LockTTL <= 0 {
		return fmt.Errorf("REDIS_LOCK_TTL must be > 0")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWT.Secret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if strings.TrimSpace(cfg.Stripe.SecretKey) == "" {
			return fmt.Errorf("in prod/release STRIPE_SECRET must be set")
		}
		if strings.TrimSpace(cfg.Stripe.WebhookSecret) == "" {
			return fmt.Errorf("in prod/release STRIPE_WEBHOOK_SECRET must be set")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
