package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// minProductionSecretLength is the HS256 key size
const minProductionSecretLength = 32

type Config struct {
	// Application
	AppName         string        `env:"APP_NAME" envDefault:"Todo API"`
	AppEnv          string        `env:"APP_ENV" envDefault:"development"` // 'development' or 'production'
	Port            string        `env:"PORT" envDefault:"8090"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Database (driver switch via ENV, default: sqlite)
	DBDriver     string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBConnection string `env:"DB_CONNECTION" envDefault:"./data/todo.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_time_format=sqlite"`

	// Security
	JWTSecret  string        `env:"JWT_SECRET,required,notEmpty"`
	JWTExpiry  time.Duration `env:"JWT_EXPIRY" envDefault:"0s"` // 0: valid until revoked
	AuthHeader string        `env:"AUTH_HEADER" envDefault:"x-auth"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`

	// Observability (optional)
	SentryDSN string `env:"SENTRY_DSN"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	return Parse()
}

// Parse builds the config from the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.AppEnv != EnvDevelopment && c.AppEnv != EnvProduction {
		errs = append(errs, fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.AppEnv))
	}
	if c.DBDriver != "sqlite" && c.DBDriver != "pgx" {
		errs = append(errs, fmt.Errorf("DB_DRIVER must be sqlite or pgx, got %q", c.DBDriver))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.JWTExpiry < 0 {
		errs = append(errs, errors.New("JWT_EXPIRY must not be negative"))
	}
	if c.AuthHeader == "" {
		errs = append(errs, errors.New("AUTH_HEADER must not be empty"))
	}
	if c.IsProduction() && len(c.JWTSecret) < minProductionSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes in production", minProductionSecretLength))
	}

	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}
