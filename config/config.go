package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type CountingMode string

const (
	CountAll      CountingMode = "all"
	CountFailures CountingMode = "failures"
	CountSuccess  CountingMode = "success"
)

const (
	MinSecretKeyLength   = 32
	MinRefreshTokenBytes = 32
)

type Config struct {
	App          AppConfig          `envPrefix:"APP_"`
	Server       ServerConfig       `envPrefix:"SERVER_"`
	Log          LogConfig          `envPrefix:"LOG_"`
	Database     DatabaseConfig     `envPrefix:"DATABASE_"`
	Auth         AuthConfig         `envPrefix:"AUTH_"`
	JWT          JWTConfig          `envPrefix:"JWT_"`
	RefreshToken RefreshTokenConfig `envPrefix:"REFRESH_TOKEN_"`
	RateLimit    RateLimitConfig    `envPrefix:"RATE_LIMIT_"`
	Redis        RedisConfig        `envPrefix:"REDIS_"`
	CORS         CORSConfig         `envPrefix:"CORS_"`
	Metrics      MetricsConfig      `envPrefix:"METRICS_"`
}

type AppConfig struct {
	Name    string `env:"NAME" envDefault:"minisocial"`
	Version string `env:"VERSION" envDefault:"1.0.0"`
}

type ServerConfig struct {
	Host            string        `env:"HOST" envDefault:"localhost"`
	Port            string        `env:"PORT" envDefault:"8000"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
	Output string `env:"OUTPUT" envDefault:"stdout"`
}

type DatabaseConfig struct {
	Driver          string        `env:"DRIVER" envDefault:"sqlite"`
	DSN             string        `env:"DSN" envDefault:"database.db"`
	AutoMigrate     bool          `env:"AUTO_MIGRATE" envDefault:"true"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"10"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"30m"`
}

type AuthConfig struct {
	MinLength  int `env:"MIN_LENGTH" envDefault:"8"`
	MaxLength  int `env:"MAX_LENGTH" envDefault:"40"`
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

type JWTConfig struct {
	SecretKey    string        `env:"SECRET_KEY"`
	Algorithm    string        `env:"ALGORITHM" envDefault:"HS256"`
	AccessExpiry time.Duration `env:"ACCESS_EXPIRY" envDefault:"15m"`
	Issuer       string        `env:"ISSUER" envDefault:"minisocial"`
}

type RefreshTokenConfig struct {
	TokenLength int           `env:"TOKEN_LENGTH" envDefault:"32"`
	Expiry      time.Duration `env:"EXPIRY" envDefault:"168h"`
}

type RateLimitConfig struct {
	Enabled     bool          `env:"ENABLED" envDefault:"true"`
	Store       string        `env:"STORE" envDefault:"memory"`
	LoginRate   int           `env:"LOGIN_RATE" envDefault:"10"`
	LoginPeriod time.Duration `env:"LOGIN_PERIOD" envDefault:"1m"`
	CountMode   CountingMode  `env:"COUNT_MODE" envDefault:"failures"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type CORSConfig struct {
	AllowOrigins []string `env:"ALLOW_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,https://localhost:5173"`
}

type MetricsConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"true"`
	Path    string `env:"PATH" envDefault:"/metrics"`
}

// LoadConfig fills cfg from the environment (and a .env file when present).
// A *Config is validated after parsing.
func LoadConfig(cfg any) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	if err := env.Parse(cfg); err != nil {
		return err
	}

	if c, ok := cfg.(*Config); ok {
		return c.Validate()
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error

	if len(c.JWT.SecretKey) < MinSecretKeyLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET_KEY: JWT secret key must be at least %d characters long", MinSecretKeyLength))
	}

	switch c.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM: unsupported algorithm %q (supported: HS256, HS384, HS512)", c.JWT.Algorithm))
	}

	if c.JWT.AccessExpiry <= 0 {
		errs = append(errs, errors.New("JWT_ACCESS_EXPIRY: access token expiry must be positive"))
	}

	if c.RefreshToken.TokenLength < MinRefreshTokenBytes {
		errs = append(errs, fmt.Errorf("REFRESH_TOKEN_TOKEN_LENGTH: refresh token length must be at least %d bytes", MinRefreshTokenBytes))
	}

	if c.RefreshToken.Expiry <= 0 {
		errs = append(errs, errors.New("REFRESH_TOKEN_EXPIRY: refresh token expiry must be positive"))
	}

	if c.Auth.MinLength <= 0 || c.Auth.MaxLength < c.Auth.MinLength {
		errs = append(errs, fmt.Errorf("AUTH_MIN_LENGTH/AUTH_MAX_LENGTH: invalid password length bounds %d..%d", c.Auth.MinLength, c.Auth.MaxLength))
	}

	switch c.Database.Driver {
	case "sqlite", "postgres", "postgresql", "mysql":
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER: unsupported database driver %q", c.Database.Driver))
	}

	switch c.RateLimit.Store {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("RATE_LIMIT_STORE: unsupported store %q", c.RateLimit.Store))
	}

	switch c.RateLimit.CountMode {
	case CountAll, CountFailures, CountSuccess:
	default:
		errs = append(errs, fmt.Errorf("RATE_LIMIT_COUNT_MODE: unsupported counting mode %q", c.RateLimit.CountMode))
	}

	return errors.Join(errs...)
}
