package testutils

import (
	"time"

	"github.com/tech-arch1tect/minisocial/config"
	"golang.org/x/crypto/bcrypt"
)

const TestSecretKey = "test-secret-key-32-chars-long!!!"

func GetTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:    "minisocial-test",
			Version: "test",
		},
		Server: config.ServerConfig{
			Host:            "localhost",
			Port:            "0",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: 2 * time.Second,
		},
		Log: config.LogConfig{
			Level:  "error",
			Format: "json",
			Output: "stdout",
		},
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			DSN:         ":memory:",
			AutoMigrate: true,
		},
		Auth: config.AuthConfig{
			MinLength:  8,
			MaxLength:  40,
			BcryptCost: bcrypt.MinCost,
		},
		JWT: config.JWTConfig{
			SecretKey:    TestSecretKey,
			Algorithm:    "HS256",
			AccessExpiry: 15 * time.Minute,
			Issuer:       "minisocial-test",
		},
		RefreshToken: config.RefreshTokenConfig{
			TokenLength: 32,
			Expiry:      24 * time.Hour,
		},
		RateLimit: config.RateLimitConfig{
			Enabled:     false,
			Store:       "memory",
			LoginRate:   5,
			LoginPeriod: time.Minute,
			CountMode:   config.CountFailures,
		},
		CORS: config.CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
		},
		Metrics: config.MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

var TestPasswords = struct {
	Valid    string
	TooShort string
	TooLong  string
}{
	Valid:    "correcthorse123",
	TooShort: "short",
	TooLong:  "this-password-is-far-too-long-for-the-policy",
}
