package config

import (
	"fmt"
	"net/http"
	"time"

	"main/utils"

	"github.com/go-playground/validator/v10"
)

type DatabaseConfig struct {
	Host     string `validate:"required"`
	Port     int    `validate:"required"`
	Username string `validate:"required"`
	Password string
	Name     string `validate:"required"`
	SSLMode  string
}

// DSN builds the postgres connection string for the pgx driver.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.Name, c.SSLMode)
}

type SessionConfig struct {
	Secret     string        `validate:"required"`
	Duration   time.Duration `validate:"required"`
	CookieName string        `validate:"required"`
	Secure     bool
	SameSite   http.SameSite
}

type ServerConfig struct {
	Port        string `validate:"required"`
	FrontendURL string `validate:"required,url"`
}

type RedisConfig struct {
	URL string // empty disables the session cache
}

type Config struct {
	Database DatabaseConfig
	Session  SessionConfig
	Server   ServerConfig
	Redis    RedisConfig
}

// Load builds the configuration from the environment and rejects a
// configuration missing required values, so a misconfigured deploy
// fails at startup rather than on the first request.
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     utils.GetEnvAsString("DB_HOST", "localhost"),
			Port:     utils.GetEnvAsInt("DB_PORT", 5432),
			Username: utils.GetEnvAsString("DB_USERNAME", "postgres"),
			Password: utils.GetEnvAsString("DB_PASSWORD", ""),
			Name:     utils.GetEnvAsString("DB_NAME", "notes"),
			SSLMode:  utils.GetEnvAsString("DB_SSLMODE", "disable"),
		},
		Session: SessionConfig{
			Secret:     utils.GetEnvAsString("SESSION_SECRET", ""),
			Duration:   utils.GetEnvAsDuration("SESSION_DURATION", 24*time.Hour),
			CookieName: utils.GetEnvAsString("SESSION_COOKIE_NAME", "session_id"),
			Secure:     utils.GetEnvAsBool("COOKIE_SECURE", true),
			SameSite:   parseSameSite(utils.GetEnvAsString("COOKIE_SAMESITE", "lax")),
		},
		Server: ServerConfig{
			Port:        utils.GetEnvAsString("PORT", "8080"),
			FrontendURL: utils.GetEnvAsString("FRONTEND_URL", "http://localhost:3000"),
		},
		Redis: RedisConfig{
			URL: utils.GetEnvAsString("REDIS_URL", ""),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func parseSameSite(value string) http.SameSite {
	switch value {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
