// Package config loads server configuration from the environment, with a
// .env file honored when present.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// defaultJWTSecret keeps dev setups working out of the box; Load warns
// loudly whenever it is in effect.
const defaultJWTSecret = "mysecretkey"

// Config holds everything the server needs to start.
type Config struct {
	Port            int
	DBPath          string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	CORSOrigins     []string
	LogLevel        string
	LogFormat       string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if it exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:    getEnv("DB_PATH", "./data/splitledger.db"),
		JWTSecret: getEnv("JWT_SECRET", defaultJWTSecret),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	cfg.Port = port

	if cfg.AccessTokenTTL, err = parseTTL("ACCESS_TOKEN_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RefreshTokenTTL, err = parseTTL("REFRESH_TOKEN_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}

	for _, origin := range strings.Split(getEnv("CORS_ORIGINS", ""), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	if cfg.JWTSecret == defaultJWTSecret {
		slog.Warn("JWT_SECRET not set, using the default dev secret")
	}
	return cfg, nil
}

func parseTTL(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	ttl, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return ttl, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
