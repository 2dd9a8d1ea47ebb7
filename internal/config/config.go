// Package config loads server and CLI settings from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds every environment-driven setting.
type Config struct {
	Port           string
	DBPath         string
	ClientOrigin   string
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	AnonCookieName string
	Production     bool
	LogLevel       zerolog.Level
	LogFormat      string // "console" or "json"
	AutoplayDelay  time.Duration
	DefaultLength  int
	DefaultDomain  int
	SessionIdle    time.Duration
	DailySalt      string
}

const devSecret = "dev_secret_change_me"

// Load reads .env (best effort) and the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() Config {
	lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return Config{
		Port:           getEnv("PORT", "5175"),
		DBPath:         getEnv("DB_PATH", "./data/mastermind.db"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		JWTSecret:      getEnv("JWT_SECRET", devSecret),
		JWTExpiresDays: getInt("JWT_EXPIRES_DAYS", 14),
		CookieName:     getEnv("COOKIE_NAME", "mastermind_token"),
		AnonCookieName: getEnv("ANON_COOKIE_NAME", "mastermind_anon"),
		Production:     os.Getenv("NODE_ENV") == "production",
		LogLevel:       lvl,
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		AutoplayDelay:  time.Duration(getInt("AUTOPLAY_DELAY_MS", 0)) * time.Millisecond,
		DefaultLength:  getInt("DEFAULT_LENGTH", 4),
		DefaultDomain:  getInt("DEFAULT_ELEMENTS", 6),
		SessionIdle:    time.Duration(getInt("SESSION_IDLE_MINUTES", 60)) * time.Minute,
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
	}
}

// TokenTTL is the lifetime of an auth token.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiresDays) * 24 * time.Hour
}

// InsecureSecret reports whether the development JWT secret is in use.
func (c Config) InsecureSecret() bool { return c.JWTSecret == devSecret }

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return def
}
