package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          string
	Env           string
	DatabaseDSN   string
	JWTSecret     string
	SessionExpiry time.Duration
	ResetExpiry   time.Duration

	// AppBaseURL is the public URL of the web client; password reset links
	// are built against it.
	AppBaseURL string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string
}

func Load() Config {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		DatabaseDSN:   getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/coursetrack?parseTime=true"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		SessionExpiry: getDuration("SESSION_EXPIRY", 24*time.Hour),
		ResetExpiry:   getDuration("RESET_EXPIRY", 15*time.Minute),
		AppBaseURL:    getEnv("APP_BASE_URL", "http://localhost:3000"),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getInt("SMTP_PORT", 587),
		SMTPUser:      getEnv("SMTP_USER", ""),
		SMTPPass:      getEnv("SMTP_PASS", ""),
		MailFrom:      getEnv("MAIL_FROM", "no-reply@coursetrack.local"),
	}

	if cfg.Env == "production" && cfg.JWTSecret == "dev-secret-change-in-production" {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v)
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
	}
	return fallback
}
