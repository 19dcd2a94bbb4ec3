// Package config reads process settings from TUTOR_* environment
// variables.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Config holds the process-wide settings shared by the server and the
// terminal reader. LLM settings live in llm.ConfigFromEnv.
type Config struct {
	HTTPAddr string

	DBDriver string // sqlite|postgres
	DBDSN    string // empty means the default SQLite file

	JWTSecret string
	TokenTTL  time.Duration

	CORSOrigins []string

	// StrictQuiz requires all three scenes before a quiz submission.
	StrictQuiz bool

	// Location sets calendar-day boundaries for activity and streaks.
	Location *time.Location

	LogLevel  slog.Level
	LogFormat string // text|json

	LocalUser string
}

// FromEnv reads the configuration. Unparseable values are reported rather
// than silently replaced.
func FromEnv() (Config, error) {
	c := Config{
		HTTPAddr:    envOr("TUTOR_HTTP_ADDR", ":8080"),
		DBDriver:    envOr("TUTOR_DB_DRIVER", "sqlite"),
		DBDSN:       os.Getenv("TUTOR_DB_DSN"),
		JWTSecret:   os.Getenv("TUTOR_JWT_SECRET"),
		CORSOrigins: csvOr("TUTOR_CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		StrictQuiz:  envBool("TUTOR_STRICT_QUIZ", false),
		LogFormat:   strings.ToLower(envOr("TUTOR_LOG_FORMAT", "text")),
		LocalUser:   envOr("TUTOR_LOCAL_USER", defaultLocalUser()),
	}

	ttl, err := time.ParseDuration(envOr("TUTOR_TOKEN_TTL", "24h"))
	if err != nil {
		return c, fmt.Errorf("TUTOR_TOKEN_TTL: %w", err)
	}
	c.TokenTTL = ttl

	loc, err := time.LoadLocation(envOr("TUTOR_TIMEZONE", "Local"))
	if err != nil {
		return c, fmt.Errorf("TUTOR_TIMEZONE: %w", err)
	}
	c.Location = loc

	if err := c.LogLevel.UnmarshalText([]byte(envOr("TUTOR_LOG_LEVEL", "info"))); err != nil {
		return c, fmt.Errorf("TUTOR_LOG_LEVEL: %w", err)
	}

	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return c, fmt.Errorf("TUTOR_DB_DRIVER: unsupported driver %q", c.DBDriver)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return c, fmt.Errorf("TUTOR_LOG_FORMAT: want text or json, got %q", c.LogFormat)
	}
	return c, nil
}

// RequireSecret fails when no JWT secret is configured. Only the HTTP
// server needs one.
func (c Config) RequireSecret() error {
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("TUTOR_JWT_SECRET must be set to at least 16 characters")
	}
	return nil
}

// Logger builds the structured logger described by c.
func (c Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func defaultLocalUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "reader"
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
