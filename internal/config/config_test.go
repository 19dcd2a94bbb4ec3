package config

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

var tutorEnv = []string{
	"TUTOR_HTTP_ADDR", "TUTOR_DB_DRIVER", "TUTOR_DB_DSN", "TUTOR_JWT_SECRET",
	"TUTOR_TOKEN_TTL", "TUTOR_CORS_ORIGINS", "TUTOR_STRICT_QUIZ", "TUTOR_TIMEZONE",
	"TUTOR_LOG_LEVEL", "TUTOR_LOG_FORMAT", "TUTOR_LOCAL_USER",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range tutorEnv {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("USER", "ada")

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if c.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", c.HTTPAddr)
	}
	if c.DBDriver != "sqlite" {
		t.Errorf("DBDriver = %q", c.DBDriver)
	}
	if c.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v", c.TokenTTL)
	}
	if c.StrictQuiz {
		t.Error("StrictQuiz should default to false")
	}
	if c.LogLevel != slog.LevelInfo || c.LogFormat != "text" {
		t.Errorf("log = %v/%s", c.LogLevel, c.LogFormat)
	}
	if len(c.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v", c.CORSOrigins)
	}
	if c.LocalUser != "ada" {
		t.Errorf("LocalUser = %q", c.LocalUser)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TUTOR_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("TUTOR_DB_DRIVER", "postgres")
	t.Setenv("TUTOR_DB_DSN", "postgres://db/tutor")
	t.Setenv("TUTOR_TOKEN_TTL", "90m")
	t.Setenv("TUTOR_CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("TUTOR_STRICT_QUIZ", "yes")
	t.Setenv("TUTOR_TIMEZONE", "UTC")
	t.Setenv("TUTOR_LOG_LEVEL", "debug")
	t.Setenv("TUTOR_LOG_FORMAT", "JSON")

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if c.DBDriver != "postgres" || c.DBDSN != "postgres://db/tutor" {
		t.Errorf("db = %s %s", c.DBDriver, c.DBDSN)
	}
	if c.TokenTTL != 90*time.Minute {
		t.Errorf("TokenTTL = %v", c.TokenTTL)
	}
	if got := strings.Join(c.CORSOrigins, "|"); got != "https://a.example|https://b.example" {
		t.Errorf("CORSOrigins = %q", got)
	}
	if !c.StrictQuiz {
		t.Error("StrictQuiz not parsed")
	}
	if c.Location != time.UTC {
		t.Errorf("Location = %v", c.Location)
	}
	if c.LogLevel != slog.LevelDebug || c.LogFormat != "json" {
		t.Errorf("log = %v/%s", c.LogLevel, c.LogFormat)
	}
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"TUTOR_TOKEN_TTL", "forever"},
		{"TUTOR_TIMEZONE", "Mars/Olympus"},
		{"TUTOR_LOG_LEVEL", "loud"},
		{"TUTOR_LOG_FORMAT", "xml"},
		{"TUTOR_DB_DRIVER", "oracle"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := FromEnv(); err == nil || !strings.Contains(err.Error(), tt.key) {
				t.Errorf("err = %v, want mention of %s", err, tt.key)
			}
		})
	}
}

func TestRequireSecret(t *testing.T) {
	if err := (Config{JWTSecret: "short"}).RequireSecret(); err == nil {
		t.Error("short secret accepted")
	}
	if err := (Config{JWTSecret: "0123456789abcdef"}).RequireSecret(); err != nil {
		t.Errorf("valid secret rejected: %v", err)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	c := Config{LogLevel: slog.LevelWarn, LogFormat: "json"}
	log := c.Logger(&buf)
	log.Info("hidden")
	log.Warn("shown", "story", "owl")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info logged at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"story":"owl"`) {
		t.Errorf("unexpected json output: %s", out)
	}
}
