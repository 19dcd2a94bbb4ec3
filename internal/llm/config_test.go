package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TUTOR_LLM_PROVIDER", "TUTOR_LLM_TIMEOUT", "TUTOR_LLM_MAX_ATTEMPTS",
		"TUTOR_ANTHROPIC_API_KEY", "TUTOR_ANTHROPIC_MODEL",
		"TUTOR_OPENAI_API_KEY", "TUTOR_OPENAI_MODEL", "TUTOR_OPENAI_BASE_URL",
		"TUTOR_GEMINI_API_KEY", "TUTOR_GEMINI_MODEL",
		"TUTOR_OPENROUTER_API_KEY", "TUTOR_OPENROUTER_MODEL",
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", Config{Provider: ProviderAnthropic}, true},
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "k"}}, false},
		{"openai without key", Config{Provider: ProviderOpenAI}, true},
		{"gemini with key", Config{Provider: ProviderGemini, Gemini: GeminiConfig{APIKey: "k"}}, false},
		{"openrouter without key", Config{Provider: ProviderOpenRouter}, true},
		{"mock", Config{Provider: ProviderMock}, false},
		{"none", Config{Provider: ProviderNone}, false},
		{"unknown", Config{Provider: "parrot"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigFromEnv_DefaultsDisabled(t *testing.T) {
	clearLLMEnv(t)
	cfg := ConfigFromEnv()
	if cfg.Enabled() {
		t.Fatalf("provider %q should be disabled by default", cfg.Provider)
	}
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("TUTOR_LLM_PROVIDER", "openai")
	t.Setenv("TUTOR_OPENAI_API_KEY", "sk-test")
	t.Setenv("TUTOR_OPENAI_MODEL", "gpt-4.1-nano")
	t.Setenv("TUTOR_LLM_TIMEOUT", "3s")
	t.Setenv("TUTOR_LLM_MAX_ATTEMPTS", "5")

	cfg := ConfigFromEnv()
	if cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "sk-test" || cfg.OpenAI.Model != "gpt-4.1-nano" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Timeout != 3*time.Second || cfg.Retry.MaxAttempts != 5 {
		t.Fatalf("timeout=%v attempts=%d", cfg.Timeout, cfg.Retry.MaxAttempts)
	}
}

func TestConfigFromEnv_Discovers(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg := ConfigFromEnv()
	if cfg.Provider != ProviderGemini || cfg.Gemini.APIKey != "g-key" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestNewProvider_Disabled(t *testing.T) {
	_, err := NewProvider(context.Background(), DefaultConfig(), nil)
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("err = %v, want ErrDisabled", err)
	}
}

func TestNewProvider_WrapsMock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	p, err := NewProvider(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*RetryProvider); !ok {
		t.Fatalf("expected retry wrapper, got %T", p)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("model = %q", p.ModelID())
	}
}

func TestNewProvider_MissingKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderAnthropic
	if _, err := NewProvider(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error without API key")
	}
}
