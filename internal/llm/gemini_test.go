package llm

import (
	"errors"
	"testing"

	"google.golang.org/genai"
)

func TestBuildGeminiSchema(t *testing.T) {
	schema := buildGeminiSchema(testSchema().Definition)

	if schema.Type != "OBJECT" {
		t.Fatalf("type = %s, want OBJECT", schema.Type)
	}
	if len(schema.Properties) != 3 {
		t.Fatalf("got %d properties, want 3", len(schema.Properties))
	}
	if schema.Properties["summary"].Type != "STRING" {
		t.Errorf("summary type = %s", schema.Properties["summary"].Type)
	}
	if got := schema.Properties["tone"].Enum; len(got) != 2 || got[0] != "cheer" {
		t.Errorf("tone enum = %v", got)
	}
	if tips := schema.Properties["tips"]; tips.Type != "ARRAY" || tips.Items.Type != "STRING" {
		t.Errorf("tips = %+v", tips)
	}
	if len(schema.Required) != 1 || schema.Required[0] != "summary" {
		t.Errorf("required = %v", schema.Required)
	}
}

func TestGeminiRequestConfig(t *testing.T) {
	req := Prompt("be kind", "hello", 250)
	req.Temperature = 0.7
	cfg := geminiRequestConfig(req)

	if cfg.MaxOutputTokens != 250 || cfg.Temperature == nil || *cfg.Temperature != float32(0.7) {
		t.Errorf("generation settings = %d / %v", cfg.MaxOutputTokens, cfg.Temperature)
	}
	if len(cfg.SafetySettings) != 4 {
		t.Fatalf("got %d safety settings, want 4", len(cfg.SafetySettings))
	}
	for _, s := range cfg.SafetySettings {
		if s.Threshold != genai.HarmBlockThresholdBlockLowAndAbove {
			t.Errorf("%s threshold = %s", s.Category, s.Threshold)
		}
	}
	if cfg.ResponseSchema != nil || cfg.ResponseMIMEType != "" {
		t.Error("plain prompt should not request JSON")
	}
}

func TestGeminiContentsRoles(t *testing.T) {
	got := geminiContents([]Message{
		{Role: RoleUser, Content: "who is Hoot?"},
		{Role: RoleAssistant, Content: "an owl"},
	})
	if got[0].Role != "user" || got[1].Role != "model" {
		t.Errorf("roles = %s, %s", got[0].Role, got[1].Role)
	}
	if got[1].Parts[0].Text != "an owl" {
		t.Errorf("text = %q", got[1].Parts[0].Text)
	}
}

func TestGeminiOutcome(t *testing.T) {
	textResult := func(reason genai.FinishReason) *genai.GenerateContentResponse {
		return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
			Content:      genai.NewContentFromText("Hoot is brave.", genai.RoleModel),
			FinishReason: reason,
		}}}
	}

	text, stop, err := geminiOutcome(textResult(genai.FinishReasonStop))
	if err != nil || text != "Hoot is brave." || stop != "end" {
		t.Errorf("stop: %q %q %v", text, stop, err)
	}
	if _, stop, _ := geminiOutcome(textResult(genai.FinishReasonMaxTokens)); stop != "max_tokens" {
		t.Errorf("max tokens stop = %q", stop)
	}

	var blocked *ErrContentBlocked
	if _, _, err := geminiOutcome(textResult(genai.FinishReasonSafety)); !errors.As(err, &blocked) {
		t.Errorf("safety finish: got %v", err)
	}
	promptBlocked := &genai.GenerateContentResponse{
		PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
	}
	if _, _, err := geminiOutcome(promptBlocked); !errors.As(err, &blocked) {
		t.Errorf("blocked prompt: got %v", err)
	}
	var invalid *ErrInvalidResponse
	if _, _, err := geminiOutcome(&genai.GenerateContentResponse{}); !errors.As(err, &invalid) {
		t.Errorf("no candidates: got %v", err)
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(t.Context(), GeminiConfig{Model: "gemini-flash"}); err == nil {
		t.Fatal("expected error without API key")
	}
}
