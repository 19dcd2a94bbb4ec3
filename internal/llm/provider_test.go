package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider_FIFO(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"summary":"one"}`), Usage: Usage{InputTokens: 12, OutputTokens: 4, TotalTokens: 16}},
		MockResponse{Content: json.RawMessage(`{"summary":"two"}`)},
	)

	first, err := mock.Generate(context.Background(), Prompt("sys", "first", 64))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(first.Content) != `{"summary":"one"}` || first.Usage.InputTokens != 12 {
		t.Fatalf("first response = %s %+v", first.Content, first.Usage)
	}
	second, err := mock.Generate(context.Background(), Prompt("sys", "second", 64))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(second.Content) != `{"summary":"two"}` {
		t.Fatalf("second response = %s", second.Content)
	}
	if mock.CallCount() != 2 || mock.Calls[1].Messages[0].Content != "second" {
		t.Fatalf("calls not recorded: %+v", mock.Calls)
	}
}

func TestMockProvider_EmptyQueue(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T", err)
	}
}

func TestMockProvider_Fallback(t *testing.T) {
	mock := NewMockProvider()
	mock.Fallback = func(req Request) MockResponse {
		return MockResponse{Content: json.RawMessage(`{"summary":"fallback"}`)}
	}
	resp, err := mock.Generate(context.Background(), Request{})
	if err != nil || string(resp.Content) != `{"summary":"fallback"}` {
		t.Fatalf("fallback = %v, %v", resp, err)
	}
}

func TestMockProvider_ValidatesSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"wrong":1}`)})
	req := Prompt("", "x", 10)
	req.Schema = testSchema()

	_, err := mock.Generate(context.Background(), req)
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestMockProvider_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	if _, err := mock.Generate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestResponseDecode(t *testing.T) {
	var out struct {
		Summary string `json:"summary"`
	}
	resp := &Response{Content: json.RawMessage(`{"summary":"well read"}`)}
	if err := resp.Decode(&out); err != nil || out.Summary != "well read" {
		t.Fatalf("decode = %+v, %v", out, err)
	}

	var empty *Response
	var inv *ErrInvalidResponse
	if err := empty.Decode(&out); !errors.As(err, &inv) {
		t.Fatalf("nil response err = %v", err)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != PurposeUnknown {
		t.Fatalf("expected %q, got %q", PurposeUnknown, p)
	}
	ctx = WithPurpose(ctx, PurposeFeedback)
	if p := PurposeFrom(ctx); p != PurposeFeedback {
		t.Fatalf("expected %q, got %q", PurposeFeedback, p)
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	if c == nil {
		t.Fatal("expected pricing for gpt-4o-mini")
	}
	if got := c.Cost(1_000_000, 0); got != 0.15 {
		t.Errorf("input cost = %v, want 0.15", got)
	}
	if LookupCost("made-up-model") != nil {
		t.Error("unknown model should have no pricing")
	}
}
