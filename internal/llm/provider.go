// Package llm talks to hosted language models. The tutor uses it to write
// post-quiz feedback and to answer chat questions; every call is optional
// and callers degrade to templates when no provider is configured or a
// request fails.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider generates structured output from a prompt.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set the provider requests JSON in that shape and validates it before
	// returning.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the configured model identifier.
	ModelID() string
}

// Request is a single-turn or short multi-turn prompt.
type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64 // 0 leaves the provider default
}

// Prompt builds a one-message request.
func Prompt(system, user string, maxTokens int) Request {
	return Request{
		System:    system,
		Messages:  []Message{{Role: RoleUser, Content: user}},
		MaxTokens: maxTokens,
	}
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema the response must satisfy. Name doubles as
// the cache key for the compiled schema, so keep names unique per shape.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is what a provider returned.
type Response struct {
	// Content is validated JSON when the request carried a Schema and raw
	// model text otherwise.
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Decode unmarshals the response content into v.
func (r *Response) Decode(v any) error {
	if r == nil || len(r.Content) == 0 {
		return &ErrInvalidResponse{Err: fmt.Errorf("empty response")}
	}
	if err := json.Unmarshal(r.Content, v); err != nil {
		return &ErrInvalidResponse{Content: r.Content, Err: err}
	}
	return nil
}
