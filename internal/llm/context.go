package llm

import "context"

type purposeKey struct{}

// Purposes used by the tutor.
const (
	PurposeFeedback = "quiz-feedback"
	PurposeChat     = "tutor-chat"
	PurposeUnknown  = "unknown"
)

// WithPurpose tags ctx with a label that ends up in the event log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the purpose label on ctx, or PurposeUnknown.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return PurposeUnknown
}
