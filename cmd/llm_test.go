package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/store"
)

func event(purpose, model string, in, out int, ms int64) store.LLMEventRecord {
	return store.LLMEventRecord{LLMRequestEventData: store.LLMRequestEventData{
		Purpose: purpose, Model: model, InputTokens: in, OutputTokens: out, LatencyMs: ms, Success: true,
	}}
}

func TestGroupUsage(t *testing.T) {
	events := []store.LLMEventRecord{
		event("quiz-feedback", "m1", 100, 20, 300),
		event("quiz-feedback", "m2", 50, 10, 100),
		event("other", "m1", 10, 5, 50),
	}

	got := groupUsage(events, func(e store.LLMEventRecord) string { return e.Purpose })
	require.Len(t, got, 2)
	assert.Equal(t, "quiz-feedback", got[0].Key)
	assert.Equal(t, 2, got[0].Calls)
	assert.Equal(t, 150, got[0].InputTokens)
	assert.Equal(t, 30, got[0].OutputTokens)
	assert.Equal(t, int64(200), got[0].AvgLatencyMs())
	assert.Equal(t, "other", got[1].Key)
}

func TestPrintUsageUnknownModel(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf, []store.LLMEventRecord{event("quiz-feedback", "no-such-model", 1, 1, 1)})
	assert.Contains(t, buf.String(), "TOTAL (partial)")
	assert.Contains(t, buf.String(), "Pricing unavailable for: no-such-model")
}

func TestPrintUsageEmpty(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf, nil)
	assert.Equal(t, "No LLM usage recorded yet.\n", buf.String())
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0050", formatCost(0.005))
	assert.Equal(t, "$1.25", formatCost(1.25))
}
