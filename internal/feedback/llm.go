package feedback

import (
	"context"
	"fmt"
	"strings"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/llm"
)

const systemPrompt = `You are a warm reading coach for children aged 6 to 12.
Given a finished story quiz, write short, specific encouragement.
Praise effort first. Mention at most one question the reader missed and
gently restate its correct answer. Never use sarcasm or grades like "F".
Keep the summary under 60 words and each tip under 20 words.`

var feedbackSchema = &llm.Schema{
	Name:        "quiz-feedback",
	Description: "Encouraging feedback after a story quiz",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "Two or three encouraging sentences",
			},
			"tips": map[string]any{
				"type":        "array",
				"description": "Up to two short reading tips",
				"items":       map[string]any{"type": "string"},
			},
		},
		"required": []any{"summary", "tips"},
	},
}

type llmOutput struct {
	Summary string   `json:"summary"`
	Tips    []string `json:"tips"`
}

// LLM writes feedback with a language model.
type LLM struct {
	provider  llm.Provider
	maxTokens int
}

func NewLLM(p llm.Provider) *LLM {
	return &LLM{provider: p, maxTokens: 400}
}

func (g *LLM) Generate(ctx context.Context, in Input) (string, error) {
	req := llm.Prompt(systemPrompt, buildPrompt(in), g.maxTokens)
	req.Schema = feedbackSchema
	req.Temperature = 0.7

	resp, err := g.provider.Generate(llm.WithPurpose(ctx, llm.PurposeFeedback), req)
	if err != nil {
		return "", fmt.Errorf("generate feedback: %w", err)
	}

	var out llmOutput
	if err := resp.Decode(&out); err != nil {
		return "", err
	}
	out.Summary = strings.TrimSpace(out.Summary)
	if out.Summary == "" {
		return "", fmt.Errorf("model returned an empty summary")
	}

	var b strings.Builder
	b.WriteString(out.Summary)
	for i, tip := range out.Tips {
		if i == 2 {
			break
		}
		if tip = strings.TrimSpace(tip); tip != "" {
			b.WriteString("\n- ")
			b.WriteString(tip)
		}
	}
	return b.String(), nil
}

func buildPrompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Story: %s\n", in.StoryTitle)
	if in.Category != "" {
		fmt.Fprintf(&b, "Theme: %s\n", strings.ReplaceAll(in.Category, "_", " "))
	}
	fmt.Fprintf(&b, "Score: %.0f%% (%d of %d correct)\n\n",
		in.Result.Percentage, in.Result.CorrectCount, in.Result.TotalQuestions)
	for _, r := range in.Result.Records {
		verdict := "correct"
		if !r.IsCorrect {
			verdict = "missed"
		}
		fmt.Fprintf(&b, "Q%d (%s): %s\n  chose: %s\n  answer: %s\n",
			r.QuestionIndex+1, verdict, r.QuestionText, r.ChosenText, r.CorrectText)
	}
	return b.String()
}
