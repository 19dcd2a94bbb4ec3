// Package feedback turns a scored quiz into encouraging text for the
// reader. Generators are interchangeable; Fallback wraps any of them so
// that a failure never reaches the caller.
package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/quiz"
)

// DefaultMessage is used when every generator fails.
const DefaultMessage = "Great effort finishing the story! Keep reading to grow your skills."

// Input is what a generator sees about one submission.
type Input struct {
	StoryTitle string
	Category   string
	Result     quiz.Result
}

// Generator produces feedback text for a quiz result.
type Generator interface {
	Generate(ctx context.Context, in Input) (string, error)
}

// Func adapts a plain function to Generator.
type Func func(ctx context.Context, in Input) (string, error)

func (f Func) Generate(ctx context.Context, in Input) (string, error) { return f(ctx, in) }

// Band is a coarse grade for a percentage score.
type Band int

const (
	BandPractice Band = iota
	BandGood
	BandExcellent
)

// BandFor maps a percentage onto a band: 80 and above is excellent, 60 and
// above is good.
func BandFor(score float64) Band {
	switch {
	case score >= 80:
		return BandExcellent
	case score >= 60:
		return BandGood
	default:
		return BandPractice
	}
}

// Headline is the one-line message for a band.
func (b Band) Headline() string {
	switch b {
	case BandExcellent:
		return "Excellent! You understood the story very well!"
	case BandGood:
		return "Good job! You got most of it right!"
	default:
		return "Keep practicing! Try reading the story again!"
	}
}

// AnswerLine is the per-question verdict shown next to each answer.
func AnswerLine(r quiz.AnswerRecord) string {
	if r.IsCorrect {
		return "Excellent! You chose the correct answer."
	}
	return fmt.Sprintf("Not quite right. The correct answer is: %s.", strings.TrimSuffix(r.CorrectText, "."))
}

// Template builds feedback from fixed phrases.
type Template struct{}

func (Template) Generate(_ context.Context, in Input) (string, error) {
	res := in.Result
	var b strings.Builder
	b.WriteString(BandFor(res.Percentage).Headline())
	fmt.Fprintf(&b, " You answered %d of %d questions correctly", res.CorrectCount, res.TotalQuestions)
	if in.StoryTitle != "" {
		fmt.Fprintf(&b, " about %q", in.StoryTitle)
	}
	b.WriteString(".")

	for _, r := range res.Records {
		if !r.IsCorrect {
			fmt.Fprintf(&b, " Remember: %q is answered by %q.", r.QuestionText, r.CorrectText)
			break
		}
	}
	return b.String(), nil
}

// Fallback runs Primary with a deadline and degrades to Secondary, then to
// DefaultMessage. It never returns an error.
type Fallback struct {
	Primary   Generator
	Secondary Generator
	Timeout   time.Duration
	Log       *slog.Logger
}

// NewFallback wraps primary with the template generator. A nil primary
// means templates only.
func NewFallback(primary Generator, timeout time.Duration, log *slog.Logger) *Fallback {
	if log == nil {
		log = slog.Default()
	}
	return &Fallback{Primary: primary, Secondary: Template{}, Timeout: timeout, Log: log}
}

func (f *Fallback) Generate(ctx context.Context, in Input) (string, error) {
	stages := []struct {
		name string
		gen  Generator
	}{
		{"primary", f.Primary},
		{"secondary", f.Secondary},
	}
	for _, st := range stages {
		g := st.gen
		if g == nil {
			continue
		}
		text, err := f.try(ctx, g, in)
		if err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
		if err == nil {
			err = fmt.Errorf("empty feedback")
		}
		f.Log.WarnContext(ctx, "feedback generator failed",
			"generator", st.name,
			"story", in.StoryTitle,
			"err", err,
		)
	}
	return DefaultMessage, nil
}

func (f *Fallback) try(ctx context.Context, g Generator, in Input) (text string, err error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("feedback generator panicked: %v", r)
		}
	}()
	return g.Generate(ctx, in)
}
