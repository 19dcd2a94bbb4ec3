package results

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/achievements"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/quiz"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/router"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/screen"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/screen/screentest"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/tutor"
)

func testOutcome() *tutor.QuizOutcome {
	return &tutor.QuizOutcome{
		SessionID:      "s-1",
		Score:          100,
		CorrectCount:   2,
		TotalQuestions: 2,
		Answers: []quiz.AnswerRecord{
			{QuestionIndex: 0, QuestionText: "What was Hoot looking for?", ChosenIndex: 1, ChosenText: "The moon", CorrectIndex: 1, CorrectText: "The moon", IsCorrect: true, Points: 1},
			{QuestionIndex: 1, QuestionText: "Who helped Hoot?", ChosenIndex: 0, ChosenText: "The fox", CorrectIndex: 0, CorrectText: "The fox", IsCorrect: true, Points: 1},
		},
		Feedback:            "You remembered every detail.",
		AchievementUnlocked: achievements.PerfectScore,
		TotalPoints:         100,
	}
}

func TestResultsScreen_Title(t *testing.T) {
	s := New(screen.Env{}, screentest.Owl(), testOutcome())
	if s.Title() != "Results" {
		t.Errorf("Title = %q, want %q", s.Title(), "Results")
	}
}

func TestResultsScreen_Display(t *testing.T) {
	s := New(screen.Env{}, screentest.Owl(), testOutcome())
	view := s.View(100, 30)
	for _, want := range []string{"Score: 100%", "You remembered every detail.", "Perfect Score", "100 points in total"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestResultsScreen_NoAchievement(t *testing.T) {
	out := testOutcome()
	out.AchievementUnlocked = ""
	view := New(screen.Env{}, screentest.Owl(), out).View(100, 30)
	if strings.Contains(view, "Achievement unlocked") {
		t.Error("no achievement line expected")
	}
}

func TestResultsScreen_EnterGoesHome(t *testing.T) {
	s := New(screen.Env{}, screentest.Owl(), testOutcome())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("expected PopToRootMsg")
	}
}

func TestResultsScreen_KeyHints(t *testing.T) {
	s := New(screen.Env{}, screentest.Owl(), testOutcome())
	if len(s.KeyHints()) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(s.KeyHints()))
	}
}
