// Package quiz grades multiple-choice quiz submissions.
package quiz

import (
	"fmt"
	"strconv"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/catalog"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/errs"
)

// NoAnswer is recorded as the chosen text when a question was skipped or
// answered with an index outside its options.
const NoAnswer = "No answer"

// Answers maps question index to chosen option index.
type Answers map[int]int

// AnswerRecord is the graded outcome for one question.
type AnswerRecord struct {
	QuestionIndex int    `json:"question_index"`
	QuestionText  string `json:"question_text"`
	ChosenIndex   int    `json:"chosen_index"` // -1 when unanswered
	ChosenText    string `json:"chosen_text"`
	CorrectIndex  int    `json:"correct_index"`
	CorrectText   string `json:"correct_text"`
	IsCorrect     bool   `json:"is_correct"`
	Points        int    `json:"points"`
}

// Result is the outcome of grading a full submission.
type Result struct {
	// Percentage is correct/total*100, unrounded.
	Percentage     float64        `json:"score"`
	CorrectCount   int            `json:"correct_count"`
	TotalQuestions int            `json:"total_questions"`
	Records        []AnswerRecord `json:"answers"`
}

// Score grades answers against questions. It is pure: the same inputs
// always produce the same result. Answers for indices outside the quiz
// are ignored.
func Score(questions []catalog.Question, answers Answers) Result {
	res := Result{
		TotalQuestions: len(questions),
		Records:        make([]AnswerRecord, len(questions)),
	}

	for i, q := range questions {
		rec := AnswerRecord{
			QuestionIndex: i,
			QuestionText:  q.Text,
			ChosenIndex:   -1,
			ChosenText:    NoAnswer,
			CorrectIndex:  q.Correct,
			CorrectText:   q.CorrectText(),
		}
		if chosen, ok := answers[i]; ok && chosen >= 0 && chosen < len(q.Options) {
			rec.ChosenIndex = chosen
			rec.ChosenText = q.Options[chosen]
			if chosen == q.Correct {
				rec.IsCorrect = true
				rec.Points = 1
				res.CorrectCount++
			}
		}
		res.Records[i] = rec
	}

	if res.TotalQuestions > 0 {
		res.Percentage = float64(res.CorrectCount) / float64(res.TotalQuestions) * 100
	}
	return res
}

// ParseAnswers converts a wire-format answer map (string keys, as JSON
// objects require) into Answers. Keys must be non-negative integers in
// canonical form, so "00" or "+0" never shadow "0".
func ParseAnswers(raw map[string]int) (Answers, error) {
	out := make(Answers, len(raw))
	for k, v := range raw {
		idx, err := strconv.Atoi(k)
		if err != nil {
			return nil, &errs.ValidationError{
				Field:  "answers",
				Reason: fmt.Sprintf("question key %q is not an integer", k),
			}
		}
		if idx < 0 {
			return nil, &errs.ValidationError{
				Field:  "answers",
				Reason: fmt.Sprintf("question key %d is negative", idx),
			}
		}
		if strconv.Itoa(idx) != k {
			return nil, &errs.ValidationError{
				Field:  "answers",
				Reason: fmt.Sprintf("question key %q is not in canonical form", k),
			}
		}
		out[idx] = v
	}
	return out, nil
}
