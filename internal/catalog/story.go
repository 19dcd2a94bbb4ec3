package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/errs"
)

// SceneCount is the fixed number of scenes in every story.
const SceneCount = 3

// Difficulty labels how demanding a story is for its reader.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Question is one multiple-choice quiz item.
type Question struct {
	Text    string   `json:"question"`
	Options []string `json:"options"`
	Correct int      `json:"correct"`
}

// CorrectText returns the text of the correct option.
func (q Question) CorrectText() string {
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		return ""
	}
	return q.Options[q.Correct]
}

// Story is an immutable story definition: three ordered scenes followed by
// an ordered quiz.
type Story struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
	Category    string     `json:"category"`
	Scenes      []string   `json:"scenes"`
	Quiz        []Question `json:"quiz"`
	Active      bool       `json:"-"`
}

// Validate checks the structural invariants of a story definition.
func (s *Story) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return &errs.ValidationError{Field: "story.id", Reason: "must not be empty"}
	}
	if len(s.Scenes) != SceneCount {
		return &errs.ValidationError{
			Field:  "story.scenes",
			Reason: fmt.Sprintf("story %s has %d scenes, want %d", s.ID, len(s.Scenes), SceneCount),
		}
	}
	for i, q := range s.Quiz {
		if len(q.Options) == 0 {
			return &errs.ValidationError{
				Field:  fmt.Sprintf("story.quiz[%d].options", i),
				Reason: "question has no options",
			}
		}
		if q.Correct < 0 || q.Correct >= len(q.Options) {
			return &errs.ValidationError{
				Field:  fmt.Sprintf("story.quiz[%d].correct", i),
				Reason: fmt.Sprintf("index %d outside %d options", q.Correct, len(q.Options)),
			}
		}
	}
	return nil
}

// Catalog provides read access to the active story definitions.
type Catalog interface {
	// GetActiveStory returns the story with the given ID, or an
	// *errs.NotFoundError when it is unknown or inactive.
	GetActiveStory(ctx context.Context, id string) (*Story, error)

	// ListActiveStories returns every active story ordered by title.
	ListActiveStories(ctx context.Context) ([]Story, error)
}
