package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/errs"
)

func validStory() Story {
	return Story{
		ID:       "s1",
		Title:    "Test",
		Category: "wisdom",
		Scenes:   []string{"one", "two", "three"},
		Quiz: []Question{
			{Text: "Q1", Options: []string{"a", "b"}, Correct: 1},
		},
		Active: true,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Story)
		wantErr bool
	}{
		{"valid", func(*Story) {}, false},
		{"two scenes", func(s *Story) { s.Scenes = s.Scenes[:2] }, true},
		{"four scenes", func(s *Story) { s.Scenes = append(s.Scenes, "four") }, true},
		{"correct out of range", func(s *Story) { s.Quiz[0].Correct = 2 }, true},
		{"negative correct", func(s *Story) { s.Quiz[0].Correct = -1 }, true},
		{"no options", func(s *Story) { s.Quiz[0].Options = nil }, true},
		{"empty id", func(s *Story) { s.ID = " " }, true},
		{"empty quiz", func(s *Story) { s.Quiz = nil }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validStory()
			tt.mutate(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var ve *errs.ValidationError
				if !errors.As(err, &ve) {
					t.Errorf("expected *errs.ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestBuiltin(t *testing.T) {
	stories, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin() error: %v", err)
	}
	if len(stories) != 3 {
		t.Fatalf("expected 3 built-in stories, got %d", len(stories))
	}

	categories := map[string]bool{}
	for _, s := range stories {
		if !s.Active {
			t.Errorf("story %s should be active", s.ID)
		}
		if len(s.Quiz) != 5 {
			t.Errorf("story %s has %d questions, want 5", s.ID, len(s.Quiz))
		}
		categories[s.Category] = true
	}
	for _, c := range []string{"wisdom", "social_skills", "patience"} {
		if !categories[c] {
			t.Errorf("missing category %q", c)
		}
	}
}

func TestParseRejectsDuplicates(t *testing.T) {
	data := []byte(`[
		{"id":"a","scenes":["1","2","3"],"quiz":[]},
		{"id":"a","scenes":["1","2","3"],"quiz":[]}
	]`)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestStaticCatalog(t *testing.T) {
	inactive := validStory()
	inactive.ID = "hidden"
	inactive.Active = false

	c := NewStatic([]Story{validStory(), inactive})
	ctx := context.Background()

	s, err := c.GetActiveStory(ctx, "s1")
	if err != nil {
		t.Fatalf("GetActiveStory: %v", err)
	}
	if s.Title != "Test" {
		t.Errorf("title = %q", s.Title)
	}

	if _, err := c.GetActiveStory(ctx, "hidden"); !errs.IsNotFound(err) {
		t.Errorf("inactive story: expected not found, got %v", err)
	}
	if _, err := c.GetActiveStory(ctx, "missing"); !errs.IsNotFound(err) {
		t.Errorf("missing story: expected not found, got %v", err)
	}

	list, _ := c.ListActiveStories(ctx)
	if len(list) != 1 {
		t.Errorf("expected 1 active story, got %d", len(list))
	}
}

func TestCorrectText(t *testing.T) {
	q := Question{Options: []string{"x", "y"}, Correct: 1}
	if q.CorrectText() != "y" {
		t.Errorf("CorrectText() = %q", q.CorrectText())
	}
	q.Correct = 5
	if q.CorrectText() != "" {
		t.Errorf("out-of-range CorrectText() = %q", q.CorrectText())
	}
}
