package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/errs"
)

//go:embed stories.json
var builtinJSON []byte

// Builtin returns the stories shipped with the binary. Every story is
// validated and marked active.
func Builtin() ([]Story, error) {
	return Parse(builtinJSON)
}

// Parse decodes a JSON array of stories and validates each one.
func Parse(data []byte) ([]Story, error) {
	var stories []Story
	if err := json.Unmarshal(data, &stories); err != nil {
		return nil, fmt.Errorf("decode stories: %w", err)
	}
	seen := make(map[string]bool, len(stories))
	for i := range stories {
		if err := stories[i].Validate(); err != nil {
			return nil, err
		}
		if seen[stories[i].ID] {
			return nil, fmt.Errorf("duplicate story id %q", stories[i].ID)
		}
		seen[stories[i].ID] = true
		stories[i].Active = true
	}
	return stories, nil
}

// Static is an in-memory Catalog.
type Static struct {
	byID  map[string]Story
	order []string
}

var _ Catalog = (*Static)(nil)

// NewStatic builds a Static catalog from the given stories.
func NewStatic(stories []Story) *Static {
	c := &Static{byID: make(map[string]Story, len(stories))}
	for _, s := range stories {
		c.byID[s.ID] = s
		c.order = append(c.order, s.ID)
	}
	sort.SliceStable(c.order, func(i, j int) bool {
		return c.byID[c.order[i]].Title < c.byID[c.order[j]].Title
	})
	return c
}

func (c *Static) GetActiveStory(_ context.Context, id string) (*Story, error) {
	s, ok := c.byID[id]
	if !ok || !s.Active {
		return nil, &errs.NotFoundError{Kind: "story", ID: id}
	}
	return &s, nil
}

func (c *Static) ListActiveStories(_ context.Context) ([]Story, error) {
	out := make([]Story, 0, len(c.order))
	for _, id := range c.order {
		if s := c.byID[id]; s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}
