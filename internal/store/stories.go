package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/catalog"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/errs"
)

var storyColumns = []string{
	"id", "title", "description", "difficulty", "category",
	"scenes", "quiz", "is_active",
}

// SeedStories upserts the given story definitions. Existing rows keep their
// created_at.
func (q *Queries) SeedStories(ctx context.Context, stories []catalog.Story) error {
	if len(stories) == 0 {
		return nil
	}
	now := time.Now().Unix()
	ins := q.b.Insert(storiesTable.Name).
		Columns(append(storyColumns, "created_at")...)
	for _, s := range stories {
		scenes, err := marshalText(s.Scenes)
		if err != nil {
			return fmt.Errorf("encode scenes of %s: %w", s.ID, err)
		}
		quiz, err := marshalText(s.Quiz)
		if err != nil {
			return fmt.Errorf("encode quiz of %s: %w", s.ID, err)
		}
		ins.Values(s.ID, s.Title, s.Description, string(s.Difficulty), s.Category, scenes, quiz, s.Active, now)
	}
	ins.OnConflict(
		entsql.ConflictColumns("id"),
		entsql.ResolveWith(func(u *entsql.UpdateSet) {
			for _, c := range storyColumns[1:] {
				u.SetExcluded(c)
			}
		}),
	)
	if _, err := q.exec(ctx, ins); err != nil {
		return fmt.Errorf("seed stories: %w", err)
	}
	return nil
}

func scanStory(r rowScanner) (*catalog.Story, error) {
	var (
		s            catalog.Story
		difficulty   string
		scenes, quiz string
	)
	if err := r.Scan(&s.ID, &s.Title, &s.Description, &difficulty, &s.Category, &scenes, &quiz, &s.Active); err != nil {
		return nil, err
	}
	s.Difficulty = catalog.Difficulty(difficulty)
	if err := json.Unmarshal([]byte(scenes), &s.Scenes); err != nil {
		return nil, fmt.Errorf("decode scenes of %s: %w", s.ID, err)
	}
	if err := json.Unmarshal([]byte(quiz), &s.Quiz); err != nil {
		return nil, fmt.Errorf("decode quiz of %s: %w", s.ID, err)
	}
	return &s, nil
}

func (q *Queries) GetActiveStory(ctx context.Context, id string) (*catalog.Story, error) {
	sel := q.b.Select(storyColumns...).
		From(q.b.Table(storiesTable.Name)).
		Where(entsql.And(
			entsql.EQ("id", id),
			entsql.EQ("is_active", true),
		))

	s, err := scanStory(q.queryRow(ctx, sel))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &errs.NotFoundError{Kind: "story", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get story: %w", err)
	}
	return s, nil
}

func (q *Queries) ListActiveStories(ctx context.Context) ([]catalog.Story, error) {
	sel := q.b.Select(storyColumns...).
		From(q.b.Table(storiesTable.Name)).
		Where(entsql.EQ("is_active", true)).
		OrderBy(entsql.Asc("title"), entsql.Asc("id"))

	rows, err := q.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	defer rows.Close()

	var out []catalog.Story
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// SetStoryActive toggles whether a story is offered to readers.
func (q *Queries) SetStoryActive(ctx context.Context, id string, active bool) error {
	upd := q.b.Update(storiesTable.Name).
		Set("is_active", active).
		Where(entsql.EQ("id", id))
	res, err := q.exec(ctx, upd)
	if err != nil {
		return fmt.Errorf("set story active: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &errs.NotFoundError{Kind: "story", ID: id}
	}
	return nil
}
