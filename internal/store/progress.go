package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/achievements"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/activity"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/progress"
)

var progressColumns = []string{
	"user_id",
	"total_stories_completed", "total_scenes_read", "total_sessions",
	"average_quiz_score", "total_reading_time",
	"current_streak", "longest_streak",
	"favorite_categories", "category_scores", "achievements",
	"total_points", "last_activity_at",
}

// progressSelect reads one user's row. With lock set, the row stays locked
// until the transaction ends on backends that support row locks; SQLite
// serializes writers on its single connection instead.
func progressSelect(b *entsql.DialectBuilder, userID string, lock bool) *entsql.Selector {
	sel := b.Select(progressColumns...).
		From(b.Table(userProgressTable.Name)).
		Where(entsql.EQ("user_id", userID))
	if lock && sel.Dialect() != dialect.SQLite {
		sel.ForUpdate()
	}
	return sel
}

func (q *Queries) GetProgress(ctx context.Context, userID string) (*progress.UserProgress, error) {
	return q.scanProgress(ctx, progressSelect(q.b, userID, false), userID)
}

// GetProgressForUpdate creates the user's row when missing and returns it
// locked, so concurrent writers apply their changes one after another.
func (q *Queries) GetProgressForUpdate(ctx context.Context, userID string) (*progress.UserProgress, error) {
	ins, err := progressInsert(q.b, progress.New(userID))
	if err != nil {
		return nil, err
	}
	ins.OnConflict(entsql.ConflictColumns("user_id"), entsql.DoNothing())
	if _, err := q.exec(ctx, ins); err != nil {
		return nil, fmt.Errorf("create progress: %w", err)
	}
	return q.scanProgress(ctx, progressSelect(q.b, userID, true), userID)
}

func (q *Queries) scanProgress(ctx context.Context, sel *entsql.Selector, userID string) (*progress.UserProgress, error) {
	var (
		p                      progress.UserProgress
		favs, scores, achieved string
		lastActivity           sql.NullInt64
	)
	err := q.queryRow(ctx, sel).Scan(
		&p.UserID,
		&p.TotalStoriesCompleted, &p.TotalScenesRead, &p.TotalSessions,
		&p.AverageQuizScore, &p.TotalReadingTime,
		&p.CurrentStreak, &p.LongestStreak,
		&favs, &scores, &achieved,
		&p.TotalPoints, &lastActivity,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return progress.New(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	p.FavoriteCategories = []string{}
	p.CategoryScores = map[string]float64{}
	p.Achievements = achievements.Set{}
	if err := json.Unmarshal([]byte(favs), &p.FavoriteCategories); err != nil {
		return nil, fmt.Errorf("decode favorite categories: %w", err)
	}
	if err := json.Unmarshal([]byte(scores), &p.CategoryScores); err != nil {
		return nil, fmt.Errorf("decode category scores: %w", err)
	}
	if err := json.Unmarshal([]byte(achieved), &p.Achievements); err != nil {
		return nil, fmt.Errorf("decode achievements: %w", err)
	}
	p.LastActivityDate = timeFromNull(lastActivity)
	return &p, nil
}

func marshalText(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (q *Queries) SaveProgress(ctx context.Context, p *progress.UserProgress) error {
	ins, err := progressInsert(q.b, p)
	if err != nil {
		return err
	}
	ins.OnConflict(
		entsql.ConflictColumns("user_id"),
		entsql.ResolveWithNewValues(),
	)
	if _, err := q.exec(ctx, ins); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func progressInsert(b *entsql.DialectBuilder, p *progress.UserProgress) (*entsql.InsertBuilder, error) {
	favs := p.FavoriteCategories
	if favs == nil {
		favs = []string{}
	}
	scores := p.CategoryScores
	if scores == nil {
		scores = map[string]float64{}
	}
	achieved := p.Achievements
	if achieved == nil {
		achieved = achievements.Set{}
	}

	favsJSON, err := marshalText(favs)
	if err != nil {
		return nil, fmt.Errorf("encode favorite categories: %w", err)
	}
	scoresJSON, err := marshalText(scores)
	if err != nil {
		return nil, fmt.Errorf("encode category scores: %w", err)
	}
	achievedJSON, err := marshalText(achieved)
	if err != nil {
		return nil, fmt.Errorf("encode achievements: %w", err)
	}

	return b.Insert(userProgressTable.Name).
		Columns(progressColumns...).
		Values(
			p.UserID,
			p.TotalStoriesCompleted, p.TotalScenesRead, p.TotalSessions,
			p.AverageQuizScore, p.TotalReadingTime,
			p.CurrentStreak, p.LongestStreak,
			favsJSON, scoresJSON, achievedJSON,
			p.TotalPoints, unixOrNil(p.LastActivityDate),
		), nil
}

func (q *Queries) AddActivity(ctx context.Context, delta activity.DailyActivity) error {
	ins := q.b.Insert(dailyActivitiesTable.Name).
		Columns("user_id", "day", "stories_completed", "scenes_read", "quiz_attempts", "seconds_spent").
		Values(delta.UserID, delta.Date, delta.StoriesCompleted, delta.ScenesRead, delta.QuizAttempts, delta.SecondsSpent).
		OnConflict(
			entsql.ConflictColumns("user_id", "day"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.Add("stories_completed", delta.StoriesCompleted)
				u.Add("scenes_read", delta.ScenesRead)
				u.Add("quiz_attempts", delta.QuizAttempts)
				u.Add("seconds_spent", delta.SecondsSpent)
			}),
		)
	if _, err := q.exec(ctx, ins); err != nil {
		return fmt.Errorf("add daily activity: %w", err)
	}
	return nil
}

func (q *Queries) ListActivity(ctx context.Context, userID, fromDay string) ([]activity.DailyActivity, error) {
	sel := q.b.Select("day", "stories_completed", "scenes_read", "quiz_attempts", "seconds_spent").
		From(q.b.Table(dailyActivitiesTable.Name)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.GTE("day", fromDay),
		)).
		OrderBy(entsql.Desc("day"))

	rows, err := q.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("list daily activity: %w", err)
	}
	defer rows.Close()

	var out []activity.DailyActivity
	for rows.Next() {
		d := activity.DailyActivity{UserID: userID}
		if err := rows.Scan(&d.Date, &d.StoriesCompleted, &d.ScenesRead, &d.QuizAttempts, &d.SecondsSpent); err != nil {
			return nil, fmt.Errorf("scan daily activity: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
