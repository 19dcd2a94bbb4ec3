package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/errs"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/quiz"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/session"
)

var sessionColumns = []string{
	"id", "user_id", "story_id", "story_category",
	"current_scene_index", "scenes_completed",
	"quiz_started", "quiz_completed", "quiz_score",
	"total_reading_time", "started_at", "completed_at",
	"is_completed", "feedback", "version",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(r rowScanner) (*session.Session, error) {
	var (
		s           session.Session
		score       sql.NullFloat64
		startedAt   int64
		completedAt sql.NullInt64
	)
	err := r.Scan(
		&s.ID, &s.UserID, &s.StoryID, &s.StoryCategory,
		&s.CurrentSceneIndex, &s.ScenesCompleted,
		&s.QuizStarted, &s.QuizCompleted, &score,
		&s.TotalReadingTime, &startedAt, &completedAt,
		&s.IsCompleted, &s.Feedback, &s.Version,
	)
	if err != nil {
		return nil, err
	}
	if score.Valid {
		v := score.Float64
		s.QuizScore = &v
	}
	s.StartedAt = time.Unix(startedAt, 0).UTC()
	s.CompletedAt = timeFromNull(completedAt)
	return &s, nil
}

func scoreOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func (q *Queries) CreateSession(ctx context.Context, s *session.Session) error {
	ins := q.b.Insert(sessionsTable.Name).
		Columns(sessionColumns...).
		Values(
			s.ID, s.UserID, s.StoryID, s.StoryCategory,
			s.CurrentSceneIndex, s.ScenesCompleted,
			s.QuizStarted, s.QuizCompleted, scoreOrNil(s.QuizScore),
			s.TotalReadingTime, s.StartedAt.Unix(), unixOrNil(s.CompletedAt),
			s.IsCompleted, s.Feedback, s.Version,
		)
	if _, err := q.exec(ctx, ins); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (q *Queries) GetSession(ctx context.Context, id string) (*session.Session, error) {
	sel := q.b.Select(sessionColumns...).
		From(q.b.Table(sessionsTable.Name)).
		Where(entsql.EQ("id", id))

	s, err := scanSession(q.queryRow(ctx, sel))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &errs.NotFoundError{Kind: "session", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

func (q *Queries) UpdateSession(ctx context.Context, s *session.Session) error {
	upd := q.b.Update(sessionsTable.Name).
		Set("current_scene_index", s.CurrentSceneIndex).
		Set("scenes_completed", s.ScenesCompleted).
		Set("quiz_started", s.QuizStarted).
		Set("quiz_completed", s.QuizCompleted).
		Set("quiz_score", scoreOrNil(s.QuizScore)).
		Set("total_reading_time", s.TotalReadingTime).
		Set("completed_at", unixOrNil(s.CompletedAt)).
		Set("is_completed", s.IsCompleted).
		Set("version", s.Version+1).
		Where(entsql.And(
			entsql.EQ("id", s.ID),
			entsql.EQ("version", s.Version),
		))

	res, err := q.exec(ctx, upd)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n == 0 {
		return ErrVersionConflict
	}
	s.Version++
	return nil
}

func (q *Queries) SetFeedback(ctx context.Context, sessionID, feedback string) error {
	upd := q.b.Update(sessionsTable.Name).
		Set("feedback", feedback).
		Where(entsql.EQ("id", sessionID))
	if _, err := q.exec(ctx, upd); err != nil {
		return fmt.Errorf("set feedback: %w", err)
	}
	return nil
}

func (q *Queries) ListSessionsByUser(ctx context.Context, userID string) ([]session.Session, error) {
	sel := q.b.Select(sessionColumns...).
		From(q.b.Table(sessionsTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Asc("started_at"), entsql.Asc("id"))

	rows, err := q.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []session.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

var answerColumns = []string{
	"session_id", "question_index", "question_text",
	"chosen_index", "chosen_text", "correct_index", "correct_text",
	"is_correct", "points",
}

func (q *Queries) InsertAnswers(ctx context.Context, sessionID string, records []quiz.AnswerRecord) error {
	if len(records) == 0 {
		return nil
	}
	ins := q.b.Insert(answerRecordsTable.Name).Columns(answerColumns...)
	for _, r := range records {
		ins.Values(
			sessionID, r.QuestionIndex, r.QuestionText,
			r.ChosenIndex, r.ChosenText, r.CorrectIndex, r.CorrectText,
			r.IsCorrect, r.Points,
		)
	}
	if _, err := q.exec(ctx, ins); err != nil {
		return fmt.Errorf("insert answer records: %w", err)
	}
	return nil
}

func (q *Queries) ListAnswers(ctx context.Context, sessionID string) ([]quiz.AnswerRecord, error) {
	sel := q.b.Select(answerColumns[1:]...).
		From(q.b.Table(answerRecordsTable.Name)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy(entsql.Asc("question_index"))

	rows, err := q.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("list answer records: %w", err)
	}
	defer rows.Close()

	var out []quiz.AnswerRecord
	for rows.Next() {
		var r quiz.AnswerRecord
		if err := rows.Scan(
			&r.QuestionIndex, &r.QuestionText,
			&r.ChosenIndex, &r.ChosenText, &r.CorrectIndex, &r.CorrectText,
			&r.IsCorrect, &r.Points,
		); err != nil {
			return nil, fmt.Errorf("scan answer record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
