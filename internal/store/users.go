package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/errs"
)

var userColumns = []string{"id", "username", "password_hash", "created_at"}

func (q *Queries) CreateUser(ctx context.Context, u *User) error {
	ins := q.b.Insert(usersTable.Name).
		Columns(userColumns...).
		Values(u.ID, u.Username, u.PasswordHash, u.CreatedAt.Unix()).
		OnConflict(
			entsql.ConflictColumns("username"),
			entsql.DoNothing(),
		)
	res, err := q.exec(ctx, ins)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUsernameTaken
	}
	return nil
}

func (q *Queries) getUserWhere(ctx context.Context, p *entsql.Predicate, key string) (*User, error) {
	sel := q.b.Select(userColumns...).
		From(q.b.Table(usersTable.Name)).
		Where(p)

	var (
		u       User
		created int64
	)
	err := q.queryRow(ctx, sel).Scan(&u.ID, &u.Username, &u.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &errs.NotFoundError{Kind: "user", ID: key}
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = time.Unix(created, 0).UTC()
	return &u, nil
}

func (q *Queries) GetUser(ctx context.Context, id string) (*User, error) {
	return q.getUserWhere(ctx, entsql.EQ("id", id), id)
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return q.getUserWhere(ctx, entsql.EQ("username", username), username)
}

// isUniqueViolation matches the constraint errors of both backends without
// importing driver-specific error types.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
