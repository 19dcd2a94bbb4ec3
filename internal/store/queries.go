package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// conn is the subset of *sql.DB / *sql.Tx the repositories use.
type conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries implements every repository against a connection or an open
// transaction.
type Queries struct {
	c conn
	b *entsql.DialectBuilder
}

var (
	_ Tx        = (*Queries)(nil)
	_ StoryRepo = (*Queries)(nil)
	_ UserRepo  = (*Queries)(nil)
	_ EventRepo = (*Queries)(nil)
)

// Queries returns repositories bound to the database outside any
// transaction.
func (s *Store) Queries() *Queries {
	return &Queries{c: s.db, b: entsql.Dialect(s.dialect)}
}

// EventRepo returns the LLM event repository.
func (s *Store) EventRepo() EventRepo { return s.Queries() }

// StoryRepo returns the story repository.
func (s *Store) StoryRepo() StoryRepo { return s.Queries() }

// UserRepo returns the account repository.
func (s *Store) UserRepo() UserRepo { return s.Queries() }

// InTx runs fn inside a transaction, committing when fn returns nil.
func (s *Store) InTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	q := &Queries{c: tx, b: entsql.Dialect(s.dialect)}
	if err := fn(q); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// querier is anything the ent builders produce.
type querier interface {
	Query() (string, []any)
}

func (q *Queries) exec(ctx context.Context, b querier) (sql.Result, error) {
	query, args := b.Query()
	return q.c.ExecContext(ctx, query, args...)
}

func (q *Queries) query(ctx context.Context, b querier) (*sql.Rows, error) {
	query, args := b.Query()
	return q.c.QueryContext(ctx, query, args...)
}

func (q *Queries) queryRow(ctx context.Context, b querier) *sql.Row {
	query, args := b.Query()
	return q.c.QueryRowContext(ctx, query, args...)
}

func unixOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func timeFromNull(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}
