// Package postgres implements the repositories on PostgreSQL with squirrel
// query building. Enrollment sets are read through ARRAY subqueries over the
// enrollments table, so both directions always come from the same rows.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/campusdesk/internal/app/repositories"
	"github.com/yigit/campusdesk/internal/db"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
	"github.com/yigit/campusdesk/internal/pkg/dberrors"
	"github.com/yigit/campusdesk/internal/pkg/logger"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the PostgreSQL-backed repositories.Store
type Store struct {
	db    *db.PostgresDB
	repos *repositories.Repositories
}

var _ repositories.Store = (*Store)(nil)

// NewStore creates a store over an open connection pool
func NewStore(pg *db.PostgresDB) *Store {
	return &Store{
		db:    pg,
		repos: newRepositories(pg.Pool),
	}
}

func newRepositories(q DBTX) *repositories.Repositories {
	b := base{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	return &repositories.Repositories{
		Accounts:      &accountRepo{b},
		Organizations: &organizationRepo{b},
		Courses:       &courseRepo{b},
		Students:      &studentRepo{b},
		Enrollments:   &enrollmentRepo{b},
	}
}

// Repositories returns repositories bound to the pool
func (s *Store) Repositories() *repositories.Repositories {
	return s.repos
}

// WithinTransaction runs fn against repositories bound to one transaction
func (s *Store) WithinTransaction(ctx context.Context, fn repositories.TxFn) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, newRepositories(tx))
	})
}

// Ping checks the connection pool
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Pool.Ping(ctx)
}

// base carries the shared query plumbing for every repository
type base struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

type scanner interface {
	Scan(dest ...any) error
}

// fail maps driver errors onto application errors. Anything unrecognized is
// logged and wrapped with the operation name.
func fail(op string, err error) error {
	mapped := dberrors.Map(err)
	if apperrors.Is(mapped, apperrors.ErrResourceNotFound, apperrors.ErrConflict, apperrors.ErrValidationFailed) {
		return mapped
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	logger.Error().Err(err).Str("op", op).Msg("Database query failed")
	return fmt.Errorf("error during %s: %w", op, mapped)
}

func (b base) exec(ctx context.Context, op string, q squirrel.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("failed to build %s query: %w", op, err)
	}
	tag, err := b.db.Exec(ctx, sql, args...)
	if err != nil {
		return tag, fail(op, err)
	}
	return tag, nil
}

// execOne is exec for statements that must touch exactly one row
func (b base) execOne(ctx context.Context, op string, q squirrel.Sqlizer) error {
	tag, err := b.exec(ctx, op, q)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

func (b base) get(ctx context.Context, op string, q squirrel.Sqlizer, dest ...any) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s query: %w", op, err)
	}
	if err := b.db.QueryRow(ctx, sql, args...).Scan(dest...); err != nil {
		return fail(op, err)
	}
	return nil
}

// list runs q and hands every row to scan
func (b base) list(ctx context.Context, op string, q squirrel.Sqlizer, scan func(row scanner) error) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s query: %w", op, err)
	}
	rows, err := b.db.Query(ctx, sql, args...)
	if err != nil {
		return fail(op, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("error scanning %s row: %w", op, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fail(op, err)
	}
	return nil
}

func (b base) count(ctx context.Context, op string, q squirrel.SelectBuilder) (int64, error) {
	var n int64
	err := b.get(ctx, op, q, &n)
	return n, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newestFirst(q squirrel.SelectBuilder, limit int) squirrel.SelectBuilder {
	q = q.OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return q
}

func notFound(what string) error {
	return apperrors.NewResourceNotFoundError(what + " not found")
}
