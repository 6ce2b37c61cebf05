package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	dbgen "github.com/richardprab/auroramart/internal/db/gen"
)

// TxBeginner is satisfied by *pgxpool.Pool and pgx.Tx.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// TxOptions extends pgx options with per-transaction timeouts applied via SET LOCAL.
type TxOptions struct {
	pgx.TxOptions
	LockTimeout      time.Duration
	StatementTimeout time.Duration
}

// Store pairs the generated queries with the pool they run on.
type Store struct {
	*dbgen.Queries
	Pool TxBeginner
}

// NewStore wires queries over the pool.
func NewStore(pool interface {
	TxBeginner
	dbgen.DBTX
}) *Store {
	return &Store{Queries: dbgen.New(pool), Pool: pool}
}

// InTx runs fn with queries bound to one transaction, committing when fn returns nil.
func (s *Store) InTx(ctx context.Context, opts TxOptions, fn func(q dbgen.Querier) error) error {
	if s == nil || s.Pool == nil {
		return errors.New("store not configured")
	}
	tx, err := s.Pool.BeginTx(ctx, opts.TxOptions)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if opts.LockTimeout > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", opts.LockTimeout.Milliseconds())); err != nil {
			return err
		}
	}
	if opts.StatementTimeout > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", opts.StatementTimeout.Milliseconds())); err != nil {
			return err
		}
	}
	if err := fn(s.Queries.WithTx(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// IsConflict reports errors a client may safely retry: serialization failures,
// deadlocks, lock and statement timeouts, and expired deadlines.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03", "57014":
			return true
		}
	}
	return false
}

// IsUniqueViolation reports a 23505 error, optionally restricted to one constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
