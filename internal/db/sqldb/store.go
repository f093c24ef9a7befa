package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/talentdex/internal/db"
)

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Store implements the relational parts of db.Store over database/sql.
// Dialect-specific stores (postgres, sqlite) embed it.
type Store struct {
	conn    *sql.DB
	dialect db.Dialect
	latExpr string
	lonExpr string
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithPointColumns makes record projections read the precomputed point through
// the given column expressions (referencing an unqualified table, "%s" is
// replaced by the alias prefix).
func WithPointColumns(latExpr, lonExpr string) Option {
	return func(s *Store) {
		s.latExpr = latExpr
		s.lonExpr = lonExpr
	}
}

// WithClock overrides the clock used for updated_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New wraps an open connection pool.
func New(conn *sql.DB, d db.Dialect, opts ...Option) *Store {
	s := &Store{conn: conn, dialect: d, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SetPointColumns switches point projection on after the column appears.
func (s *Store) SetPointColumns(latExpr, lonExpr string) {
	s.latExpr = latExpr
	s.lonExpr = lonExpr
}

// DB exposes the pool to dialect-specific stores.
func (s *Store) DB() *sql.DB { return s.conn }

// Dialect returns the SQL dialect.
func (s *Store) Dialect() db.Dialect { return s.dialect }

// Migrate creates base tables and secondary indexes if missing.
func (s *Store) Migrate(ctx context.Context) error {
	for _, ddl := range s.dialect.Schema() {
		if _, err := s.conn.ExecContext(ctx, ddl); err != nil {
			return &db.Error{Op: db.OpMigrate, Err: err}
		}
	}
	for _, idx := range db.RecordIndexes() {
		if _, err := s.conn.ExecContext(ctx, idx.DDL()); err != nil {
			return &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("%s: %w", idx.Name, err)}
		}
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the pool.
func (s *Store) Close() {
	_ = s.conn.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.Ping(ctx); err == nil {
		return nil
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// query runs a builder query rebound for the dialect.
func (s *Store) query(ctx context.Context, q *db.Query) (*sql.Rows, error) {
	text, args := q.BuildFor(s.dialect)
	return s.conn.QueryContext(ctx, text, args...)
}

func (s *Store) queryRow(ctx context.Context, q *db.Query) *sql.Row {
	text, args := q.BuildFor(s.dialect)
	return s.conn.QueryRowContext(ctx, text, args...)
}

func (s *Store) exec(ctx context.Context, text string, args ...any) (sql.Result, error) {
	return s.conn.ExecContext(ctx, s.dialect.Rebind(text), args...)
}

// count runs SELECT COUNT(*) over q.
func (s *Store) count(ctx context.Context, q *db.Query) (int, error) {
	var n int
	if err := s.queryRow(ctx, q.Count()).Scan(&n); err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	return n, nil
}

func notFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
