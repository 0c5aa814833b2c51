// Package pgstore serves grid queries from PostgreSQL through a pgx
// connection pool.
package pgstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/roach88/jqgrid/internal/ir"
	"github.com/roach88/jqgrid/internal/queryir"
	"github.com/roach88/jqgrid/internal/querysql"
	"github.com/roach88/jqgrid/internal/record"
)

// Store is a PostgreSQL grid source.
type Store struct {
	pool     *pgxpool.Pool
	compiler *querysql.Compiler
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger logs compiled statements at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithKeyColumn sets the column that breaks ORDER BY ties. Defaults to "id".
func WithKeyColumn(name string) Option {
	return func(s *Store) { s.compiler.KeyColumn = name }
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{
		pool:     pool,
		compiler: querysql.NewCompiler(querysql.Postgres),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Pool returns the underlying pool.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Count executes a count query.
func (s *Store) Count(ctx context.Context, q queryir.Count) (int, error) {
	stmt, args, err := s.compiler.Compile(q)
	if err != nil {
		return 0, err
	}
	s.logger.Debug("count", "sql", stmt, "args", args)

	var n int64
	if err := s.pool.QueryRow(ctx, stmt, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", q.From, err)
	}
	return int(n), nil
}

// Fetch executes a page query and returns each row as a field record.
func (s *Store) Fetch(ctx context.Context, q queryir.Select) ([]record.Record, error) {
	stmt, args, err := s.compiler.Compile(q)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("fetch", "sql", stmt, "args", args)

	rows, err := s.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", q.From, err)
	}
	defer rows.Close()

	recs, err := pgx.CollectRows(rows, rowRecord)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", q.From, err)
	}
	return recs, nil
}

func rowRecord(row pgx.CollectableRow) (record.Record, error) {
	vals, err := row.Values()
	if err != nil {
		return nil, err
	}
	fields := row.FieldDescriptions()
	values := make(map[string]any, len(fields))
	for i, fd := range fields {
		values[fd.Name] = convert(fd.DataTypeOID, vals[i])
	}
	return record.Object{Values: values}, nil
}

// Exec runs a statement, for schema setup in tools and tests.
func (s *Store) Exec(ctx context.Context, stmt string, args ...any) error {
	_, err := s.pool.Exec(ctx, stmt, args...)
	return err
}

// convert maps pgx row values onto the grid value model: numerics become
// decimals, dates calendar dates, narrow integers int64.
func convert(oid uint32, v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case pgtype.Numeric:
		return numericValue(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case float32:
		return float64(val)
	case time.Time:
		if oid == pgtype.DateOID {
			return ir.NewIRDate(val).Time
		}
		return val
	default:
		return v
	}
}

func numericValue(n pgtype.Numeric) any {
	if !n.Valid {
		return nil
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite {
		f, err := n.Float64Value()
		if err != nil {
			return nil
		}
		return f.Float64
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
