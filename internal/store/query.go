package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/jqgrid/internal/ir"
	"github.com/roach88/jqgrid/internal/queryir"
	"github.com/roach88/jqgrid/internal/querysql"
	"github.com/roach88/jqgrid/internal/record"
)

func (s *Store) compiler() *querysql.Compiler {
	c := querysql.NewCompiler(querysql.SQLite)
	// Loaded tables need not carry an id column.
	c.KeyColumn = "rowid"
	return c
}

// Count executes a count query.
func (s *Store) Count(ctx context.Context, q queryir.Count) (int, error) {
	stmt, args, err := s.compiler().Compile(q)
	if err != nil {
		return 0, err
	}
	s.logger.Debug("count", "sql", stmt, "args", args)

	var n int
	if err := s.db.QueryRowContext(ctx, stmt, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", q.From, err)
	}
	return n, nil
}

// Fetch executes a page query and returns each row as a field record.
func (s *Store) Fetch(ctx context.Context, q queryir.Select) ([]record.Record, error) {
	stmt, args, err := s.compiler().Compile(q)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("fetch", "sql", stmt, "args", args)

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", q.From, err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]record.Record, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("column types: %w", err)
	}

	recs := []record.Record{}
	for rows.Next() {
		vals := make([]any, len(types))
		ptrs := make([]any, len(types))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		fields := make(map[string]any, len(types))
		for i, ct := range types {
			fields[ct.Name()] = convert(ct.DatabaseTypeName(), vals[i])
		}
		recs = append(recs, record.Object{Values: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return recs, nil
}

// convert restores the Go type a column was declared with.
func convert(declType string, v any) any {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	if v == nil {
		return nil
	}

	switch decl := strings.ToUpper(declType); {
	case strings.HasPrefix(decl, "DECIMAL"), strings.HasPrefix(decl, "NUMERIC"):
		switch val := v.(type) {
		case string:
			if d, err := decimal.NewFromString(val); err == nil {
				return d
			}
		default:
			if d, ok := ir.AsDecimal(val); ok {
				return d
			}
		}
	case decl == "DATE":
		if t, ok := v.(time.Time); ok {
			return ir.NewIRDate(t).Time
		}
	}
	return v
}
