package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/jqgrid/internal/ir"
	"github.com/roach88/jqgrid/internal/querysql"
	"github.com/roach88/jqgrid/internal/record"
)

// Column declares one loaded column.
type Column struct {
	Name string
	Kind ir.Kind
}

// sqlTypes maps kinds to declared column types. go-sqlite3 converts DATE
// columns back to time.Time; DECIMAL keeps NUMERIC affinity so
// comparisons stay numeric.
var sqlTypes = map[ir.Kind]string{
	ir.KindNull:    "TEXT",
	ir.KindString:  "TEXT",
	ir.KindInt:     "INTEGER",
	ir.KindFloat:   "REAL",
	ir.KindDecimal: "DECIMAL",
	ir.KindDate:    "DATE",
}

// Load replaces table with rows, reading each column through the record
// resolver. Column kinds are recorded in the catalog.
func (s *Store) Load(ctx context.Context, table string, columns []Column, rows []record.Record) error {
	if !querysql.ValidIdentifier(table) || strings.Contains(table, ".") {
		return &querysql.IdentifierError{Name: table}
	}
	if len(columns) == 0 {
		return fmt.Errorf("load %s: no columns", table)
	}
	defs := make([]string, len(columns))
	names := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, col := range columns {
		if !querysql.ValidIdentifier(col.Name) || strings.Contains(col.Name, ".") {
			return &querysql.IdentifierError{Name: col.Name}
		}
		defs[i] = col.Name + " " + sqlTypes[col.Kind]
		names[i] = col.Name
		marks[i] = "?"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin load: %w", err)
	}
	defer tx.Rollback()

	stmts := []string{
		"DROP TABLE IF EXISTS " + table,
		"CREATE TABLE " + table + " (" + strings.Join(defs, ", ") + ")",
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("load %s: %w", table, err)
		}
	}

	if err := writeCatalog(ctx, tx, table, columns); err != nil {
		return err
	}

	insert, err := tx.PrepareContext(ctx,
		"INSERT INTO "+table+" ("+strings.Join(names, ", ")+") VALUES ("+strings.Join(marks, ", ")+")")
	if err != nil {
		return fmt.Errorf("prepare insert into %s: %w", table, err)
	}
	defer insert.Close()

	args := make([]any, len(columns))
	for n, rec := range rows {
		for i, col := range columns {
			args[i] = bindValue(col.Kind, record.Resolve(rec, col.Name))
		}
		if _, err := insert.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d into %s: %w", n, table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit load: %w", err)
	}
	s.logger.Debug("loaded table", "table", table, "columns", len(columns), "rows", len(rows))
	return nil
}

func writeCatalog(ctx context.Context, tx *sql.Tx, table string, columns []Column) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM grid_columns WHERE table_name = ?", table); err != nil {
		return fmt.Errorf("clear catalog for %s: %w", table, err)
	}
	for i, col := range columns {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO grid_columns (table_name, position, column_name, kind) VALUES (?, ?, ?, ?)",
			table, i, col.Name, col.Kind.String())
		if err != nil {
			return fmt.Errorf("catalog %s.%s: %w", table, col.Name, err)
		}
	}
	return nil
}

// bindValue converts a resolved record value into an INSERT argument.
// Blank values in non-text columns become NULL.
func bindValue(kind ir.Kind, v any) any {
	if s, ok := v.(string); ok && s == "" && kind != ir.KindString && kind != ir.KindNull {
		return nil
	}
	if val, ok := v.(ir.Value); ok {
		return ir.Param(val)
	}
	if d, ok := ir.AsDecimal(v); ok && kind == ir.KindDecimal {
		return d.String()
	}
	if t, ok := ir.AsTime(v); ok {
		return ir.NewIRDate(t).Time
	}
	return v
}

// Columns returns the catalog entry for table, in declaration order.
func (s *Store) Columns(ctx context.Context, table string) ([]Column, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT column_name, kind FROM grid_columns WHERE table_name = ? ORDER BY position", table)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var name, kind string
		if err := rows.Scan(&name, &kind); err != nil {
			return nil, fmt.Errorf("scan catalog: %w", err)
		}
		k, ok := ir.ParseKind(kind)
		if !ok {
			return nil, fmt.Errorf("catalog %s.%s: unknown kind %q", table, name, kind)
		}
		cols = append(cols, Column{Name: name, Kind: k})
	}
	return cols, rows.Err()
}
