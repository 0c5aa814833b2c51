package querysql

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jqgrid/internal/ir"
	"github.com/roach88/jqgrid/internal/queryir"
)

func TestCompilePredicate_SingleContains(t *testing.T) {
	compiler := NewCompiler(SQLite)

	sql, params, err := compiler.CompilePredicate(queryir.And{Predicates: []queryir.Predicate{
		queryir.Contains{Field: "a", Value: "10"},
	}})
	require.NoError(t, err)

	assert.Equal(t, "a LIKE ?", sql)
	assert.Equal(t, []any{"%10%"}, params)
}

func TestCompilePredicate_ClauseOrderFollowsTerms(t *testing.T) {
	compiler := NewCompiler(SQLite)

	sql, params, err := compiler.CompilePredicate(queryir.And{Predicates: []queryir.Predicate{
		queryir.Contains{Field: "a", Value: "10"},
		queryir.Contains{Field: "b", Value: "bb"},
	}})
	require.NoError(t, err)

	assert.Equal(t, "a LIKE ? AND b LIKE ?", sql)
	assert.Equal(t, []any{"%10%", "%bb%"}, params)
}

func TestCompilePredicate_SQLiteOperators(t *testing.T) {
	day := time.Date(2011, time.July, 18, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		pred   queryir.Predicate
		sql    string
		params []any
	}{
		{"not contains", queryir.NotContains{Field: "a", Value: "x"}, "a NOT LIKE ?", []any{"%x%"}},
		{"prefix", queryir.Prefix{Field: "a", Value: "he"}, "a LIKE ?", []any{"he%"}},
		{"suffix", queryir.Suffix{Field: "a", Value: "lo"}, "a LIKE ?", []any{"%lo"}},
		{"pattern", queryir.Pattern{Field: "a", Value: "hello"}, "a LIKE ?", []any{"hello"}},
		{"regexp", queryir.Regexp{Field: "a", Value: "h..o"}, "a REGEXP ?", []any{"h..o"}},
		{"not regexp", queryir.Regexp{Field: "a", Value: "h.*", Negate: true}, "a NOT REGEXP ?", []any{"h.*"}},
		{"int", queryir.Compare{Field: "n", Op: queryir.OpGe, Value: ir.IRInt(3)}, "n >= ?", []any{int64(3)}},
		{"float", queryir.Compare{Field: "f", Op: queryir.OpLt, Value: ir.IRFloat(1.5)}, "f < ?", []any{1.5}},
		{"decimal", queryir.Compare{Field: "d", Op: queryir.OpEq, Value: ir.NewIRDecimal(decimal.RequireFromString("1.12"))}, "d = ?", []any{"1.12"}},
		{"date", queryir.Compare{Field: "t", Op: queryir.OpNe, Value: ir.NewIRDate(day)}, "t <> ?", []any{day}},
		{"empty and", queryir.And{}, "1 = 1", nil},
	}

	compiler := NewCompiler(SQLite)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params, err := compiler.CompilePredicate(tt.pred)
			require.NoError(t, err)
			assert.Equal(t, tt.sql, sql)
			assert.Equal(t, tt.params, params)
		})
	}
}

func TestCompilePredicate_PostgresNumbersPlaceholders(t *testing.T) {
	compiler := NewCompiler(Postgres)

	sql, params, err := compiler.CompilePredicate(queryir.And{Predicates: []queryir.Predicate{
		queryir.Contains{Field: "a", Value: "10"},
		queryir.Regexp{Field: "b", Value: "x", Negate: true},
		queryir.Compare{Field: "c", Op: queryir.OpGt, Value: ir.IRInt(2)},
	}})
	require.NoError(t, err)

	assert.Equal(t, "CAST(a AS TEXT) ILIKE $1 AND CAST(b AS TEXT) !~ $2 AND c > $3", sql)
	assert.Equal(t, []any{"%10%", "x", int64(2)}, params)
}

func TestCompile_SelectPage(t *testing.T) {
	compiler := NewCompiler(SQLite)

	query := queryir.Select{
		From:    "items",
		Columns: []string{"id", "a", "b"},
		Filter:  queryir.Contains{Field: "a", Value: "widget"},
		OrderBy: []queryir.Order{{Field: "b", Desc: true}},
		Limit:   20,
		Offset:  40,
	}

	sql, params, err := compiler.Compile(query)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, a, b FROM items WHERE a LIKE ? ORDER BY b DESC, id COLLATE BINARY ASC LIMIT 20 OFFSET 40",
		sql)
	assert.Equal(t, []any{"%widget%"}, params)
	assert.NotContains(t, sql, "widget%")
}

func TestCompile_SelectAlwaysOrdered(t *testing.T) {
	sql, params, err := NewCompiler(SQLite).Compile(&queryir.Select{From: "items"})
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM items ORDER BY id COLLATE BINARY ASC", sql)
	assert.Empty(t, params)
}

func TestCompile_SortOnKeyColumnSkipsTiebreaker(t *testing.T) {
	sql, _, err := NewCompiler(SQLite).Compile(queryir.Select{
		From:    "items",
		OrderBy: []queryir.Order{{Field: "id", Desc: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM items ORDER BY id DESC", sql)
}

func TestCompile_KeyColumn(t *testing.T) {
	compiler := NewCompiler(SQLite)
	compiler.KeyColumn = "rowid"

	sql, _, err := compiler.Compile(queryir.Select{From: "items", OrderBy: []queryir.Order{{Field: "a"}}})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM items ORDER BY a ASC, rowid COLLATE BINARY ASC", sql)
}

func TestCompile_OffsetWithoutLimit(t *testing.T) {
	sql, _, err := NewCompiler(SQLite).Compile(queryir.Select{From: "items", Offset: 5})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM items ORDER BY id COLLATE BINARY ASC LIMIT -1 OFFSET 5", sql)

	sql, _, err = NewCompiler(Postgres).Compile(queryir.Select{From: "items", Offset: 5})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM items ORDER BY id ASC OFFSET 5", sql)
}

func TestCompile_Count(t *testing.T) {
	sql, params, err := NewCompiler(Postgres).Compile(queryir.Count{
		From:   "public.items",
		Filter: queryir.Prefix{Field: "a", Value: "x"},
	})
	require.NoError(t, err)

	assert.Equal(t, "SELECT COUNT(*) FROM public.items WHERE CAST(a AS TEXT) ILIKE $1", sql)
	assert.Equal(t, []any{"x%"}, params)
}

func TestCompile_RejectsBadIdentifiers(t *testing.T) {
	tests := []queryir.Query{
		queryir.Select{From: "items; DROP TABLE items"},
		queryir.Select{From: "items", Columns: []string{"a b"}},
		queryir.Select{From: "items", OrderBy: []queryir.Order{{Field: "1a"}}},
		queryir.Count{From: "items", Filter: queryir.Contains{Field: "a--", Value: "x"}},
	}

	for _, q := range tests {
		_, _, err := NewCompiler(SQLite).Compile(q)
		require.Error(t, err)
		var identErr *IdentifierError
		assert.True(t, errors.As(err, &identErr), "want IdentifierError, got %v", err)
	}
}

func TestCompile_RejectsInvalidQuery(t *testing.T) {
	_, _, err := NewCompiler(SQLite).Compile(queryir.Select{From: "items", Limit: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative limit")

	_, _, err = NewCompiler(SQLite).Compile(nil)
	assert.Error(t, err)
}

func TestValidIdentifier(t *testing.T) {
	assert.True(t, ValidIdentifier("a"))
	assert.True(t, ValidIdentifier("_col9"))
	assert.True(t, ValidIdentifier("schema.table"))
	assert.False(t, ValidIdentifier(""))
	assert.False(t, ValidIdentifier("a."))
	assert.False(t, ValidIdentifier("a'b"))
	assert.False(t, ValidIdentifier("é"))
}

func TestDialect_String(t *testing.T) {
	assert.Equal(t, "sqlite", SQLite.String())
	assert.Equal(t, "postgres", Postgres.String())
}
