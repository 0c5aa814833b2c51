package gridspec

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jqgrid/internal/coerce"
	"github.com/roach88/jqgrid/internal/grid"
	"github.com/roach88/jqgrid/internal/ir"
)

func writeSpec(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "grid.cue"), []byte(src), 0644))
	return dir
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr), "expected LoadError, got %v", err)
	return loadErr.Code
}

func TestLoad_Valid(t *testing.T) {
	result, errs := Load(filepath.Join("testdata", "valid"), LoadModeCollectAll)
	require.Empty(t, errs)
	require.Len(t, result.Grids, 2)
	assert.Equal(t, 1, result.FileCount)

	items, ok := result.Lookup("items")
	require.True(t, ok)
	assert.Equal(t, Grid{
		Name:       "items",
		Table:      "items",
		Columns:    []string{"a", "a.upcase", "b", "c"},
		DateFormat: "%d/%m/%Y",
		Rows:       25,
		Sort:       "c",
		Order:      "desc",
		Types:      coerce.ColumnTypes{"b": ir.KindDecimal},
	}, items)

	people, ok := result.Lookup("people")
	require.True(t, ok)
	assert.Equal(t, "people", people.Table)
	assert.Zero(t, people.Rows)
	assert.Nil(t, people.Types)

	_, ok = result.Lookup("missing")
	assert.False(t, ok)
}

func TestLoad_DirectoryErrors(t *testing.T) {
	_, errs := Load("/nonexistent/directory/path", LoadModeFailFast)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCodeNotFound, codeOf(t, errs[0]))

	_, errs = Load(t.TempDir(), LoadModeFailFast)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCodeNoFiles, codeOf(t, errs[0]))

	file := filepath.Join(t.TempDir(), "x.cue")
	require.NoError(t, os.WriteFile(file, []byte("package x\n"), 0644))
	_, errs = Load(file, LoadModeFailFast)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCodeNotFound, codeOf(t, errs[0]))
}

func TestLoad_BuildError(t *testing.T) {
	dir := writeSpec(t, `
package test

grid: items: table: "a"
grid: items: table: "b"
`)
	_, errs := Load(dir, LoadModeFailFast)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCodeBuildFailed, codeOf(t, errs[0]))
}

func TestLoad_NoGrids(t *testing.T) {
	dir := writeSpec(t, "package test\n\nother: 1\n")
	_, errs := Load(dir, LoadModeFailFast)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCodeGeneric, codeOf(t, errs[0]))
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"missing table", `columns: ["a"]`, ErrCodeTable},
		{"bad table", `table: "items; drop", columns: ["a"]`, ErrCodeTable},
		{"no columns", `table: "items"`, ErrCodeColumns},
		{"empty columns", `table: "items", columns: []`, ErrCodeColumns},
		{"bad date format", `table: "items", columns: ["a"], date_format: "%Q"`, ErrCodeDateFormat},
		{"negative rows", `table: "items", columns: ["a"], rows: -1`, ErrCodeRows},
		{"bad sort", `table: "items", columns: ["a"], sort: "a b"`, ErrCodeSort},
		{"bad order", `table: "items", columns: ["a"], order: "up"`, ErrCodeSort},
		{"unknown kind", `table: "items", columns: ["a"], types: a: "money"`, ErrCodeType},
		{"null kind", `table: "items", columns: ["a"], types: a: "null"`, ErrCodeType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeSpec(t, "package test\n\ngrid: g: {"+tt.body+"}\n")
			_, errs := Load(dir, LoadModeFailFast)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.code, codeOf(t, errs[0]))
		})
	}
}

func TestLoad_CollectAll(t *testing.T) {
	dir := writeSpec(t, `
package test

grid: a: {table: "a", columns: ["x"]}
grid: b: {columns: ["x"]}
grid: c: {table: "c"}
`)
	result, errs := Load(dir, LoadModeCollectAll)
	assert.Len(t, errs, 2)
	require.Len(t, result.Grids, 1)
	assert.Equal(t, "a", result.Grids[0].Name)

	_, errs = Load(dir, LoadModeFailFast)
	assert.Len(t, errs, 1)
}

func TestLoadError_Error(t *testing.T) {
	err := &LoadError{Code: ErrCodeColumns, Message: "grid g: at least one column is required"}
	assert.Equal(t, "E102: grid g: at least one column is required", err.Error())
}

func TestGrid_ConfigAndRequest(t *testing.T) {
	g := Grid{
		Columns: []string{"a"},
		Rows:    50,
		Sort:    "c",
		Order:   "desc",
		Types:   coerce.ColumnTypes{"b": ir.KindInt},
	}

	cfg := g.Config()
	assert.Equal(t, "%d/%m/%Y", cfg.DateFormat)
	assert.Equal(t, ir.KindInt, cfg.Types.Kind("b"))

	g.DateFormat = "%Y-%m-%d"
	assert.Equal(t, "%Y-%m-%d", g.Config().DateFormat)

	req := g.Request(grid.Request{Page: 2})
	assert.Equal(t, grid.Request{Page: 2, Rows: 50, Sort: "c", Order: "desc"}, req)

	req = g.Request(grid.Request{Rows: 5, Sort: "a"})
	assert.Equal(t, grid.Request{Rows: 5, Sort: "a"}, req)
}
