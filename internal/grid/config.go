// Package grid answers jqGrid requests: it turns a request into page and
// count queries against a Source and serializes the page in the grid's
// row/cell JSON shape.
package grid

import (
	"context"
	"io"
	"log/slog"

	"github.com/roach88/jqgrid/internal/coerce"
	"github.com/roach88/jqgrid/internal/datefmt"
	"github.com/roach88/jqgrid/internal/queryir"
	"github.com/roach88/jqgrid/internal/record"
)

// Config is threaded explicitly through coercion and serialization.
type Config struct {
	// DateFormat is the strftime pattern used to parse date filters and
	// print date cells.
	DateFormat string

	// Types declares column kinds for filter coercion. Columns not listed
	// are typed from a sample row.
	Types coerce.ColumnTypes

	// Logger receives debug output for compiled queries and skipped
	// filter terms. Nil discards.
	Logger *slog.Logger
}

// DefaultConfig returns the day/month/year configuration.
func DefaultConfig() Config {
	return Config{DateFormat: datefmt.Default}
}

// Validate checks the date pattern.
func (c Config) Validate() error {
	return datefmt.Validate(c.dateFormat())
}

func (c Config) dateFormat() string {
	if c.DateFormat == "" {
		return datefmt.Default
	}
	return c.DateFormat
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

func (c Config) resolver() *record.Resolver {
	return record.NewResolver().WithDateFormat(c.dateFormat())
}

// columnTypes returns the kinds for columns, sampling only when a column
// has no declared kind.
func (c Config) columnTypes(ctx context.Context, src Source, table string, columns []string) (coerce.ColumnTypes, error) {
	types := make(coerce.ColumnTypes, len(columns))
	var undeclared []string
	for _, col := range columns {
		if k, ok := c.Types[col]; ok {
			types[col] = k
			continue
		}
		undeclared = append(undeclared, col)
	}
	if len(undeclared) == 0 {
		return types, nil
	}
	sample, err := src.Fetch(ctx, queryir.Select{From: table, Limit: 1})
	if err != nil {
		return nil, err
	}
	for col, k := range coerce.Sample(sample, undeclared) {
		types[col] = k
	}
	return types, nil
}
