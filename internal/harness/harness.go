package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/jqgrid/internal/grid"
	"github.com/roach88/jqgrid/internal/querymem"
)

// TableName is the in-memory table scenario records are loaded into.
const TableName = "records"

// Harness executes scenarios. Each run uses a fresh in-memory table.
type Harness struct {
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger passed to the grid.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// New returns a harness with the given options.
func New(opts ...Option) *Harness {
	h := &Harness{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes scenario with a default harness.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(context.Background(), scenario)
}

// Run serves the scenario request and checks its expectations.
//
// An error means the scenario could not execute; mismatched expectations
// are reported in the result instead.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	_, rows, err := scenario.Table()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	db := querymem.New(scenario.dateFormat())
	db.Add(TableName, rows)

	cfg := scenario.Config()
	cfg.Logger = h.logger
	resp, err := grid.Serve(ctx, db, TableName, scenario.GridRequest(), scenario.Columns, cfg)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult()
	result.Body = resp.Body
	result.Page = resp.Page
	result.Total = resp.Total
	result.Records = resp.Records
	for _, t := range resp.Skipped {
		result.Skipped = append(result.Skipped, t.Column)
	}

	if scenario.Expect != nil {
		checkExpect(result, scenario.Expect)
	}
	h.logger.Debug("scenario finished", "name", scenario.Name, "pass", result.Pass)
	return result, nil
}
