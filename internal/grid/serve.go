package grid

import (
	"context"
	"fmt"

	"github.com/roach88/jqgrid/internal/filter"
	"github.com/roach88/jqgrid/internal/queryir"
	"github.com/roach88/jqgrid/internal/record"
)

// Source executes grid queries. It is implemented by the in-memory
// backend and the SQL stores.
type Source interface {
	Count(ctx context.Context, q queryir.Count) (int, error)
	Fetch(ctx context.Context, q queryir.Select) ([]record.Record, error)
}

// Response is a served page.
type Response struct {
	Body    string
	Page    int
	Total   int
	Records int

	// Skipped lists filter terms left out because their operand could not
	// be coerced to the column type.
	Skipped []filter.Term
}

// Serve answers one grid request against table.
//
// Column types for filter coercion come from cfg.Types, or are sampled
// from the first row of the table. A requested page past the end is
// clamped to the last page.
func Serve(ctx context.Context, src Source, table string, req Request, columns []string, cfg Config) (*Response, error) {
	req = req.Normalize()
	log := cfg.logger()

	var pred queryir.Predicate
	var skipped []filter.Term
	if terms := req.filters(); len(terms) > 0 {
		types, err := cfg.columnTypes(ctx, src, table, terms.Columns())
		if err != nil {
			return nil, fmt.Errorf("sample %s: %w", table, err)
		}
		b := filter.Builder{
			Types:      types,
			DateFormat: cfg.dateFormat(),
			Logger:     log,
		}
		res := b.Build(terms)
		skipped = res.Skipped
		if len(res.Predicate.Predicates) > 0 {
			pred = res.Predicate
		}
	}

	total, err := src.Count(ctx, queryir.Count{From: table, Filter: pred})
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", table, err)
	}

	page := min(req.Page, TotalPages(total, req.Rows))
	sel := queryir.Select{
		From:   table,
		Filter: pred,
		Limit:  req.Rows,
		Offset: (page - 1) * req.Rows,
	}
	if req.Sort != "" {
		sel.OrderBy = []queryir.Order{{Field: req.Sort, Desc: req.Order == "desc"}}
	}

	recs, err := src.Fetch(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", table, err)
	}
	log.Debug("served grid page",
		"table", table,
		"page", page,
		"rows", len(recs),
		"records", total,
		"skipped", len(skipped))

	return &Response{
		Body:    JSON(recs, columns, page, req.Rows, total, cfg),
		Page:    page,
		Total:   TotalPages(total, req.Rows),
		Records: total,
		Skipped: skipped,
	}, nil
}
