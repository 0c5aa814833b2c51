package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/jqgrid/internal/filter"
	"github.com/roach88/jqgrid/internal/grid"
	"github.com/roach88/jqgrid/internal/gridspec"
	"github.com/roach88/jqgrid/internal/store/pgstore"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Database string
	Postgres string
	Specs    string
	Grid     string
	Page     int
	Rows     int
	Sort     string
	Order    string
	Filters  []string
}

// QueryResult is a served grid page.
type QueryResult struct {
	Grid    string   `json:"grid"`
	Body    string   `json:"body"`
	Page    int      `json:"page"`
	Total   int      `json:"total"`
	Records int      `json:"records"`
	Skipped []string `json:"skipped,omitempty"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Serve one grid request from a database",
		Long: `Serve one jqGrid request for a grid defined in CUE, reading rows from
SQLite (--db) or PostgreSQL (--pg).

The flags mirror the jqGrid request parameters: page, rows, sidx, sord
and one --filter per toolbar search field. Filters turn on searching.

Examples:
  jqgrid query --db ./grid.db --specs ./grids --grid items
  jqgrid query --db ./grid.db --specs ./grids --grid items --page 2 --sidx price --sord desc
  jqgrid query --pg postgres://localhost/app --specs ./grids --grid items --filter "price=>=10"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&opts.Postgres, "pg", "", "PostgreSQL connection string")
	cmd.Flags().StringVar(&opts.Specs, "specs", "", "directory of CUE grid definitions (required)")
	cmd.Flags().StringVar(&opts.Grid, "grid", "", "grid name (required)")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.Rows, "rows", 0, "rows per page (defaults to the grid's)")
	cmd.Flags().StringVar(&opts.Sort, "sidx", "", "sort column")
	cmd.Flags().StringVar(&opts.Order, "sord", "", "sort order (asc|desc)")
	cmd.Flags().StringArrayVarP(&opts.Filters, "filter", "f", nil, "filter term col=value (repeatable)")
	_ = cmd.MarkFlagRequired("specs")
	_ = cmd.MarkFlagRequired("grid")
	cmd.MarkFlagsMutuallyExclusive("db", "pg")
	cmd.MarkFlagsOneRequired("db", "pg")

	return cmd
}

func runQuery(opts *QueryOptions, cmd *cobra.Command) error {
	formatter, logger := opts.session(cmd)
	ctx := cmd.Context()

	result, loadErrors := gridspec.Load(opts.Specs, gridspec.LoadModeFailFast)
	if len(loadErrors) > 0 {
		code, message := errorCode(loadErrors[0])
		return outputValidateError(formatter, code, message, nil)
	}
	g, ok := result.Lookup(opts.Grid)
	if !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("grid %q not found in %s", opts.Grid, opts.Specs))
	}

	terms, err := filter.Parse(opts.Filters)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid filter", err)
	}
	req := g.Request(grid.Request{
		Page:    opts.Page,
		Rows:    opts.Rows,
		Sort:    opts.Sort,
		Order:   opts.Order,
		Search:  len(terms) > 0,
		Filters: terms,
	})
	cfg := g.Config()
	if opts.DateFormat != "" {
		cfg.DateFormat = opts.DateFormat
	}
	cfg.Logger = logger

	src, closeSource, err := openSource(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	logger.Debug("serving grid", "grid", g.Name, "table", g.Table, "page", req.Page, "filters", len(terms))
	resp, err := grid.Serve(ctx, src, g.Table, req, g.Columns, cfg)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return WrapExitError(ExitFailure, "query interrupted", err)
		}
		return WrapExitError(ExitCommandError, "failed to serve grid", err)
	}

	out := QueryResult{
		Grid:    g.Name,
		Body:    resp.Body,
		Page:    resp.Page,
		Total:   resp.Total,
		Records: resp.Records,
	}
	for _, t := range resp.Skipped {
		out.Skipped = append(out.Skipped, t.Column)
		logger.Warn("filter term skipped", "column", t.Column, "value", t.Value)
	}

	if opts.Format == "json" {
		return formatter.Success(out)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out.Body)
	return nil
}

// openSource opens the database named by --db or --pg.
func openSource(ctx context.Context, opts *QueryOptions, logger *slog.Logger) (grid.Source, func(), error) {
	if opts.Postgres != "" {
		pg, err := pgstore.Open(ctx, opts.Postgres, pgstore.WithLogger(logger))
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "failed to connect to postgres", err)
		}
		return pg, pg.Close, nil
	}
	st, err := openStore(opts.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	return st, func() { closeStore(st, logger) }, nil
}
