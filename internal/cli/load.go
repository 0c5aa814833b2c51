package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/jqgrid/internal/harness"
	"github.com/roach88/jqgrid/internal/store"
)

// LoadOptions holds flags for the load command.
type LoadOptions struct {
	*RootOptions
	Database string
	Table    string
}

// LoadResult reports a finished import.
type LoadResult struct {
	Table   string   `json:"table"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoadOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "load <scenario.yaml>",
		Short: "Import scenario records into a SQLite table",
		Long: `Create (or replace) a SQLite table from the records of a YAML scenario.

Column types come from the scenario schema, or from the first non-null
value of each field. The table can then be served with the query command.

Example:
  jqgrid load --db ./grid.db --table items ./scenarios/items.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Table, "table", "", "table name (defaults to the scenario name)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runLoad(opts *LoadOptions, path string, cmd *cobra.Command) error {
	formatter, logger := opts.session(cmd)

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	if opts.DateFormat != "" {
		scenario.DateFormat = opts.DateFormat
	}
	table := opts.Table
	if table == "" {
		table = scenario.Name
	}

	fields, rows, err := scenario.Table()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read records", err)
	}
	if len(fields) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenario %s has no record fields", scenario.Name))
	}
	columns := make([]store.Column, len(fields))
	names := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = store.Column{Name: f.Name, Kind: f.Kind}
		names[i] = f.Name
	}

	st, err := openStore(opts.Database, logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	if err := st.Load(cmd.Context(), table, columns, rows); err != nil {
		return WrapExitError(ExitCommandError, "failed to load table", err)
	}
	logger.Info("table loaded", "db", opts.Database, "table", table, "rows", len(rows))

	if opts.Format == "json" {
		return formatter.Success(LoadResult{Table: table, Rows: len(rows), Columns: names})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Loaded %d row(s) into %s\n", len(rows), table)
	return nil
}

func openStore(path string, logger *slog.Logger) (*store.Store, error) {
	logger.Debug("opening database", "path", path)
	st, err := store.Open(path, store.WithLogger(logger))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func closeStore(st *store.Store, logger *slog.Logger) {
	if err := st.Close(); err != nil {
		logger.Error("error closing database", "error", err)
	}
}
