package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/jqgrid/internal/coerce"
	"github.com/roach88/jqgrid/internal/filter"
	"github.com/roach88/jqgrid/internal/ir"
	"github.com/roach88/jqgrid/internal/querysql"
)

// WhereOptions holds flags for the where command.
type WhereOptions struct {
	*RootOptions
	Filters []string // col=value
	Types   []string // col=kind
	Dialect string
}

// WhereResult is the compiled condition.
type WhereResult struct {
	SQL     string   `json:"sql"`
	Args    []any    `json:"args"`
	Skipped []string `json:"skipped,omitempty"`
}

// NewWhereCommand creates the where command.
func NewWhereCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WhereOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "where",
		Short: "Compile toolbar filters to a SQL condition",
		Long: `Compile toolbar filter terms into a parameterized WHERE condition.

Plain values become case-insensitive substring matches. Values starting
with an operator (=, !=, <, <=, >, >=, ~, !~, ^) or ending in $ compile
to comparisons, patterns or regular expressions. Comparison operands are
coerced to the column kind given with --type (string when absent).

Examples:
  jqgrid where --filter a=10 --filter b=bb
  jqgrid where --filter "price=>=2.5" --type price=decimal
  jqgrid where --filter "added=<1/1/2014" --type added=date --dialect postgres`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhere(opts, cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Filters, "filter", "f", nil, "filter term col=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Types, "type", nil, "column kind col=kind (repeatable)")
	cmd.Flags().StringVar(&opts.Dialect, "dialect", "sqlite", "SQL dialect (sqlite|postgres)")

	return cmd
}

func runWhere(opts *WhereOptions, cmd *cobra.Command) error {
	formatter, logger := opts.session(cmd)

	dialect, err := parseDialect(opts.Dialect)
	if err != nil {
		return NewExitError(ExitCommandError, err.Error())
	}
	terms, err := filter.Parse(opts.Filters)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid filter", err)
	}
	if len(terms) == 0 {
		return NewExitError(ExitCommandError, "at least one --filter is required")
	}
	types, err := parseTypes(opts.Types)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid type", err)
	}

	b := filter.Builder{Types: types, DateFormat: opts.DateFormat, Logger: logger}
	res := b.Build(terms)
	stmt, args, err := querysql.NewCompiler(dialect).CompilePredicate(res.Predicate)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to compile filter", err)
	}

	result := WhereResult{SQL: stmt, Args: args}
	for _, t := range res.Skipped {
		result.Skipped = append(result.Skipped, t.Column)
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, result.SQL)
	fmt.Fprintf(w, "args: %v\n", result.Args)
	if len(result.Skipped) > 0 {
		fmt.Fprintf(w, "skipped: %s\n", strings.Join(result.Skipped, ", "))
	}
	return nil
}

func parseDialect(name string) (querysql.Dialect, error) {
	switch name {
	case "sqlite":
		return querysql.SQLite, nil
	case "postgres":
		return querysql.Postgres, nil
	default:
		return 0, fmt.Errorf("unknown dialect %q: must be sqlite or postgres", name)
	}
}

// parseTypes reads col=kind pairs.
func parseTypes(pairs []string) (coerce.ColumnTypes, error) {
	types := coerce.ColumnTypes{}
	for _, p := range pairs {
		col, name, ok := strings.Cut(p, "=")
		if !ok || col == "" {
			return nil, fmt.Errorf("%q: expected col=kind", p)
		}
		kind, ok := ir.ParseKind(name)
		if !ok || kind == ir.KindNull {
			return nil, fmt.Errorf("%q: unknown kind %q", p, name)
		}
		types[col] = kind
	}
	return types, nil
}
