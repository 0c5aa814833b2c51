package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/jqgrid/internal/harness"
)

// RenderResult is the served page of a scenario.
type RenderResult struct {
	Name    string   `json:"name"`
	Body    string   `json:"body"`
	Page    int      `json:"page"`
	Total   int      `json:"total"`
	Records int      `json:"records"`
	Skipped []string `json:"skipped,omitempty"`
	Pass    bool     `json:"pass"`
	Errors  []string `json:"errors,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <scenario.yaml>",
		Short: "Serve a scenario's grid request and print the body",
		Long: `Load a YAML scenario, serve its grid request from an in-memory table
and print the grid JSON body.

Exit codes:
  0 - Body printed and every expectation matched
  1 - The scenario's expectations did not match
  2 - Command error (unreadable or invalid scenario)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runRender(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter, logger := opts.session(cmd)

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	if opts.DateFormat != "" {
		scenario.DateFormat = opts.DateFormat
	}

	result, err := harness.New(harness.WithLogger(logger)).Run(cmd.Context(), scenario)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	if opts.Format == "json" {
		if err := formatter.Success(RenderResult{
			Name:    scenario.Name,
			Body:    result.Body,
			Page:    result.Page,
			Total:   result.Total,
			Records: result.Records,
			Skipped: result.Skipped,
			Pass:    result.Pass,
			Errors:  result.Errors,
		}); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), result.Body)
		for _, e := range result.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s\n", e)
		}
	}

	if !result.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s: %d expectation(s) failed", scenario.Name, len(result.Errors)))
	}
	return nil
}
