package cli

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// session returns the formatter and logger for one command run. Both
// carry the same fresh UUIDv7 request id.
func (o *RootOptions) session(cmd *cobra.Command) (*OutputFormatter, *slog.Logger) {
	id := uuid.Must(uuid.NewV7()).String()
	formatter := o.formatter(cmd)
	formatter.RequestID = id
	return formatter, newLogger(o, cmd).With("request_id", id)
}

// newLogger returns a text logger on the command's stderr, at debug level
// with --verbose.
func newLogger(opts *RootOptions, cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
