package contract

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns the run logger: a text handler on stderr at debug level when verbose,
// a discarding logger otherwise.
func NewLogger(verbose bool) *slog.Logger {
	if !verbose {
		return NewDiscardLogger()
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// NewDiscardLogger returns a logger that drops every record.
func NewDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(100)}))
}
