// Package logging provides the diagnostic logger for rootproof.
//
// Diagnostics go to stderr so that report output on stdout stays clean for
// piping. The logger is built on log/slog; --verbose lowers the level to
// Debug and --quiet raises it above Error, silencing everything.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Level selects how chatty the diagnostic stream is.
type Level int

const (
	LevelQuiet Level = iota
	LevelNormal
	LevelVerbose
)

// New returns a logger writing human-readable diagnostics to w.
func New(w io.Writer, level Level) *slog.Logger {
	if level == LevelQuiet {
		return slog.New(slog.DiscardHandler)
	}

	slogLevel := slog.LevelWarn
	if level == LevelVerbose {
		slogLevel = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slogLevel,
	}))
}

// Default returns the stderr logger at normal verbosity.
func Default() *slog.Logger {
	return New(os.Stderr, LevelNormal)
}
