// Package logging configures the single package-level slog logger every
// binary in this module shares. Piped output gets terse, source-free logs;
// an interactive terminal gets source locations attached, matching the
// single behavioral fork description in design doc Section 2 (Ambient
// stack — Logging).
package logging

import (
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
)

// Setup installs the default slog logger for level and returns it.
func Setup(level slog.Level) *slog.Logger {
	interactive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	opts := &slog.HandlerOptions{Level: level, AddSource: interactive}
	logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
	slog.SetDefault(logger)
	return logger
}
