// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

func newHandler(w io.Writer, json, debug bool) slog.Handler {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}
	if json {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Setup installs a text logger as the slog default. Debug lowers the level
// from Info to Debug. A nil writer means os.Stderr.
func Setup(debug bool, w io.Writer) *slog.Logger {
	return install(newHandler(w, false, debug))
}

// SetupJSON is Setup with a JSON handler.
func SetupJSON(debug bool, w io.Writer) *slog.Logger {
	return install(newHandler(w, true, debug))
}

// Configure picks the handler by format name ("text" or "json").
func Configure(format string, debug bool, w io.Writer) *slog.Logger {
	if strings.EqualFold(format, "json") {
		return SetupJSON(debug, w)
	}
	return Setup(debug, w)
}

func install(h slog.Handler) *slog.Logger {
	l := slog.New(h)
	slog.SetDefault(l)
	return l
}
