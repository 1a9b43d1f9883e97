// Package ui prints the CLI's status lines with optional terminal color.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
)

// ColorMode determines when to use colored output.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode reads "auto", "always" or "never".
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("invalid color mode: %s (use auto, always or never)", s)
}

// UI writes ✓/⚠/✗ prefixed lines to one writer. NO_COLOR disables color.
type UI struct {
	out *termenv.Output
}

// New returns a UI writing to w. In auto mode color is used only when w is a
// terminal that supports it.
func New(w io.Writer, mode ColorMode) *UI {
	if os.Getenv("NO_COLOR") != "" {
		mode = ColorNever
	}
	var opts []termenv.OutputOption
	switch mode {
	case ColorNever:
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	case ColorAlways:
		opts = append(opts, termenv.WithProfile(termenv.ANSI256))
	}
	return &UI{out: termenv.NewOutput(w, opts...)}
}

func (u *UI) line(prefix string, c termenv.Color, format string, args []any) {
	msg := prefix + " " + fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintln(u.out, u.out.String(msg).Foreground(c))
}

// Success prints a green "✓" line.
func (u *UI) Success(format string, args ...any) {
	u.line("✓", termenv.ANSIGreen, format, args)
}

// Warning prints a yellow "⚠" line.
func (u *UI) Warning(format string, args ...any) {
	u.line("⚠", termenv.ANSIYellow, format, args)
}

// Error prints a red "✗" line.
func (u *UI) Error(format string, args ...any) {
	u.line("✗", termenv.ANSIRed, format, args)
}
