// Package eda wraps a table in a Session that prints summary statistics and
// renders the standard exploratory plots: missingness, numeric
// distributions, a correlation heatmap and target balance.
//
// A Session never modifies its table. Figures are drawn by a Renderer and
// handed to a Display as soon as each one is complete.
package eda

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/KaramelBytes/edakit/internal/chart"
	"github.com/KaramelBytes/edakit/internal/chart/backend"
	"github.com/KaramelBytes/edakit/internal/display"
	"github.com/go-gota/gota/dataframe"
)

type (
	// Renderer draws chart descriptions into figures.
	Renderer = chart.Renderer
	// Display receives each figure once it is rendered.
	Display = display.Display
	// Figure is a rendered PNG chart.
	Figure = chart.Figure
)

// Session holds one table plus the settings shared by every report.
type Session struct {
	df       dataframe.DataFrame
	target   string
	prefix   string
	out      io.Writer
	renderer Renderer
	display  Display
	log      *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithTarget names the column used by PlotTargetBalance.
func WithTarget(column string) Option {
	return func(s *Session) { s.target = column }
}

// WithTitlePrefix is prepended to every figure title as "<prefix> - ".
func WithTitlePrefix(prefix string) Option {
	return func(s *Session) { s.prefix = prefix }
}

// WithOutput sets the stream for the overview text and diagnostics.
func WithOutput(w io.Writer) Option {
	return func(s *Session) { s.out = w }
}

// WithRenderer overrides the process-wide renderer.
func WithRenderer(r Renderer) Option {
	return func(s *Session) { s.renderer = r }
}

// WithDisplay sets where figures go. The default writes PNG files to a
// fresh directory under the OS temp dir.
func WithDisplay(d Display) Option {
	return func(s *Session) { s.display = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// New returns a session over df.
func New(df dataframe.DataFrame, opts ...Option) *Session {
	s := &Session{df: df}
	for _, o := range opts {
		o(s)
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.renderer == nil {
		s.renderer = backend.Default()
	}
	if s.display == nil {
		d := display.NewDir("")
		d.Log = s.log
		s.display = d
	}
	s.log.Debug("eda session", "rows", df.Nrow(), "cols", df.Ncol(), "target", s.target, "renderer", s.renderer.Name())
	return s
}

// Target returns the configured target column, possibly empty.
func (s *Session) Target() string { return s.target }

// Table returns the wrapped table.
func (s *Session) Table() dataframe.DataFrame { return s.df }

func (s *Session) title(t string) string {
	return prefixed(s.prefix, t)
}

func prefixed(prefix, t string) string {
	if prefix == "" {
		return t
	}
	return prefix + " - " + t
}

// notice writes a non-fatal diagnostic to the output stream.
func (s *Session) notice(msg string) {
	fmt.Fprintln(s.out, msg)
	s.log.Debug("eda notice", "msg", msg)
}

func (s *Session) show(ctx context.Context, fig *Figure, err error) error {
	if err != nil {
		return fmt.Errorf("render %s: %w", s.renderer.Name(), err)
	}
	s.log.Debug("figure rendered", "figure", fig.Name, "renderer", s.renderer.Name(), "bytes", len(fig.PNG))
	if err := s.display.Show(ctx, fig); err != nil {
		return fmt.Errorf("display %s: %w", fig.Name, err)
	}
	return nil
}
