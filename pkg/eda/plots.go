package eda

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/edakit/internal/chart"
	"github.com/KaramelBytes/edakit/internal/stats"
)

// Diagnostics written to the output stream when a plot has nothing to draw.
const (
	MsgNoNumeric      = "No numeric columns to plot."
	MsgNotEnoughCorr  = "Not enough numeric columns to compute correlation."
	MsgTargetNotFound = "Target column not set or not found; skipping target balance plot."
)

const densityPoints = 200

// PlotMissingness renders the fraction of missing values per column, highest
// first.
func (s *Session) PlotMissingness(ctx context.Context) error {
	fr := stats.MissingFractions(s.df)
	bc := chart.BarChart{
		Name:         "missingness",
		Title:        s.title("Missingness by Column"),
		YLabel:       "Fraction Missing",
		Labels:       make([]string, len(fr)),
		Values:       make([]float64, len(fr)),
		Color:        chart.BarColor,
		RotateLabels: true,
	}
	for i, f := range fr {
		bc.Labels[i] = f.Column
		bc.Values[i] = f.Fraction
	}
	fig, err := s.renderer.Bar(bc)
	return s.show(ctx, fig, err)
}

// NumericSelection resolves the columns a numeric plot should use. A nil
// list means every numeric column. Names that are not numeric columns of the
// table are dropped and reported.
func (s *Session) NumericSelection(columns []string) (cols, dropped []string) {
	numeric := stats.NumericColumns(s.df)
	if columns == nil {
		return numeric, nil
	}
	ok := make(map[string]bool, len(numeric))
	for _, c := range numeric {
		ok[c] = true
	}
	cols = []string{}
	seen := map[string]bool{}
	for _, c := range columns {
		switch {
		case !ok[c]:
			dropped = append(dropped, c)
		case !seen[c]:
			seen[c] = true
			cols = append(cols, c)
		}
	}
	return cols, dropped
}

// PlotDistributions renders one histogram per numeric column in a grid three
// panels wide, with a density curve where the data allows one. bins <= 0
// uses stats.DefaultBins.
func (s *Session) PlotDistributions(ctx context.Context, columns []string, bins int) error {
	cols, dropped := s.NumericSelection(columns)
	if len(dropped) > 0 {
		s.notice(fmt.Sprintf("Skipping non-numeric or unknown columns: %s", strings.Join(dropped, ", ")))
	}
	if len(cols) == 0 {
		s.notice(MsgNoNumeric)
		return nil
	}
	if bins <= 0 {
		bins = stats.DefaultBins
	}
	rows, ncols := chart.GridShape(len(cols), chart.GridCols)
	grid := chart.HistogramGrid{
		Name:   "distributions",
		Title:  s.title("Numeric Distributions"),
		Rows:   rows,
		Cols:   ncols,
		Panels: make([]chart.Histogram, len(cols)),
	}
	for i, c := range cols {
		vals := stats.Present(s.df.Col(c))
		b := stats.Bins(vals, bins)
		grid.Panels[i] = chart.Histogram{
			Title:   c,
			Bins:    b,
			Density: stats.Density(vals, b, densityPoints),
		}
	}
	s.log.Debug("distributions", "columns", cols, "bins", bins)
	fig, err := s.renderer.Histograms(grid)
	return s.show(ctx, fig, err)
}

// Correlation computes the correlation matrix over all numeric columns.
func (s *Session) Correlation(method string) (*stats.CorrMatrix, error) {
	return stats.Correlate(s.df, stats.NumericColumns(s.df), method)
}

// PlotCorrelation renders a heatmap of pairwise correlations between numeric
// columns and returns the matrix. With fewer than two numeric columns it
// writes a diagnostic and returns nil without rendering.
func (s *Session) PlotCorrelation(ctx context.Context, method string) (*stats.CorrMatrix, error) {
	m, err := stats.NormalizeMethod(method)
	if err != nil {
		return nil, err
	}
	cm, err := s.Correlation(m)
	if errors.Is(err, stats.ErrInsufficientColumns) {
		s.notice(MsgNotEnoughCorr)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	hm := chart.Heatmap{
		Name:   "correlation-" + m,
		Title:  s.title(fmt.Sprintf("Correlation Heatmap (%s)", m)),
		Labels: cm.Columns,
		Values: cm.Values,
		Min:    -1,
		Max:    1,
		Center: 0,
	}
	fig, err := s.renderer.Heatmap(hm)
	if err := s.show(ctx, fig, err); err != nil {
		return nil, err
	}
	return cm, nil
}

// ValueCounts counts the target column's categories, missing included. ok is
// false when no target is set or the table lacks it.
func (s *Session) ValueCounts() (counts []stats.CategoryCount, ok bool) {
	if s.target == "" || !stats.HasColumn(s.df, s.target) {
		return nil, false
	}
	return stats.ValueCounts(s.df.Col(s.target)), true
}

// PlotTargetBalance renders the count of each target category.
func (s *Session) PlotTargetBalance(ctx context.Context) error {
	counts, ok := s.ValueCounts()
	if !ok {
		s.notice(MsgTargetNotFound)
		return nil
	}
	bc := chart.BarChart{
		Name:   "target-balance",
		Title:  s.title("Target Balance: " + s.target),
		XLabel: s.target,
		YLabel: "Count",
		Labels: make([]string, len(counts)),
		Values: make([]float64, len(counts)),
		Color:  chart.BalanceColor,
	}
	for i, c := range counts {
		bc.Labels[i] = c.Value
		bc.Values[i] = float64(c.Count)
	}
	fig, err := s.renderer.Bar(bc)
	return s.show(ctx, fig, err)
}
