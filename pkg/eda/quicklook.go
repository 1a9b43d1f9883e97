package eda

import (
	"context"

	"github.com/KaramelBytes/edakit/internal/stats"
)

// QuicklookOptions gates the plots run by Quicklook.
type QuicklookOptions struct {
	Distributions bool
	Correlation   bool
	Missingness   bool
	TargetBalance bool
	// Bins for the distribution grid; zero means stats.DefaultBins.
	Bins int
	// Method for the correlation heatmap; empty means pearson.
	Method string
	// HeadRows for the overview preview; zero or negative means DefaultHeadRows.
	HeadRows int
}

// DefaultQuicklookOptions enables every plot.
func DefaultQuicklookOptions() QuicklookOptions {
	return QuicklookOptions{
		Distributions: true,
		Correlation:   true,
		Missingness:   true,
		TargetBalance: true,
		Method:        stats.Pearson,
		HeadRows:      DefaultHeadRows,
	}
}

// Quicklook prints the overview, then renders missingness, distributions,
// correlation and target balance in that order, skipping disabled plots.
// The first failing plot stops the run.
func (s *Session) Quicklook(ctx context.Context, opt QuicklookOptions) error {
	head := opt.HeadRows
	if head <= 0 {
		head = DefaultHeadRows
	}
	s.Overview(head)
	if opt.Missingness {
		if err := s.PlotMissingness(ctx); err != nil {
			return err
		}
	}
	if opt.Distributions {
		if err := s.PlotDistributions(ctx, nil, opt.Bins); err != nil {
			return err
		}
	}
	if opt.Correlation {
		if _, err := s.PlotCorrelation(ctx, opt.Method); err != nil {
			return err
		}
	}
	if opt.TargetBalance {
		if err := s.PlotTargetBalance(ctx); err != nil {
			return err
		}
	}
	return nil
}
