package cmd

import (
	"github.com/spf13/cobra"
)

var (
	plotFlags   sessionFlags
	plotColumns string
	plotBins    int
	plotMethod  string
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render a single exploratory plot",
}

var plotMissingnessCmd = &cobra.Command{
	Use:   "missingness <file>",
	Short: "Bar chart of the fraction of missing values per column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, dir, err := openSession(cmd, args[0], plotFlags)
		if err != nil {
			return err
		}
		if err := s.PlotMissingness(cmd.Context()); err != nil {
			return err
		}
		reportFigures(cmd.OutOrStdout(), dir)
		return nil
	},
}

var plotDistributionsCmd = &cobra.Command{
	Use:   "distributions <file>",
	Short: "Histogram grid with density curves for numeric columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, dir, err := openSession(cmd, args[0], plotFlags)
		if err != nil {
			return err
		}
		bins := current().Bins
		if cmd.Flags().Changed("bins") {
			bins = plotBins
		}
		if err := s.PlotDistributions(cmd.Context(), splitColumns(plotColumns), bins); err != nil {
			return err
		}
		reportFigures(cmd.OutOrStdout(), dir)
		return nil
	},
}

var plotCorrelationCmd = &cobra.Command{
	Use:   "correlation <file>",
	Short: "Correlation heatmap across numeric columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, dir, err := openSession(cmd, args[0], plotFlags)
		if err != nil {
			return err
		}
		method := current().CorrMethod
		if cmd.Flags().Changed("method") {
			method = plotMethod
		}
		if _, err := s.PlotCorrelation(cmd.Context(), method); err != nil {
			return err
		}
		reportFigures(cmd.OutOrStdout(), dir)
		return nil
	},
}

var plotTargetCmd = &cobra.Command{
	Use:   "target <file>",
	Short: "Bar chart of category counts for the target column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, dir, err := openSession(cmd, args[0], plotFlags)
		if err != nil {
			return err
		}
		if err := s.PlotTargetBalance(cmd.Context()); err != nil {
			return err
		}
		reportFigures(cmd.OutOrStdout(), dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)
	for _, c := range []*cobra.Command{plotMissingnessCmd, plotDistributionsCmd, plotCorrelationCmd, plotTargetCmd} {
		plotFlags.bind(c)
		plotCmd.AddCommand(c)
	}
	plotDistributionsCmd.Flags().StringVar(&plotColumns, "columns", "", "comma-separated numeric columns (default: all numeric)")
	plotDistributionsCmd.Flags().IntVar(&plotBins, "bins", 30, "histogram bins per column (overrides config)")
	plotCorrelationCmd.Flags().StringVar(&plotMethod, "method", "pearson", "correlation method: pearson | spearman | kendall")
}
