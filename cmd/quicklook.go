package cmd

import (
	"github.com/KaramelBytes/edakit/pkg/eda"
	"github.com/spf13/cobra"
)

var (
	qlFlags       sessionFlags
	qlNoDist      bool
	qlNoCorr      bool
	qlNoMissing   bool
	qlNoTargetBal bool
)

var quicklookCmd = &cobra.Command{
	Use:   "quicklook <file>",
	Short: "Overview plus every standard plot in one run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, dir, err := openSession(cmd, args[0], qlFlags)
		if err != nil {
			return err
		}
		c := current()
		opt := eda.DefaultQuicklookOptions()
		opt.Distributions = !qlNoDist
		opt.Correlation = !qlNoCorr
		opt.Missingness = !qlNoMissing
		opt.TargetBalance = !qlNoTargetBal
		opt.Bins = c.Bins
		opt.HeadRows = c.HeadRows
		opt.Method = c.CorrMethod
		if err := s.Quicklook(cmd.Context(), opt); err != nil {
			return err
		}
		reportFigures(cmd.OutOrStdout(), dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(quicklookCmd)
	qlFlags.bind(quicklookCmd)
	quicklookCmd.Flags().BoolVar(&qlNoDist, "no-distributions", false, "skip the distributions grid")
	quicklookCmd.Flags().BoolVar(&qlNoCorr, "no-correlation", false, "skip the correlation heatmap")
	quicklookCmd.Flags().BoolVar(&qlNoMissing, "no-missingness", false, "skip the missingness chart")
	quicklookCmd.Flags().BoolVar(&qlNoTargetBal, "no-target-balance", false, "skip the target balance chart")
}
