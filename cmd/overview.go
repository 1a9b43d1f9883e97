package cmd

import (
	"fmt"

	"github.com/KaramelBytes/edakit/internal/utils"
	"github.com/spf13/cobra"
)

var (
	ovHead int
	ovJSON bool
)

var overviewCmd = &cobra.Command{
	Use:   "overview <file>",
	Short: "Print shape, dtypes, missing counts, describe() and a head preview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openSession(cmd, args[0], sessionFlags{})
		if err != nil {
			return err
		}
		n := current().HeadRows
		if cmd.Flags().Changed("head") {
			n = ovHead
		}
		if !ovJSON {
			s.Overview(n)
			return nil
		}
		b, err := utils.PrettyJSON(s.Summary(n))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(overviewCmd)
	overviewCmd.Flags().IntVar(&ovHead, "head", 5, "number of rows to preview (overrides config head_rows)")
	overviewCmd.Flags().BoolVar(&ovJSON, "json", false, "print the summary as JSON")
}
