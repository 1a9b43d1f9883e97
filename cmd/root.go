package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"

	cfgpkg "github.com/KaramelBytes/edakit/internal/config"
	"github.com/KaramelBytes/edakit/internal/logging"
	"github.com/KaramelBytes/edakit/internal/ui"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool

	// Overrides for config values, applied when Changed.
	flagRenderer string
	flagOutDir   string
	flagColor    string

	// Table loading
	flagDelimiter  string
	flagDecimal    string
	flagSheetName  string
	flagSheetIndex int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "edakit",
	Short: "edakit: quick exploratory data analysis for CSV/TSV/XLSX tables",
	Long: `edakit loads a table and prints summary statistics or renders the standard
exploratory plots (missingness, distributions, correlation, target balance) as PNG files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := ui.ParseColorMode(flagColor); err != nil {
			return err
		}
		format := "text"
		if cfg != nil {
			format = cfg.LogFormat
		}
		logging.Configure(format, debug, cmd.ErrOrStderr())
		return nil
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		console(os.Stderr).Error("Error: %v", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.edakit/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "enable debug output")
	pf.StringVar(&flagRenderer, "renderer", "auto", "chart backend: auto | enhanced | basic (overrides config)")
	pf.StringVar(&flagColor, "color", "auto", "colored status lines: auto | always | never")
	pf.StringVar(&flagOutDir, "out-dir", "", "directory for rendered PNG figures (overrides config; default is a temp dir)")
	pf.StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (sniffed if omitted)")
	pf.StringVar(&flagDecimal, "decimal", "", "decimal separator for text numbers: '.' | 'comma'")
	pf.StringVar(&flagSheetName, "sheet-name", "", "XLSX: sheet name to load")
	pf.IntVar(&flagSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults
		console(os.Stderr).Warning("Warning: failed to load config: %v", err)
		c = defaultConfig()
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("renderer") {
		cfg.Renderer = flagRenderer
	}
	if f.Changed("out-dir") {
		cfg.OutDir = flagOutDir
	}
	if f.Changed("delimiter") {
		cfg.Delimiter = flagDelimiter
	}
}

// console returns a status printer honoring --color.
func console(w io.Writer) *ui.UI {
	mode, _ := ui.ParseColorMode(flagColor)
	return ui.New(w, mode)
}

func defaultConfig() *cfgpkg.Global {
	return &cfgpkg.Global{
		Renderer:   "auto",
		HeadRows:   5,
		Bins:       30,
		CorrMethod: "pearson",
		LogFormat:  "text",
	}
}
