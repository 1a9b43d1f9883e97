package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/KaramelBytes/edakit/internal/chart/backend"
	cfgpkg "github.com/KaramelBytes/edakit/internal/config"
	"github.com/KaramelBytes/edakit/internal/display"
	"github.com/KaramelBytes/edakit/internal/table"
	"github.com/KaramelBytes/edakit/pkg/eda"
	"github.com/spf13/cobra"
)

// sessionFlags are shared by every command that builds an EDA session.
type sessionFlags struct {
	target string
	title  string

	// Set by callers, not bound to flags.
	outDir string
	out    io.Writer
}

func (sf *sessionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sf.target, "target", "", "target column for the balance plot")
	cmd.Flags().StringVar(&sf.title, "title", "", "prefix for every figure title (overrides config)")
}

func current() *cfgpkg.Global {
	if cfg == nil {
		cfg = defaultConfig()
	}
	return cfg
}

// tableOptions maps the loading flags and config onto table.Options.
func tableOptions() (table.Options, error) {
	opt := table.DefaultOptions()
	c := current()
	delim := flagDelimiter
	if delim == "" {
		delim = c.Delimiter
	}
	switch delim {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", delim)
	}
	switch strings.ToLower(strings.TrimSpace(flagDecimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot", "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", flagDecimal)
	}
	if len(c.NAValues) > 0 {
		opt.NAValues = c.NAValues
	}
	opt.SheetName = flagSheetName
	opt.SheetIndex = flagSheetIndex
	return opt, nil
}

// openSession loads path and wraps it in a session that renders with the
// configured backend and writes figures to the configured directory.
func openSession(cmd *cobra.Command, path string, sf sessionFlags) (*eda.Session, *display.Dir, error) {
	opt, err := tableOptions()
	if err != nil {
		return nil, nil, err
	}
	df, err := table.Load(path, opt)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	c := current()
	r, err := backend.Select(c.Renderer)
	if err != nil {
		return nil, nil, err
	}
	if perr := backend.ProbeError(); perr != nil && r.Name() == backend.ModeBasic {
		slog.Debug("enhanced renderer rejected", "error", perr)
	}
	outDir := c.OutDir
	if sf.outDir != "" {
		outDir = sf.outDir
	}
	out := sf.out
	if out == nil {
		out = cmd.OutOrStdout()
	}
	dir := display.NewDir(outDir)
	prefix := c.TitlePrefix
	if sf.title != "" {
		prefix = sf.title
	}
	s := eda.New(df,
		eda.WithTarget(sf.target),
		eda.WithTitlePrefix(prefix),
		eda.WithOutput(out),
		eda.WithRenderer(r),
		eda.WithDisplay(dir),
		eda.WithLogger(slog.Default()),
	)
	return s, dir, nil
}

func reportFigures(w io.Writer, dir *display.Dir) {
	if len(dir.Shown) == 0 {
		return
	}
	console(w).Success("Wrote %d figure(s) to %s", len(dir.Shown), dir.Path)
}

func splitColumns(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
