package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/edakit/internal/display"
	"github.com/KaramelBytes/edakit/pkg/eda"
	"github.com/spf13/cobra"
)

var (
	batchFlags sessionFlags
	batchQuiet bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <files...>",
	Short: "Run quicklook over multiple CSV/TSV/XLSX files, one figure directory per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		c := current()
		root := c.OutDir
		if root == "" {
			root = display.NewDir("").Path
		}
		out := cmd.OutOrStdout()
		used := map[string]bool{}
		total := len(files)
		for i, path := range files {
			if !batchQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			sf := batchFlags
			sf.outDir = figureDir(root, path, used)
			if batchQuiet {
				sf.out = io.Discard
			}
			s, shown, err := openSession(cmd, path, sf)
			if err != nil {
				return err
			}
			opt := eda.DefaultQuicklookOptions()
			opt.Bins = c.Bins
			opt.HeadRows = c.HeadRows
			opt.Method = c.CorrMethod
			if err := s.Quicklook(cmd.Context(), opt); err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
			reportFigures(out, shown)
		}
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, and drops
// duplicates. The result is sorted.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// figureDir names a per-file directory from the file stem, adding __2, __3
// and so on when two inputs share a stem.
func figureDir(root, path string, used map[string]bool) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if flagSheetName != "" {
		stem += "__sheet-" + sheetSlug(flagSheetName)
	}
	name := stem
	for idx := 2; used[name]; idx++ {
		name = fmt.Sprintf("%s__%d", stem, idx)
	}
	used[name] = true
	return filepath.Join(root, name)
}

func sheetSlug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	if ss := strings.Trim(b.String(), "-"); ss != "" {
		return ss
	}
	return "sheet"
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchFlags.bind(batchCmd)
	batchCmd.Flags().BoolVar(&batchQuiet, "quiet", false, "suppress progress and overview output")
}
