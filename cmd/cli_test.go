package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const sampleCSV = "A,B,label\n1,5,x\n2,6,y\n,7,x\n4,8,\n"

// resetFlags restores every flag to its default so state does not leak
// between invocations of the shared command tree.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		_ = fl.Value.Set(fl.DefValue)
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil
	var out, logs bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&logs)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\n%s", args, err, out)
	}
	return out
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "data.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestCLI_Overview(t *testing.T) {
	path := isolate(t)
	out := runCmd(t, "overview", path, "--head", "2")
	for _, want := range []string{"Data shape", "(4, 3)", "Missing values per column", "Head"} {
		if !strings.Contains(out, want) {
			t.Fatalf("overview output missing %q:\n%s", want, out)
		}
	}
}

func TestCLI_OverviewJSON(t *testing.T) {
	path := isolate(t)
	out := runCmd(t, "overview", path, "--json")
	var rep struct {
		Shape struct {
			Rows int `json:"rows"`
			Cols int `json:"cols"`
		} `json:"shape"`
		MissingCounts []struct {
			Column string `json:"column"`
			Count  int    `json:"count"`
		} `json:"missing_counts"`
	}
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if rep.Shape.Rows != 4 || rep.Shape.Cols != 3 {
		t.Fatalf("shape = %+v", rep.Shape)
	}
	if rep.MissingCounts[0].Column != "A" || rep.MissingCounts[0].Count != 1 {
		t.Fatalf("missing = %+v", rep.MissingCounts)
	}
}

func TestCLI_QuicklookWritesFigures(t *testing.T) {
	path := isolate(t)
	outDir := filepath.Join(t.TempDir(), "figs")
	out := runCmd(t, "quicklook", path, "--renderer", "basic", "--out-dir", outDir, "--target", "label", "--title", "Demo")
	if !strings.Contains(out, "✓ Wrote 4 figure(s)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("read out dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	want := []string{"01-missingness.png", "02-distributions.png", "03-correlation-pearson.png", "04-target-balance.png"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("figures = %v, want %v", names, want)
	}
}

func TestCLI_QuicklookGates(t *testing.T) {
	path := isolate(t)
	outDir := filepath.Join(t.TempDir(), "figs")
	out := runCmd(t, "quicklook", path, "--renderer", "basic", "--out-dir", outDir,
		"--no-distributions", "--no-correlation", "--no-missingness")
	if !strings.Contains(out, "Target column not set or not found") {
		t.Fatalf("expected target notice:\n%s", out)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Fatalf("no figure should be written, stat err = %v", err)
	}
}

func TestCLI_PlotCorrelationNeedsTwoColumns(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "one.csv")
	if err := os.WriteFile(path, []byte("x,s\n1,a\n2,b\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	out := runCmd(t, "plot", "correlation", path, "--renderer", "basic", "--out-dir", filepath.Join(home, "figs"))
	if !strings.Contains(out, "Not enough numeric columns to compute correlation.") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "✓ Wrote") {
		t.Fatalf("no figure expected:\n%s", out)
	}
}

func TestCLI_PlotErrors(t *testing.T) {
	path := isolate(t)
	if _, err := execCmd(t, "plot", "correlation", path, "--method", "cosine", "--renderer", "basic"); err == nil {
		t.Fatalf("expected unknown method error")
	}
	if _, err := execCmd(t, "plot", "missingness", path, "--renderer", "fancy"); err == nil {
		t.Fatalf("expected unknown renderer error")
	}
	if _, err := execCmd(t, "overview", filepath.Join(filepath.Dir(path), "x.parquet")); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfgPath := filepath.Join(home, "edakit.yaml")
	runCmd(t, "--config", cfgPath, "config", "set", "bins", "12")
	runCmd(t, "--config", cfgPath, "config", "set", "renderer", "basic")
	out := runCmd(t, "--config", cfgPath, "config", "show")
	if !strings.Contains(out, "bins: 12") || !strings.Contains(out, "renderer: basic") {
		t.Fatalf("config show:\n%s", out)
	}
	if _, err := execCmd(t, "--config", cfgPath, "config", "set", "renderer", "fancy"); err == nil {
		t.Fatalf("expected invalid renderer error")
	}
}

func TestCLI_BatchSeparatesFigureDirs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, d := range []string{"d1", "d2"} {
		dir := filepath.Join(home, d)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
		if err := os.WriteFile(filepath.Join(dir, "metrics.csv"), []byte(sampleCSV), 0o644); err != nil {
			t.Fatalf("write csv: %v", err)
		}
	}
	root := filepath.Join(home, "figs")
	out := runCmd(t, "batch", filepath.Join(home, "d*", "metrics.csv"), "--renderer", "basic", "--out-dir", root)
	if !strings.Contains(out, "[1/2] Processing metrics.csv...") || !strings.Contains(out, "[2/2] Processing metrics.csv...") {
		t.Fatalf("missing progress lines:\n%s", out)
	}
	for _, name := range []string{"metrics", "metrics__2"} {
		entries, err := os.ReadDir(filepath.Join(root, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		// No target set: missingness, distributions and correlation only.
		if len(entries) != 3 {
			t.Fatalf("%s has %d figures, want 3", name, len(entries))
		}
	}

	quiet := runCmd(t, "batch", filepath.Join(home, "d1", "metrics.csv"), "--renderer", "basic", "--out-dir", root, "--quiet")
	if strings.Contains(quiet, "Processing") || strings.Contains(quiet, "Data shape") {
		t.Fatalf("quiet output should only report figures:\n%s", quiet)
	}
}

func TestCLI_BatchNoMatches(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if _, err := execCmd(t, "batch", filepath.Join(home, "*.csv")); err == nil {
		t.Fatalf("expected no-match error")
	}
}
