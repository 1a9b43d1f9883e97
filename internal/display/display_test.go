package display

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/edakit/internal/chart"
)

func TestDirWritesNumberedFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "figs")
	d := NewDir(dir)
	ctx := context.Background()
	if err := d.Show(ctx, &chart.Figure{Name: "Missingness", PNG: []byte("one")}); err != nil {
		t.Fatalf("show 1: %v", err)
	}
	if err := d.Show(ctx, &chart.Figure{Name: "Target Balance: y", PNG: []byte("two")}); err != nil {
		t.Fatalf("show 2: %v", err)
	}
	want := []string{
		filepath.Join(dir, "01-missingness.png"),
		filepath.Join(dir, "02-target-balance-y.png"),
	}
	if len(d.Shown) != 2 || d.Shown[0] != want[0] || d.Shown[1] != want[1] {
		t.Fatalf("shown = %#v, want %#v", d.Shown, want)
	}
	b, err := os.ReadFile(want[1])
	if err != nil || string(b) != "two" {
		t.Fatalf("read %s: %q %v", want[1], b, err)
	}
	if _, err := os.Stat(want[1] + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestDirHonorsCancelledContext(t *testing.T) {
	d := NewDir(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Show(ctx, &chart.Figure{Name: "x"}); err == nil {
		t.Fatalf("expected context error")
	}
	if len(d.Shown) != 0 {
		t.Fatalf("nothing should be written")
	}
}

func TestNewDirDefaultsUnderTemp(t *testing.T) {
	d := NewDir("")
	if filepath.Dir(filepath.Dir(d.Path)) != filepath.Clean(os.TempDir()) {
		t.Fatalf("default path %s not under %s", d.Path, os.TempDir())
	}
}

func TestFuncAdapter(t *testing.T) {
	var got string
	var d Display = Func(func(_ context.Context, fig *chart.Figure) error {
		got = fig.Name
		return nil
	})
	if err := d.Show(context.Background(), &chart.Figure{Name: "heat"}); err != nil || got != "heat" {
		t.Fatalf("got %q err %v", got, err)
	}
}
