// Package display receives rendered figures. It is the "show now" step of an
// EDA session: every figure is handed to a Display as soon as it is drawn.
package display

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/KaramelBytes/edakit/internal/chart"
	"github.com/KaramelBytes/edakit/internal/utils"
	"github.com/google/uuid"
)

// Display shows a rendered figure before returning.
type Display interface {
	Show(ctx context.Context, fig *chart.Figure) error
}

// Func adapts a function to Display.
type Func func(ctx context.Context, fig *chart.Figure) error

func (f Func) Show(ctx context.Context, fig *chart.Figure) error { return f(ctx, fig) }

// Dir writes each figure as a numbered PNG into a directory.
type Dir struct {
	Path string
	Log  *slog.Logger

	mu   sync.Mutex
	seq  int
	made bool
	// Shown lists the files written so far.
	Shown []string
}

// NewDir returns a directory display. An empty path selects a fresh
// directory under the OS temp dir.
func NewDir(path string) *Dir {
	if path == "" {
		path = filepath.Join(os.TempDir(), "edakit", uuid.NewString())
	}
	return &Dir{Path: path}
}

// Show writes fig to <dir>/<seq>-<name>.png, creating the directory on first use.
func (d *Dir) Show(ctx context.Context, fig *chart.Figure) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if fig == nil {
		return fmt.Errorf("show: nil figure")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.made {
		if err := os.MkdirAll(d.Path, 0o755); err != nil {
			return fmt.Errorf("create figure dir: %w", err)
		}
		d.made = true
	}
	d.seq++
	name := fmt.Sprintf("%02d-%s.png", d.seq, slug(fig.Name))
	path := filepath.Join(d.Path, name)
	if err := utils.SafeWriteFile(path, fig.PNG); err != nil {
		return fmt.Errorf("show %s: %w", fig.Name, err)
	}
	d.Shown = append(d.Shown, path)
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	log.Info("figure written", "title", fig.Title, "path", path, "width", fig.Width, "height", fig.Height)
	return nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slug(s string) string {
	s = strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if s == "" {
		return "figure"
	}
	return s
}
