// Package backend selects the chart renderer for the process. The enhanced
// gonum/plot renderer is preferred; the go-chart renderer is the fallback when
// the enhanced one cannot draw in this environment.
package backend

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/KaramelBytes/edakit/internal/chart"
	"github.com/KaramelBytes/edakit/internal/chart/gochart"
	"github.com/KaramelBytes/edakit/internal/chart/gonumplot"
)

// Selection modes accepted by Select.
const (
	ModeAuto     = "auto"
	ModeEnhanced = gonumplot.Name
	ModeBasic    = gochart.Name
)

// Factory builds a renderer.
type Factory func() chart.Renderer

var registry = map[string]Factory{}

// Register makes a renderer available under name.
func Register(name string, f Factory) { registry[name] = f }

// Get creates the renderer registered under name.
func Get(name string) (chart.Renderer, bool) {
	if f, ok := registry[name]; ok {
		return f(), true
	}
	return nil, false
}

var (
	mu       sync.Mutex
	probed   sync.Once
	current  chart.Renderer
	probeErr error
)

// Probe checks once per process whether the enhanced renderer can draw and
// returns the renderer to use. The result is cached.
func Probe() chart.Renderer {
	probed.Do(func() {
		r, _ := Get(ModeEnhanced)
		if err := Check(r); err != nil {
			probeErr = err
			slog.Debug("enhanced renderer unavailable, using basic", "error", err)
			r, _ = Get(ModeBasic)
		}
		mu.Lock()
		if current == nil {
			current = r
		}
		mu.Unlock()
	})
	mu.Lock()
	defer mu.Unlock()
	return current
}

// ProbeError reports why the enhanced renderer was rejected, if it was.
func ProbeError() error {
	Probe()
	return probeErr
}

// Check renders a tiny chart to verify r works.
func Check(r chart.Renderer) error {
	if r == nil {
		return fmt.Errorf("renderer not registered")
	}
	fig, err := r.Bar(chart.BarChart{Name: "probe", Labels: []string{"a", "b"}, Values: []float64{1, 2}})
	if err != nil {
		return err
	}
	if fig == nil || len(fig.PNG) == 0 {
		return fmt.Errorf("%s renderer produced no image", r.Name())
	}
	return nil
}

// Select returns the renderer for a configured mode: auto probes, enhanced
// and basic force a backend.
func Select(mode string) (chart.Renderer, error) {
	m := strings.ToLower(strings.TrimSpace(mode))
	if m == "" || m == ModeAuto {
		return Probe(), nil
	}
	r, ok := Get(m)
	if !ok {
		return nil, fmt.Errorf("unknown renderer: %s (use auto, %s or %s)", mode, ModeEnhanced, ModeBasic)
	}
	return r, nil
}

// Default returns the process-wide renderer, probing on first use.
func Default() chart.Renderer {
	mu.Lock()
	r := current
	mu.Unlock()
	if r != nil {
		return r
	}
	return Probe()
}

// SetDefault installs r as the process-wide renderer, skipping the probe.
func SetDefault(r chart.Renderer) {
	mu.Lock()
	current = r
	mu.Unlock()
}

func init() {
	Register(ModeEnhanced, func() chart.Renderer { return gonumplot.New() })
	Register(ModeBasic, func() chart.Renderer { return gochart.New() })
}
