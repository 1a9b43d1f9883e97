// Package chartest holds renderer conformance checks shared by the backend
// test suites, plus a recording renderer for callers that must assert which
// charts were drawn.
package chartest

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/KaramelBytes/edakit/internal/chart"
	"github.com/KaramelBytes/edakit/internal/stats"
)

// Recorder is a Renderer that keeps every chart it is asked to draw and
// returns a placeholder figure.
type Recorder struct {
	Bars  []chart.BarChart
	Grids []chart.HistogramGrid
	Heats []chart.Heatmap
}

func (r *Recorder) Name() string { return "recorder" }

// Calls is the total number of render calls received.
func (r *Recorder) Calls() int { return len(r.Bars) + len(r.Grids) + len(r.Heats) }

func (r *Recorder) Bar(bc chart.BarChart) (*chart.Figure, error) {
	r.Bars = append(r.Bars, bc)
	return &chart.Figure{Name: bc.Name, Title: bc.Title, PNG: []byte("bar")}, nil
}

func (r *Recorder) Histograms(g chart.HistogramGrid) (*chart.Figure, error) {
	r.Grids = append(r.Grids, g)
	return &chart.Figure{Name: g.Name, Title: g.Title, PNG: []byte("hist")}, nil
}

func (r *Recorder) Heatmap(hm chart.Heatmap) (*chart.Figure, error) {
	r.Heats = append(r.Heats, hm)
	return &chart.Figure{Name: hm.Name, Title: hm.Title, PNG: []byte("heat")}, nil
}

// Conformance renders each chart kind with r and checks the output decodes as
// a PNG of the advertised size.
func Conformance(t *testing.T, r chart.Renderer) {
	t.Helper()
	vals := []float64{1, 2, 2, 3, 3, 3, 4, 4, 5, 9}
	bins := stats.Bins(vals, 8)
	cases := []struct {
		name   string
		render func() (*chart.Figure, error)
	}{
		{"bar", func() (*chart.Figure, error) {
			return r.Bar(chart.BarChart{
				Name: "missingness", Title: "Missingness by Column", YLabel: "Fraction Missing",
				Labels: []string{"a", "b", "c"}, Values: []float64{0.5, 0.25, 0}, YMax: 1, RotateLabels: true,
			})
		}},
		{"empty bar", func() (*chart.Figure, error) {
			return r.Bar(chart.BarChart{Name: "missingness", Title: "Missingness by Column"})
		}},
		{"all-zero bar", func() (*chart.Figure, error) {
			return r.Bar(chart.BarChart{Name: "zero", Title: "zero", Labels: []string{"a"}, Values: []float64{0}})
		}},
		{"histograms", func() (*chart.Figure, error) {
			return r.Histograms(chart.HistogramGrid{
				Name: "distributions", Title: "Numeric Distributions", Rows: 2, Cols: 3,
				Panels: []chart.Histogram{
					{Title: "x", Bins: bins, Density: stats.Density(vals, bins, 50)},
					{Title: "y", Bins: stats.Bins([]float64{7}, 30)},
					{Title: "all missing"},
					{Title: "z", Bins: bins},
				},
			})
		}},
		{"heatmap", func() (*chart.Figure, error) {
			return r.Heatmap(chart.Heatmap{
				Name: "correlation", Title: "Correlation Heatmap (pearson)",
				Labels: []string{"a", "b", "c"},
				Values: [][]float64{{1, 0.5, -0.2}, {0.5, 1, 0}, {-0.2, 0, 1}},
				Min:    -1, Max: 1,
			})
		}},
	}
	for _, tc := range cases {
		fig, err := tc.render()
		if err != nil {
			t.Fatalf("%s %s: %v", r.Name(), tc.name, err)
		}
		img, err := png.Decode(bytes.NewReader(fig.PNG))
		if err != nil {
			t.Fatalf("%s %s: decode png: %v", r.Name(), tc.name, err)
		}
		b := img.Bounds()
		if abs(b.Dx()-fig.Width) > 1 || abs(b.Dy()-fig.Height) > 1 {
			t.Fatalf("%s %s: image %dx%d, figure says %dx%d", r.Name(), tc.name, b.Dx(), b.Dy(), fig.Width, fig.Height)
		}
	}
	if _, err := r.Heatmap(chart.Heatmap{Title: "empty"}); err == nil {
		t.Fatalf("%s: expected error for empty heatmap", r.Name())
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
