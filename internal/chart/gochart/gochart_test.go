package gochart

import (
	"testing"

	"github.com/KaramelBytes/edakit/internal/chart"
	"github.com/KaramelBytes/edakit/internal/chart/chartest"
	"github.com/KaramelBytes/edakit/internal/stats"
)

func TestRendererConformance(t *testing.T) {
	chartest.Conformance(t, New())
}

func TestHistogramBarsLabelEveryFifthBin(t *testing.T) {
	bins := stats.Bins([]float64{0, 10}, 10)
	bc := histogramBars(chart.Histogram{Title: "x", Bins: bins})
	if len(bc.Values) != 10 || len(bc.Labels) != 10 {
		t.Fatalf("bars = %d labels = %d", len(bc.Values), len(bc.Labels))
	}
	if bc.Labels[0] != "0" || bc.Labels[5] != "5" || bc.Labels[1] != "" {
		t.Fatalf("labels = %#v", bc.Labels)
	}
}
