package eda

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/edakit/internal/chart"
	"github.com/KaramelBytes/edakit/internal/chart/chartest"
	"github.com/KaramelBytes/edakit/internal/display"
	"github.com/KaramelBytes/edakit/internal/stats"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func exampleFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{"1", "2", "NaN", "4"}, series.Float, "A"),
		series.New([]int{5, 6, 7, 8}, series.Int, "B"),
		series.New([]string{"x", "y", "x", "NaN"}, series.String, "label"),
	)
}

type harness struct {
	rec   *chartest.Recorder
	out   *bytes.Buffer
	shown []string
}

func newSession(t *testing.T, df dataframe.DataFrame, opts ...Option) (*Session, *harness) {
	t.Helper()
	h := &harness{rec: &chartest.Recorder{}, out: &bytes.Buffer{}}
	show := display.Func(func(_ context.Context, fig *chart.Figure) error {
		h.shown = append(h.shown, fig.Name)
		return nil
	})
	base := []Option{WithRenderer(h.rec), WithDisplay(show), WithOutput(h.out)}
	return New(df, append(base, opts...)...), h
}

func TestOverviewShapeAndMissing(t *testing.T) {
	s, h := newSession(t, exampleFrame())
	for _, n := range []int{-1, 0, 2, 10} {
		rep := s.Overview(n)
		if rep.Shape != (Shape{Rows: 4, Cols: 3}) {
			t.Fatalf("Overview(%d).Shape = %+v", n, rep.Shape)
		}
	}
	rep := s.Overview(2)
	if got := rep.Missing("A"); got != 1 {
		t.Fatalf("missing A = %d, want 1", got)
	}
	if got := rep.Missing("B"); got != 0 {
		t.Fatalf("missing B = %d, want 0", got)
	}
	if got := rep.Missing("label"); got != 1 {
		t.Fatalf("missing label = %d, want 1", got)
	}
	if len(rep.Head) != 2 {
		t.Fatalf("head rows = %d, want 2", len(rep.Head))
	}
	if len(rep.Numeric) != 2 || rep.Numeric[0].Column != "A" || rep.Numeric[1].Column != "B" {
		t.Fatalf("numeric = %+v", rep.Numeric)
	}
	if rep.Numeric[0].Count != 3 {
		t.Fatalf("A count = %d, want 3", rep.Numeric[0].Count)
	}
	if got := len(s.Overview(-1).Head); got != 4 {
		t.Fatalf("default head on 4 rows = %d", got)
	}
	out := h.out.String()
	for _, sec := range []string{"Data shape", "Dtypes", "Missing values per column", "Numeric summary (describe)", "Head"} {
		if !strings.Contains(out, sec) {
			t.Fatalf("overview missing section %q:\n%s", sec, out)
		}
	}
	if h.rec.Calls() != 0 {
		t.Fatalf("overview must not render, got %d calls", h.rec.Calls())
	}
}

func TestOverviewNonNumericTable(t *testing.T) {
	df := dataframe.New(series.New([]string{"a", "b"}, series.String, "s"))
	s, h := newSession(t, df)
	rep := s.Overview(DefaultHeadRows)
	if len(rep.Numeric) != 0 {
		t.Fatalf("numeric = %+v, want none", rep.Numeric)
	}
	if !strings.Contains(h.out.String(), "(no numeric columns)") {
		t.Fatalf("expected empty numeric section:\n%s", h.out.String())
	}
}

func TestSummaryJSONWithUndefinedStats(t *testing.T) {
	df := dataframe.New(series.New([]float64{3}, series.Float, "one"))
	s, _ := newSession(t, df)
	b, err := json.Marshal(s.Summary(1))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"std":null`) {
		t.Fatalf("expected null std: %s", b)
	}
}

func TestPlotMissingness(t *testing.T) {
	s, h := newSession(t, exampleFrame(), WithTitlePrefix("Run"))
	if err := s.PlotMissingness(context.Background()); err != nil {
		t.Fatalf("PlotMissingness: %v", err)
	}
	if len(h.rec.Bars) != 1 {
		t.Fatalf("bars = %d", len(h.rec.Bars))
	}
	bc := h.rec.Bars[0]
	if bc.Title != "Run - Missingness by Column" || bc.YLabel != "Fraction Missing" || !bc.RotateLabels {
		t.Fatalf("unexpected chart: %+v", bc)
	}
	want := []string{"A", "label", "B"}
	if strings.Join(bc.Labels, ",") != strings.Join(want, ",") {
		t.Fatalf("labels = %v, want %v", bc.Labels, want)
	}
	if bc.Values[0] != 0.25 || bc.Values[2] != 0 {
		t.Fatalf("values = %v", bc.Values)
	}
	if len(h.shown) != 1 || h.shown[0] != "missingness" {
		t.Fatalf("shown = %v", h.shown)
	}
}

func TestPlotMissingnessEmptyTables(t *testing.T) {
	noCols, h := newSession(t, dataframe.DataFrame{})
	if err := noCols.PlotMissingness(context.Background()); err != nil {
		t.Fatalf("zero columns: %v", err)
	}
	if len(h.rec.Bars) != 1 || len(h.rec.Bars[0].Labels) != 0 {
		t.Fatalf("expected one empty bar chart, got %+v", h.rec.Bars)
	}

	noRows := dataframe.New(series.New([]float64{}, series.Float, "x"))
	s, h2 := newSession(t, noRows)
	if err := s.PlotMissingness(context.Background()); err != nil {
		t.Fatalf("zero rows: %v", err)
	}
	if got := h2.rec.Bars[0].Values; len(got) != 1 || got[0] != 0 {
		t.Fatalf("zero-row fractions = %v", got)
	}
}

func TestPlotDistributionsSelection(t *testing.T) {
	s, h := newSession(t, exampleFrame())
	cols, dropped := s.NumericSelection(nil)
	if strings.Join(cols, ",") != "A,B" || len(dropped) != 0 {
		t.Fatalf("selection = %v dropped %v", cols, dropped)
	}
	if err := s.PlotDistributions(context.Background(), nil, 0); err != nil {
		t.Fatalf("PlotDistributions: %v", err)
	}
	g := h.rec.Grids[0]
	if g.Rows != 1 || g.Cols != 3 || len(g.Panels) != 2 {
		t.Fatalf("grid = %d x %d with %d panels", g.Rows, g.Cols, len(g.Panels))
	}
	if g.Title != "Numeric Distributions" || g.Panels[0].Title != "A" {
		t.Fatalf("titles = %q / %q", g.Title, g.Panels[0].Title)
	}
	if len(g.Panels[0].Bins) != stats.DefaultBins {
		t.Fatalf("bins = %d, want %d", len(g.Panels[0].Bins), stats.DefaultBins)
	}
	total := 0
	for _, b := range g.Panels[0].Bins {
		total += int(b.Count)
	}
	if total != 3 {
		t.Fatalf("A binned %d values, want 3", total)
	}
}

func TestPlotDistributionsInfiniteValues(t *testing.T) {
	df := dataframe.New(
		series.New([]float64{1, math.Inf(1), 2, math.Inf(-1), 3}, series.Float, "x"),
		series.New([]float64{-1e308, 0, 1e308, 1, 2}, series.Float, "wide"),
	)
	s, h := newSession(t, df)
	if err := s.PlotDistributions(context.Background(), nil, 10); err != nil {
		t.Fatalf("PlotDistributions: %v", err)
	}
	g := h.rec.Grids[0]
	total := 0.0
	for _, b := range g.Panels[0].Bins {
		total += b.Count
	}
	if total != 3 {
		t.Fatalf("x binned %v values, want the 3 finite ones", total)
	}
	if len(g.Panels[1].Bins) != 10 {
		t.Fatalf("wide bins = %d", len(g.Panels[1].Bins))
	}
}

func TestPlotDistributionsDropsNonNumeric(t *testing.T) {
	s, h := newSession(t, exampleFrame())
	if err := s.PlotDistributions(context.Background(), []string{"B", "label", "nope"}, 5); err != nil {
		t.Fatalf("PlotDistributions: %v", err)
	}
	if !strings.Contains(h.out.String(), "label, nope") {
		t.Fatalf("missing drop notice: %q", h.out.String())
	}
	g := h.rec.Grids[0]
	if len(g.Panels) != 1 || g.Panels[0].Title != "B" || len(g.Panels[0].Bins) != 5 {
		t.Fatalf("panels = %+v", g.Panels)
	}
}

func TestPlotDistributionsNothingToPlot(t *testing.T) {
	s, h := newSession(t, exampleFrame())
	if err := s.PlotDistributions(context.Background(), []string{}, 10); err != nil {
		t.Fatalf("empty list: %v", err)
	}
	strs := dataframe.New(series.New([]string{"a"}, series.String, "s"))
	s2, h2 := newSession(t, strs)
	if err := s2.PlotDistributions(context.Background(), nil, 10); err != nil {
		t.Fatalf("non-numeric table: %v", err)
	}
	for _, hh := range []*harness{h, h2} {
		if hh.rec.Calls() != 0 {
			t.Fatalf("expected no render calls, got %d", hh.rec.Calls())
		}
		if !strings.Contains(hh.out.String(), MsgNoNumeric) {
			t.Fatalf("missing notice: %q", hh.out.String())
		}
	}
}

func TestPlotCorrelation(t *testing.T) {
	s, h := newSession(t, exampleFrame())
	cm, err := s.PlotCorrelation(context.Background(), "")
	if err != nil {
		t.Fatalf("PlotCorrelation: %v", err)
	}
	if len(cm.Columns) != 2 || cm.Values[0][0] != 1 || cm.Values[1][1] != 1 {
		t.Fatalf("matrix = %+v", cm)
	}
	if cm.Values[0][1] != cm.Values[1][0] {
		t.Fatalf("matrix not symmetric: %v", cm.Values)
	}
	hm := h.rec.Heats[0]
	if hm.Title != "Correlation Heatmap (pearson)" || hm.Min != -1 || hm.Max != 1 || hm.Center != 0 {
		t.Fatalf("heatmap = %+v", hm)
	}

	if _, err := s.PlotCorrelation(context.Background(), "cosine"); !errors.Is(err, stats.ErrUnknownMethod) {
		t.Fatalf("err = %v, want ErrUnknownMethod", err)
	}
	if len(h.rec.Heats) != 1 {
		t.Fatalf("unknown method must not render")
	}
}

func TestPlotCorrelationSingleColumn(t *testing.T) {
	df := dataframe.New(
		series.New([]float64{1, 2}, series.Float, "x"),
		series.New([]string{"a", "b"}, series.String, "s"),
	)
	s, h := newSession(t, df)
	cm, err := s.PlotCorrelation(context.Background(), "spearman")
	if err != nil || cm != nil {
		t.Fatalf("got %v, %v; want nil, nil", cm, err)
	}
	if h.rec.Calls() != 0 || !strings.Contains(h.out.String(), MsgNotEnoughCorr) {
		t.Fatalf("calls=%d out=%q", h.rec.Calls(), h.out.String())
	}
	if _, err := s.Correlation("pearson"); !errors.Is(err, stats.ErrInsufficientColumns) {
		t.Fatalf("Correlation err = %v", err)
	}
}

func TestPlotTargetBalance(t *testing.T) {
	s, h := newSession(t, exampleFrame(), WithTarget("missing_col"))
	if err := s.PlotTargetBalance(context.Background()); err != nil {
		t.Fatalf("missing target: %v", err)
	}
	if h.rec.Calls() != 0 || !strings.Contains(h.out.String(), MsgTargetNotFound) {
		t.Fatalf("calls=%d out=%q", h.rec.Calls(), h.out.String())
	}

	s2, h2 := newSession(t, exampleFrame(), WithTarget("label"))
	if err := s2.PlotTargetBalance(context.Background()); err != nil {
		t.Fatalf("PlotTargetBalance: %v", err)
	}
	bc := h2.rec.Bars[0]
	if bc.Title != "Target Balance: label" || bc.XLabel != "label" || bc.YLabel != "Count" {
		t.Fatalf("chart = %+v", bc)
	}
	if strings.Join(bc.Labels, ",") != "x,y,"+stats.MissingLabel {
		t.Fatalf("labels = %v", bc.Labels)
	}
	if bc.Values[0] != 2 || bc.Values[1] != 1 || bc.Values[2] != 1 {
		t.Fatalf("values = %v", bc.Values)
	}
}

func TestQuicklookOrderAndGates(t *testing.T) {
	s, h := newSession(t, exampleFrame(), WithTarget("label"))
	if err := s.Quicklook(context.Background(), DefaultQuicklookOptions()); err != nil {
		t.Fatalf("Quicklook: %v", err)
	}
	want := "missingness,distributions,correlation-pearson,target-balance"
	if got := strings.Join(h.shown, ","); got != want {
		t.Fatalf("order = %s, want %s", got, want)
	}
	if !strings.Contains(h.out.String(), "Data shape") {
		t.Fatalf("quicklook should print the overview first")
	}

	s2, h2 := newSession(t, exampleFrame())
	opt := DefaultQuicklookOptions()
	opt.Distributions = false
	opt.Correlation = false
	if err := s2.Quicklook(context.Background(), opt); err != nil {
		t.Fatalf("Quicklook: %v", err)
	}
	if got := strings.Join(h2.shown, ","); got != "missingness" {
		t.Fatalf("shown = %s", got)
	}
	if !strings.Contains(h2.out.String(), MsgTargetNotFound) {
		t.Fatalf("expected target notice")
	}
}

func TestQuicklookZeroOptionsUseDefaultHead(t *testing.T) {
	s, h := newSession(t, exampleFrame())
	if err := s.Quicklook(context.Background(), QuicklookOptions{Missingness: true}); err != nil {
		t.Fatalf("Quicklook: %v", err)
	}
	out := h.out.String()
	i := strings.Index(out, "=== Head ===")
	if i < 0 {
		t.Fatalf("no head section:\n%s", out)
	}
	// header line plus all 4 rows
	lines := strings.Split(strings.TrimSpace(out[i:]), "\n")
	if len(lines) != 6 {
		t.Fatalf("head section has %d lines:\n%s", len(lines), out[i:])
	}
}

func TestOverviewTitlePrefix(t *testing.T) {
	s, h := newSession(t, exampleFrame(), WithTitlePrefix("Sales"))
	rep := s.Overview(1)
	if !strings.Contains(h.out.String(), "=== Sales - Data shape ===") {
		t.Fatalf("prefix missing from overview:\n%s", h.out.String())
	}
	b, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "Sales") {
		t.Fatalf("prefix leaked into json: %s", b)
	}
}

func TestQuicklookStopsOnDisplayError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	show := display.Func(func(context.Context, *chart.Figure) error {
		calls++
		return boom
	})
	s := New(exampleFrame(),
		WithRenderer(&chartest.Recorder{}),
		WithDisplay(show),
		WithOutput(&bytes.Buffer{}),
	)
	err := s.Quicklook(context.Background(), DefaultQuicklookOptions())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if calls != 1 {
		t.Fatalf("display calls = %d, want 1", calls)
	}
}

func TestSessionDoesNotMutateTable(t *testing.T) {
	df := exampleFrame()
	before := df.String()
	s, _ := newSession(t, df, WithTarget("label"))
	if s.Target() != "label" {
		t.Fatalf("Target() = %q", s.Target())
	}
	if err := s.Quicklook(context.Background(), DefaultQuicklookOptions()); err != nil {
		t.Fatalf("Quicklook: %v", err)
	}
	if s.Table().String() != before {
		t.Fatalf("session table changed:\n%s", s.Table().String())
	}
	if df.String() != before {
		t.Fatalf("table changed:\n%s\nvs\n%s", before, df.String())
	}
}
