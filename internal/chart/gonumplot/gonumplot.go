// Package gonumplot renders charts with gonum.org/v1/plot. It is the enhanced
// backend: histograms carry a density overlay and heatmaps a colorbar.
package gonumplot

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/KaramelBytes/edakit/internal/chart"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Name identifies this backend in configuration and logs.
const Name = "enhanced"

// Renderer draws figures with gonum/plot.
type Renderer struct{}

// New returns the gonum/plot renderer.
func New() *Renderer { return &Renderer{} }

func (*Renderer) Name() string { return Name }

// Bar renders a categorical bar chart. An empty chart still produces a figure
// with title and axes.
func (*Renderer) Bar(bc chart.BarChart) (*chart.Figure, error) {
	p := plot.New()
	p.Title.Text = bc.Title
	p.X.Label.Text = bc.XLabel
	p.Y.Label.Text = bc.YLabel
	p.Add(plotter.NewGrid())
	ymax := bc.YMax
	if len(bc.Values) > 0 {
		bars, err := plotter.NewBarChart(plotter.Values(bc.Values), vg.Points(18))
		if err != nil {
			return nil, fmt.Errorf("bar chart: %w", err)
		}
		bars.Color = fill(bc.Color, chart.BarColor)
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.NominalX(bc.Labels...)
		for _, v := range bc.Values {
			if v > ymax && bc.YMax == 0 {
				ymax = v
			}
		}
	}
	if ymax <= 0 {
		ymax = 1
	}
	p.Y.Min = 0
	p.Y.Max = ymax * 1.05
	if bc.RotateLabels {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = text.XRight
		p.X.Tick.Label.YAlign = text.YCenter
	}
	w, h := chart.BarWidth(len(bc.Values)), 400
	png, err := render(w, h, func(dc draw.Canvas) { p.Draw(dc) })
	if err != nil {
		return nil, err
	}
	return &chart.Figure{Name: bc.Name, Title: bc.Title, Width: w, Height: h, PNG: png}, nil
}

// Histograms renders one panel per histogram, aligned on a grid with a
// shared super title.
func (*Renderer) Histograms(g chart.HistogramGrid) (*chart.Figure, error) {
	rows, cols := g.Rows, g.Cols
	if rows <= 0 || cols <= 0 {
		rows, cols = chart.GridShape(len(g.Panels), chart.GridCols)
	}
	plots := make([][]*plot.Plot, rows)
	for r := range plots {
		plots[r] = make([]*plot.Plot, cols)
		for c := range plots[r] {
			i := r*cols + c
			if i >= len(g.Panels) {
				p := plot.New()
				p.HideAxes()
				plots[r][c] = p
				continue
			}
			p, err := histogram(g.Panels[i])
			if err != nil {
				return nil, err
			}
			plots[r][c] = p
		}
	}
	w, h := cols*400, rows*320+40
	png, err := render(w, h, func(dc draw.Canvas) {
		title := vg.Points(24)
		superTitle(dc, g.Title)
		tiles := draw.Tiles{
			Rows:      rows,
			Cols:      cols,
			PadX:      vg.Millimeter * 4,
			PadY:      vg.Millimeter * 4,
			PadTop:    vg.Millimeter * 2,
			PadBottom: vg.Millimeter * 2,
			PadLeft:   vg.Millimeter * 2,
			PadRight:  vg.Millimeter * 2,
		}
		canvases := plot.Align(plots, tiles, draw.Crop(dc, 0, 0, 0, -title))
		for r := range plots {
			for c := range plots[r] {
				plots[r][c].Draw(canvases[r][c])
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return &chart.Figure{Name: g.Name, Title: g.Title, Width: w, Height: h, PNG: png}, nil
}

func histogram(panel chart.Histogram) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = panel.Title
	p.Add(plotter.NewGrid())
	if len(panel.Bins) == 0 {
		return p, nil
	}
	bins := make([]plotter.HistogramBin, len(panel.Bins))
	for i, b := range panel.Bins {
		bins[i] = plotter.HistogramBin{Min: b.Min, Max: b.Max, Weight: b.Count}
	}
	h := &plotter.Histogram{
		Bins:      bins,
		Width:     panel.Bins[0].Max - panel.Bins[0].Min,
		FillColor: chart.BarColor,
		LineStyle: plotter.DefaultLineStyle,
	}
	h.LineStyle.Color = color.White
	p.Add(h)
	if len(panel.Density) > 0 {
		xys := make(plotter.XYs, len(panel.Density))
		for i, pt := range panel.Density {
			xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("density line %s: %w", panel.Title, err)
		}
		line.LineStyle.Color = chart.DensityColor
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
	}
	p.Y.Min = 0
	return p, nil
}

// Heatmap renders the matrix with a diverging palette and a colorbar on the
// right. Row 0 of the matrix is drawn at the top.
func (*Renderer) Heatmap(hm chart.Heatmap) (*chart.Figure, error) {
	n := len(hm.Values)
	if n == 0 {
		return nil, fmt.Errorf("heatmap %q: empty matrix", hm.Title)
	}
	cm := moreland.SmoothBlueRed()
	cm.SetMax(hm.Max)
	cm.SetMin(hm.Min)

	p := plot.New()
	p.Title.Text = hm.Title
	heat := plotter.NewHeatMap(grid(hm.Values), cm.Palette(255))
	heat.Min = hm.Min
	heat.Max = hm.Max
	heat.NaN = color.RGBA{R: 0xDD, G: 0xDD, B: 0xDD, A: 0xFF}
	p.Add(heat)

	xt := make([]plot.Tick, n)
	yt := make([]plot.Tick, n)
	for i, label := range hm.Labels {
		xt[i] = plot.Tick{Value: float64(i), Label: label}
		yt[i] = plot.Tick{Value: float64(n - 1 - i), Label: label}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xt)
	p.Y.Tick.Marker = plot.ConstantTicks(yt)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter

	bar := plot.New()
	bar.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})
	bar.HideX()

	w, h := chart.HeatmapSize(n)
	png, err := render(w, h, func(dc draw.Canvas) {
		cbw := vg.Points(70)
		width := dc.Max.X - dc.Min.X
		p.Draw(draw.Crop(dc, 0, -cbw, 0, 0))
		bar.Draw(draw.Crop(dc, width-cbw, 0, vg.Points(60), -vg.Points(30)))
	})
	if err != nil {
		return nil, err
	}
	return &chart.Figure{Name: hm.Name, Title: hm.Title, Width: w, Height: h, PNG: png}, nil
}

// grid adapts a row-major square matrix to plotter.GridXYZ with row 0 on top.
type grid [][]float64

func (g grid) Dims() (c, r int)   { return len(g), len(g) }
func (g grid) Z(c, r int) float64 { return g[len(g)-1-r][c] }
func (g grid) X(c int) float64    { return float64(c) }
func (g grid) Y(r int) float64    { return float64(r) }

func superTitle(dc draw.Canvas, title string) {
	if title == "" {
		return
	}
	sty := plot.New().Title.TextStyle
	sty.Font.Size = vg.Points(14)
	sty.XAlign = text.XCenter
	sty.YAlign = text.YTop
	dc.FillText(sty, vg.Point{X: (dc.Min.X + dc.Max.X) / 2, Y: dc.Max.Y - vg.Points(4)}, title)
}

// render draws onto a w×h pixel canvas and encodes it as PNG.
func render(w, h int, paint func(draw.Canvas)) (png []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gonum/plot render: %v", r)
		}
	}()
	c := vgimg.New(pixels(w), pixels(h))
	paint(draw.New(c))
	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// pixels converts a pixel count to a length at the canvas default of 96 DPI.
func pixels(n int) vg.Length {
	return vg.Length(float64(n) * 72 / vgimg.DefaultDPI)
}

func fill(c, def color.Color) color.Color {
	if c == nil {
		return def
	}
	return c
}
