// Package gochart renders charts with github.com/wcharczuk/go-chart/v2. It is
// the basic backend: plain bars, no density overlay, a stepped colorbar.
package gochart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strconv"

	"github.com/KaramelBytes/edakit/internal/chart"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Name identifies this backend in configuration and logs.
const Name = "basic"

var (
	textColor  = drawing.Color{R: 0x33, G: 0x33, B: 0x33, A: 0xFF}
	whiteColor = drawing.Color{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// Renderer draws figures with go-chart.
type Renderer struct{}

// New returns the go-chart renderer.
func New() *Renderer { return &Renderer{} }

func (*Renderer) Name() string { return Name }

// Bar renders a categorical bar chart. go-chart refuses a chart without bars,
// so an empty chart is drawn as a titled blank canvas.
func (*Renderer) Bar(bc chart.BarChart) (*chart.Figure, error) {
	w, h := chart.BarWidth(len(bc.Values)), 400
	if len(bc.Values) == 0 {
		b, err := blank(w, h, bc.Title)
		if err != nil {
			return nil, err
		}
		return &chart.Figure{Name: bc.Name, Title: bc.Title, Width: w, Height: h, PNG: b}, nil
	}
	b, err := renderBars(bc, w, h)
	if err != nil {
		return nil, err
	}
	return &chart.Figure{Name: bc.Name, Title: bc.Title, Width: w, Height: h, PNG: b}, nil
}

func renderBars(bc chart.BarChart, w, h int) ([]byte, error) {
	fillColor := toDrawing(bc.Color, chart.BarColor)
	bars := make([]gochart.Value, len(bc.Values))
	ymax := bc.YMax
	for i, v := range bc.Values {
		label := ""
		if i < len(bc.Labels) {
			label = bc.Labels[i]
		}
		bars[i] = gochart.Value{
			Value: v,
			Label: label,
			Style: gochart.Style{FillColor: fillColor, StrokeColor: fillColor},
		}
		if bc.YMax == 0 && v > ymax {
			ymax = v
		}
	}
	if ymax <= 0 {
		ymax = 1
	}
	slot := (w - 120) / len(bars)
	spacing := slot / 4
	if spacing > 10 {
		spacing = 10
	}
	if spacing < 1 {
		spacing = 1
	}
	barWidth := slot - spacing
	if barWidth > 40 {
		barWidth = 40
	}
	if barWidth < 2 {
		barWidth = 2
	}
	xAxis := gochart.Style{FontSize: 9}
	bottom := 40
	if bc.RotateLabels {
		xAxis.TextRotationDegrees = 45
		bottom = 90
	}
	c := gochart.BarChart{
		Title:      bc.Title,
		Width:      w,
		Height:     h,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Background: gochart.Style{Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: bottom}},
		XAxis:      xAxis,
		YAxis: gochart.YAxis{
			Name:  bc.YLabel,
			Range: &gochart.ContinuousRange{Min: 0, Max: ymax * 1.05},
		},
		Bars: bars,
	}
	if bc.XLabel != "" {
		c.Elements = []gochart.Renderable{axisLabel(bc.XLabel, h)}
	}
	var buf bytes.Buffer
	if err := c.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("go-chart bar %q: %w", bc.Title, err)
	}
	return buf.Bytes(), nil
}

// axisLabel writes the x axis title centered along the bottom edge.
func axisLabel(label string, height int) gochart.Renderable {
	return func(r gochart.Renderer, canvas gochart.Box, defaults gochart.Style) {
		if defaults.Font != nil {
			r.SetFont(defaults.Font)
		}
		r.SetFontColor(textColor)
		r.SetFontSize(10)
		tb := r.MeasureText(label)
		r.Text(label, canvas.Left+(canvas.Width()-tb.Width())/2, height-8)
	}
}

// Histograms renders each panel as a bar chart of bin counts and tiles the
// panels row by row under a title strip.
func (*Renderer) Histograms(g chart.HistogramGrid) (*chart.Figure, error) {
	rows, cols := g.Rows, g.Cols
	if rows <= 0 || cols <= 0 {
		rows, cols = chart.GridShape(len(g.Panels), chart.GridCols)
	}
	const pw, ph, titleH = 400, 320, 40
	w, h := cols*pw, rows*ph+titleH
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	strip, err := blank(w, titleH, g.Title)
	if err != nil {
		return nil, err
	}
	if err := paste(canvas, strip, image.Point{}); err != nil {
		return nil, err
	}
	for i, panel := range g.Panels {
		var b []byte
		if len(panel.Bins) == 0 {
			b, err = blank(pw, ph, panel.Title)
		} else {
			b, err = renderBars(histogramBars(panel), pw, ph)
		}
		if err != nil {
			return nil, err
		}
		at := image.Point{X: (i % cols) * pw, Y: titleH + (i/cols)*ph}
		if err := paste(canvas, b, at); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return &chart.Figure{Name: g.Name, Title: g.Title, Width: w, Height: h, PNG: buf.Bytes()}, nil
}

// histogramBars turns bins into bars, labelling every fifth bin by its lower edge.
func histogramBars(panel chart.Histogram) chart.BarChart {
	bc := chart.BarChart{Title: panel.Title, Color: chart.BarColor}
	for i, b := range panel.Bins {
		label := ""
		if i%5 == 0 {
			label = strconv.FormatFloat(b.Min, 'g', 3, 64)
		}
		bc.Labels = append(bc.Labels, label)
		bc.Values = append(bc.Values, b.Count)
	}
	return bc
}

// Heatmap draws the matrix cell by cell with go-chart's raster renderer and
// adds a stepped colorbar on the right.
func (*Renderer) Heatmap(hm chart.Heatmap) (*chart.Figure, error) {
	n := len(hm.Values)
	if n == 0 {
		return nil, fmt.Errorf("heatmap %q: empty matrix", hm.Title)
	}
	w, h := chart.HeatmapSize(n)
	r, err := gochart.PNG(w, h)
	if err != nil {
		return nil, fmt.Errorf("go-chart canvas: %w", err)
	}
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("go-chart font: %w", err)
	}
	r.SetFont(font)
	fillRect(r, 0, 0, w, h, whiteColor)

	const left, top, bottom = 110, 50, 90
	side := h - top - bottom
	if avail := w - left - 140; avail < side {
		side = avail
	}
	cell := side / n
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c := chart.Shade(hm.Values[i][j], hm.Min, hm.Max, hm.Center)
			x0, y0 := left+j*cell, top+i*cell
			fillRect(r, x0, y0, x0+cell, y0+cell, toDrawing(c, nil))
		}
	}

	r.SetFontColor(textColor)
	r.SetFontSize(9)
	for i, label := range hm.Labels {
		tb := r.MeasureText(label)
		r.Text(label, left-tb.Width()-6, top+i*cell+cell/2+tb.Height()/2)
		xl := top + n*cell + 14 + (i%2)*12
		r.Text(label, left+i*cell+(cell-tb.Width())/2, xl)
	}

	// colorbar
	bx := left + n*cell + 30
	steps := 50
	for s := 0; s < steps; s++ {
		v := hm.Max - (hm.Max-hm.Min)*float64(s)/float64(steps-1)
		y0 := top + s*(n*cell)/steps
		y1 := top + (s+1)*(n*cell)/steps
		fillRect(r, bx, y0, bx+20, y1, toDrawing(chart.Shade(v, hm.Min, hm.Max, hm.Center), nil))
	}
	for _, v := range []float64{hm.Max, hm.Center, hm.Min} {
		y := top + int(math.Round((hm.Max-v)/(hm.Max-hm.Min)*float64(n*cell)))
		r.Text(strconv.FormatFloat(v, 'g', 3, 64), bx+26, y+4)
	}

	r.SetFontSize(13)
	tb := r.MeasureText(hm.Title)
	r.Text(hm.Title, (w-tb.Width())/2, 30)

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return &chart.Figure{Name: hm.Name, Title: hm.Title, Width: w, Height: h, PNG: buf.Bytes()}, nil
}

// blank draws a white canvas with a centered title.
func blank(w, h int, title string) ([]byte, error) {
	r, err := gochart.PNG(w, h)
	if err != nil {
		return nil, fmt.Errorf("go-chart canvas: %w", err)
	}
	fillRect(r, 0, 0, w, h, whiteColor)
	if title != "" {
		font, err := gochart.GetDefaultFont()
		if err != nil {
			return nil, fmt.Errorf("go-chart font: %w", err)
		}
		r.SetFont(font)
		r.SetFontColor(textColor)
		r.SetFontSize(13)
		tb := r.MeasureText(title)
		r.Text(title, (w-tb.Width())/2, 26)
	}
	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func fillRect(r gochart.Renderer, x0, y0, x1, y1 int, c drawing.Color) {
	r.SetFillColor(c)
	r.SetStrokeColor(c)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.Close()
	r.Fill()
}

func paste(dst *image.RGBA, b []byte, at image.Point) error {
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("decode panel: %w", err)
	}
	rect := img.Bounds().Sub(img.Bounds().Min).Add(at)
	draw.Draw(dst, rect, img, img.Bounds().Min, draw.Over)
	return nil
}

func toDrawing(c, def color.Color) drawing.Color {
	if c == nil {
		c = def
	}
	if c == nil {
		return textColor
	}
	r, g, b, a := c.RGBA()
	return drawing.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}
