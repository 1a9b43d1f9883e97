// Package chart describes the figures produced by an EDA session independently
// of the drawing backend. A Renderer turns a description into a PNG Figure.
package chart

import (
	"image/color"

	"github.com/KaramelBytes/edakit/internal/stats"
)

// GridCols is the fixed number of panel columns in a histogram grid.
const GridCols = 3

// Palette colors shared by both renderers.
var (
	BarColor     = color.RGBA{R: 0x4C, G: 0x72, B: 0xB0, A: 0xFF}
	BalanceColor = color.RGBA{R: 0x55, G: 0xA8, B: 0x68, A: 0xFF}
	DensityColor = color.RGBA{R: 0x1F, G: 0x3A, B: 0x66, A: 0xFF}
)

// BarChart is a categorical bar chart.
type BarChart struct {
	Name         string
	Title        string
	XLabel       string
	YLabel       string
	Labels       []string
	Values       []float64
	Color        color.Color
	RotateLabels bool
	// YMax fixes the top of the value axis; zero derives it from Values.
	YMax float64
}

// Histogram is a single panel of a HistogramGrid.
type Histogram struct {
	Title   string
	Bins    []stats.Bin
	Density []stats.Point
}

// HistogramGrid lays out histograms Cols wide and Rows tall, filled row by row.
type HistogramGrid struct {
	Name   string
	Title  string
	Rows   int
	Cols   int
	Panels []Histogram
}

// Heatmap is a square matrix shaded on a diverging scale.
type Heatmap struct {
	Name   string
	Title  string
	Labels []string
	Values [][]float64
	Min    float64
	Max    float64
	Center float64
}

// Figure is a rendered chart ready for display.
type Figure struct {
	Name   string
	Title  string
	Width  int
	Height int
	PNG    []byte
}

// Renderer draws chart descriptions. Implementations must plot the same data
// on the same axes and may differ only in styling.
type Renderer interface {
	Name() string
	Bar(BarChart) (*Figure, error)
	Histograms(HistogramGrid) (*Figure, error)
	Heatmap(Heatmap) (*Figure, error)
}

// GridShape returns the rows and columns needed to hold n panels cols wide.
func GridShape(n, cols int) (rows, c int) {
	if cols <= 0 {
		cols = GridCols
	}
	if n <= 0 {
		return 0, cols
	}
	return (n + cols - 1) / cols, cols
}

// BarWidth returns the figure width in pixels for a bar chart with n bars:
// wide enough for rotated labels, never narrower than 600.
func BarWidth(n int) int {
	w := n * 60
	if w < 600 {
		w = 600
	}
	return w
}

// HeatmapSize returns the figure size for an n×n heatmap.
func HeatmapSize(n int) (w, h int) {
	w, h = n*100, n*100
	if w < 600 {
		w = 600
	}
	if h < 500 {
		h = 500
	}
	return w + 120, h
}

// Shade maps v onto a blue-white-red diverging scale centered at center and
// clamped to [min, max]. NaN maps to light gray.
func Shade(v, min, max, center float64) color.RGBA {
	if v != v {
		return color.RGBA{R: 0xDD, G: 0xDD, B: 0xDD, A: 0xFF}
	}
	cold := color.RGBA{R: 0x3B, G: 0x4C, B: 0xC0, A: 0xFF}
	mid := color.RGBA{R: 0xF7, G: 0xF7, B: 0xF7, A: 0xFF}
	warm := color.RGBA{R: 0xB4, G: 0x04, B: 0x26, A: 0xFF}
	switch {
	case v <= center:
		if center == min {
			return mid
		}
		t := (v - min) / (center - min)
		return lerp(cold, mid, clamp01(t))
	default:
		if max == center {
			return mid
		}
		t := (v - center) / (max - center)
		return lerp(mid, warm, clamp01(t))
	}
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xFF}
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
