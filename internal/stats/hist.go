package stats

import (
	"math"
	"sort"

	moremath "github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultBins is the histogram bin count used when none is given.
const DefaultBins = 30

// Bin is one histogram bucket covering [Min, Max).
type Bin struct {
	Min   float64
	Max   float64
	Count float64
}

// Point is one (x, y) sample of a curve.
type Point struct {
	X, Y float64
}

// Bins splits values into n equal-width buckets spanning [min, max]. The last
// bucket includes max. A zero-width range is widened by 0.5 on each side.
// NaN and infinite values are not counted.
func Bins(values []float64, n int) []Bin {
	sorted := finiteValues(values)
	if len(sorted) == 0 {
		return nil
	}
	if n <= 0 {
		n = DefaultBins
	}
	sort.Float64s(sorted)
	lo, hi := span(sorted)
	edges := linspace(make([]float64, n+1), lo, hi)
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[n] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, sorted, nil)
	out := make([]Bin, n)
	for i := range out {
		out[i] = Bin{Min: edges[i], Max: edges[i+1], Count: counts[i]}
	}
	return out
}

// Density estimates the distribution of values with a Gaussian KDE and
// scales it to histogram counts for the given bins, sampled at points
// positions across the bin range. It returns nil when values have fewer than
// two distinct entries.
func Density(values []float64, bins []Bin, points int) []Point {
	values = finiteValues(values)
	if len(values) < 2 || len(bins) == 0 {
		return nil
	}
	s := moremath.Sample{Xs: values}
	lo, hi := s.Bounds()
	if lo == hi {
		return nil
	}
	if points < 2 {
		points = 100
	}
	kde := &moremath.KDE{Sample: s}
	width := bins[0].Max - bins[0].Min
	scale := float64(len(values)) * width
	xs := linspace(make([]float64, points), bins[0].Min, bins[len(bins)-1].Max)
	out := make([]Point, points)
	for i, x := range xs {
		y := kde.PDF(x) * scale
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return nil
		}
		out[i] = Point{X: x, Y: y}
	}
	return out
}

// finiteValues copies values without NaN and ±Inf.
func finiteValues(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// linspace fills dst with evenly spaced values from lo to hi. When hi-lo
// overflows, each point is interpolated from the endpoints instead.
func linspace(dst []float64, lo, hi float64) []float64 {
	if !math.IsInf(hi-lo, 0) {
		return floats.Span(dst, lo, hi)
	}
	n := len(dst) - 1
	for i := range dst {
		t := float64(i) / float64(n)
		dst[i] = lo*(1-t) + hi*t
	}
	dst[n] = hi
	return dst
}

func span(sorted []float64) (lo, hi float64) {
	lo, hi = sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	return lo, hi
}
