package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"
)

// Correlation methods accepted by Correlate.
const (
	Pearson  = "pearson"
	Spearman = "spearman"
	Kendall  = "kendall"
)

var (
	// ErrUnknownMethod is returned for a correlation method other than
	// pearson, spearman or kendall.
	ErrUnknownMethod = errors.New("unknown correlation method")
	// ErrInsufficientColumns is returned when fewer than two numeric columns
	// are available to correlate.
	ErrInsufficientColumns = errors.New("not enough numeric columns to compute correlation")
)

// CorrMatrix holds a symmetric correlation matrix across numeric columns.
type CorrMatrix struct {
	Method  string      `json:"method"`
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"` // row-major, Values[i][j]
}

// At returns the coefficient for the named pair, or NaN if either is unknown.
func (m *CorrMatrix) At(a, b string) float64 {
	ia, ib := -1, -1
	for i, c := range m.Columns {
		if c == a {
			ia = i
		}
		if c == b {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return math.NaN()
	}
	return m.Values[ia][ib]
}

// NormalizeMethod lower-cases method and checks it is supported. An empty
// method selects Pearson.
func NormalizeMethod(method string) (string, error) {
	m := strings.ToLower(strings.TrimSpace(method))
	switch m {
	case "":
		return Pearson, nil
	case Pearson, Spearman, Kendall:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q (use pearson, spearman or kendall)", ErrUnknownMethod, method)
	}
}

// Correlate computes the pairwise correlation matrix of the given numeric
// columns using pairwise-complete observations. The diagonal is 1; a pair
// with fewer than two complete observations or zero variance is NaN.
func Correlate(df dataframe.DataFrame, columns []string, method string) (*CorrMatrix, error) {
	m, err := NormalizeMethod(method)
	if err != nil {
		return nil, err
	}
	if len(columns) < 2 {
		return nil, ErrInsufficientColumns
	}
	data := make([][]float64, len(columns))
	for i, name := range columns {
		s := df.Col(name)
		if s.Err != nil {
			return nil, fmt.Errorf("column %q: %w", name, s.Err)
		}
		data[i] = Floats(s)
	}
	n := len(columns)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		mat[a][a] = 1
		for b := 0; b < a; b++ {
			x, y := complete(data[a], data[b])
			r := coefficient(m, x, y)
			mat[a][b] = r
			mat[b][a] = r
		}
	}
	cols := make([]string, n)
	copy(cols, columns)
	return &CorrMatrix{Method: m, Columns: cols, Values: mat}, nil
}

// complete drops every row where either value is missing.
func complete(a, b []float64) (x, y []float64) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	x = make([]float64, 0, n)
	y = make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	return x, y
}

func coefficient(method string, x, y []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	var r float64
	switch method {
	case Spearman:
		r = stat.Correlation(ranks(x), ranks(y), nil)
	case Kendall:
		r = kendallTauB(x, y)
	default:
		r = stat.Correlation(x, y, nil)
	}
	if math.IsInf(r, 0) {
		return math.NaN()
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

// ranks assigns 1-based ranks, averaging ties.
func ranks(xs []float64) []float64 {
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return xs[idx[i]] < xs[idx[j]] })
	out := make([]float64, len(xs))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && xs[idx[j+1]] == xs[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[idx[k]] = avg
		}
		i = j + 1
	}
	return out
}

// kendallTauB is Kendall's rank correlation with the tie correction of tau-b.
func kendallTauB(x, y []float64) float64 {
	n := len(x)
	var s, tiesX, tiesY float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := sign(x[i] - x[j])
			dy := sign(y[i] - y[j])
			if dx == 0 {
				tiesX++
			}
			if dy == 0 {
				tiesY++
			}
			s += dx * dy
		}
	}
	pairs := float64(n*(n-1)) / 2
	denom := math.Sqrt((pairs - tiesX) * (pairs - tiesY))
	if denom == 0 {
		return math.NaN()
	}
	return s / denom
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// MarshalJSON writes undefined coefficients as null.
func (m CorrMatrix) MarshalJSON() ([]byte, error) {
	vals := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		vals[i] = make([]*float64, len(row))
		for j, v := range row {
			vals[i][j] = finite(v)
		}
	}
	return json.Marshal(struct {
		Method  string       `json:"method"`
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}{m.Method, m.Columns, vals})
}
