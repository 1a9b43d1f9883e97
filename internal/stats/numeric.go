// Package stats computes the descriptive statistics behind the EDA reports:
// per-column summaries, missingness, correlation matrices, value counts and
// histogram bins with a density estimate.
package stats

import (
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// IsNumeric reports whether a declared column type is an integer or float kind.
func IsNumeric(t series.Type) bool {
	return t == series.Int || t == series.Float
}

// NumericColumns returns the names of numeric columns in table order.
func NumericColumns(df dataframe.DataFrame) []string {
	names := df.Names()
	types := df.Types()
	out := make([]string, 0, len(names))
	for i, name := range names {
		if i < len(types) && IsNumeric(types[i]) {
			out = append(out, name)
		}
	}
	return out
}

// HasColumn reports whether df has a column with the exact given name.
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Missing flags the missing entries of a column. A float element holding NaN
// counts as missing even when gota does not mark it NA.
func Missing(s series.Series) []bool {
	na := s.IsNaN()
	if s.Type() != series.Float {
		return na
	}
	for i, v := range s.Float() {
		if i < len(na) && math.IsNaN(v) {
			na[i] = true
		}
	}
	return na
}

// Floats returns the column as float64 with NaN in place of missing entries.
func Floats(s series.Series) []float64 {
	vals := s.Float()
	na := Missing(s)
	for i := range vals {
		if i < len(na) && na[i] {
			vals[i] = math.NaN()
		}
	}
	return vals
}

// Present returns only the non-missing values of a numeric column.
func Present(s series.Series) []float64 {
	all := Floats(s)
	out := make([]float64, 0, len(all))
	for _, v := range all {
		if math.IsNaN(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
