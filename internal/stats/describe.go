package stats

import (
	"encoding/json"
	"math"
	"sort"

	moremath "github.com/aclements/go-moremath/stats"
)

// Description is the describe() row for one numeric column.
type Description struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Q50    float64 `json:"q50"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// Describe summarizes the non-missing values of a column. Statistics that are
// undefined for the sample size are NaN (std needs at least two values).
func Describe(column string, values []float64) Description {
	d := Description{Column: column, Count: len(values)}
	nan := math.NaN()
	if len(values) == 0 {
		d.Mean, d.Std, d.Min, d.Q25, d.Q50, d.Q75, d.Max = nan, nan, nan, nan, nan, nan, nan
		return d
	}
	cp := make([]float64, len(values))
	copy(cp, values)
	sort.Float64s(cp)
	s := moremath.Sample{Xs: cp, Sorted: true}
	d.Mean = s.Mean()
	d.Std = nan
	if len(cp) > 1 {
		d.Std = s.StdDev()
	}
	d.Min = cp[0]
	d.Max = cp[len(cp)-1]
	d.Q25 = quantile(cp, 0.25)
	d.Q50 = quantile(cp, 0.5)
	d.Q75 = quantile(cp, 0.75)
	return d
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// MarshalJSON writes undefined statistics as null.
func (d Description) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Column string   `json:"column"`
		Count  int      `json:"count"`
		Mean   *float64 `json:"mean"`
		Std    *float64 `json:"std"`
		Min    *float64 `json:"min"`
		Q25    *float64 `json:"q25"`
		Q50    *float64 `json:"q50"`
		Q75    *float64 `json:"q75"`
		Max    *float64 `json:"max"`
	}{d.Column, d.Count, finite(d.Mean), finite(d.Std), finite(d.Min), finite(d.Q25), finite(d.Q50), finite(d.Q75), finite(d.Max)})
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
