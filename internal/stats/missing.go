package stats

import (
	"sort"

	"github.com/go-gota/gota/dataframe"
)

// ColumnCount pairs a column name with a count.
type ColumnCount struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
}

// ColumnFraction pairs a column name with a fraction in [0, 1].
type ColumnFraction struct {
	Column   string
	Fraction float64
}

// MissingCounts counts missing entries per column, in table order.
func MissingCounts(df dataframe.DataFrame) []ColumnCount {
	names := df.Names()
	out := make([]ColumnCount, 0, len(names))
	for _, name := range names {
		n := 0
		for _, na := range Missing(df.Col(name)) {
			if na {
				n++
			}
		}
		out = append(out, ColumnCount{Column: name, Count: n})
	}
	return out
}

// MissingFractions returns the missing fraction per column ordered by
// descending fraction; ties keep table order. A table without rows reports 0
// for every column.
func MissingFractions(df dataframe.DataFrame) []ColumnFraction {
	rows := df.Nrow()
	counts := MissingCounts(df)
	out := make([]ColumnFraction, len(counts))
	for i, c := range counts {
		f := 0.0
		if rows > 0 {
			f = float64(c.Count) / float64(rows)
		}
		out[i] = ColumnFraction{Column: c.Column, Fraction: f}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fraction > out[j].Fraction })
	return out
}
