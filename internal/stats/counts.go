package stats

import (
	"math"
	"sort"
	"strconv"

	"github.com/go-gota/gota/series"
)

// MissingLabel is the category label used for missing values.
const MissingLabel = "NaN"

// CategoryCount is one entry of a value-count table.
type CategoryCount struct {
	Value   string `json:"value"`
	Count   int    `json:"count"`
	Missing bool   `json:"missing,omitempty"`

	num float64
}

// ValueCounts counts occurrences of each distinct value, missing entries
// included as their own category. Entries are sorted ascending by value:
// numerically for numeric columns, lexically otherwise, missing last.
func ValueCounts(s series.Series) []CategoryCount {
	numeric := IsNumeric(s.Type())
	na := Missing(s)
	idx := map[string]int{}
	var out []CategoryCount
	missing := 0
	for i := 0; i < s.Len(); i++ {
		if i < len(na) && na[i] {
			missing++
			continue
		}
		e := s.Elem(i)
		label := e.String()
		var num float64
		if numeric {
			num = e.Float()
			label = strconv.FormatFloat(num, 'g', -1, 64)
		}
		if j, ok := idx[label]; ok {
			out[j].Count++
			continue
		}
		idx[label] = len(out)
		out = append(out, CategoryCount{Value: label, Count: 1, num: num})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if numeric {
			return out[i].num < out[j].num
		}
		return out[i].Value < out[j].Value
	})
	if missing > 0 {
		out = append(out, CategoryCount{Value: MissingLabel, Count: missing, Missing: true, num: math.NaN()})
	}
	return out
}
