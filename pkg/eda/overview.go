package eda

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/KaramelBytes/edakit/internal/stats"
)

// DefaultHeadRows is the preview size used when no row count is given.
const DefaultHeadRows = 5

// Shape is the table size.
type Shape struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// ColumnType is a column's declared type.
type ColumnType struct {
	Column string `json:"column"`
	Type   string `json:"type"`
}

// Summary is the result of Overview.
type Summary struct {
	Shape         Shape               `json:"shape"`
	Dtypes        []ColumnType        `json:"dtypes"`
	MissingCounts []stats.ColumnCount `json:"missing_counts"`
	Numeric       []stats.Description `json:"numeric"`
	Columns       []string            `json:"columns"`
	Head          [][]string          `json:"head"`

	// Prefix is prepended to the shape heading in the text rendering.
	Prefix string `json:"-"`
}

// Missing returns the missing count for column, or -1 if it is unknown.
func (r *Summary) Missing(column string) int {
	for _, c := range r.MissingCounts {
		if c.Column == column {
			return c.Count
		}
	}
	return -1
}

// Overview summarizes the table and writes the text rendering to the output
// stream. rowCount sets the preview size; negative means DefaultHeadRows.
func (s *Session) Overview(rowCount int) *Summary {
	rep := s.Summary(rowCount)
	if err := rep.Write(s.out); err != nil {
		s.log.Warn("write overview", "error", err)
	}
	return rep
}

// Summary computes the overview without writing it.
func (s *Session) Summary(rowCount int) *Summary {
	if rowCount < 0 {
		rowCount = DefaultHeadRows
	}
	df := s.df
	names := df.Names()
	types := df.Types()
	rep := &Summary{
		Shape:         Shape{Rows: df.Nrow(), Cols: df.Ncol()},
		Columns:       names,
		MissingCounts: stats.MissingCounts(df),
		Dtypes:        make([]ColumnType, len(names)),
		Numeric:       []stats.Description{},
		Prefix:        s.prefix,
	}
	for i, name := range names {
		rep.Dtypes[i] = ColumnType{Column: name, Type: string(types[i])}
	}
	for _, name := range stats.NumericColumns(df) {
		rep.Numeric = append(rep.Numeric, stats.Describe(name, stats.Present(df.Col(name))))
	}
	n := rowCount
	if n > rep.Shape.Rows {
		n = rep.Shape.Rows
	}
	rep.Head = make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(names))
		for j, name := range names {
			row[j] = df.Col(name).Elem(i).String()
		}
		rep.Head[i] = row
	}
	return rep
}

// Write renders the summary as plain text sections.
func (r *Summary) Write(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s ===\n", prefixed(r.Prefix, "Data shape"))
	fmt.Fprintf(&b, "(%d, %d)\n\n", r.Shape.Rows, r.Shape.Cols)

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	b.WriteString("=== Dtypes ===\n")
	for _, d := range r.Dtypes {
		fmt.Fprintf(tw, "%s\t%s\n", cell(d.Column), d.Type)
	}
	tw.Flush()

	b.WriteString("\n=== Missing values per column ===\n")
	for _, m := range r.MissingCounts {
		fmt.Fprintf(tw, "%s\t%d\n", cell(m.Column), m.Count)
	}
	tw.Flush()

	b.WriteString("\n=== Numeric summary (describe) ===\n")
	if len(r.Numeric) == 0 {
		b.WriteString("(no numeric columns)\n")
	} else {
		fmt.Fprintln(tw, "\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax")
		for _, d := range r.Numeric {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", cell(d.Column), d.Count,
				num(d.Mean), num(d.Std), num(d.Min), num(d.Q25), num(d.Q50), num(d.Q75), num(d.Max))
		}
		tw.Flush()
	}

	b.WriteString("\n=== Head ===\n")
	if len(r.Columns) > 0 {
		hdr := make([]string, len(r.Columns))
		for i, c := range r.Columns {
			hdr[i] = cell(c)
		}
		fmt.Fprintf(tw, "\t%s\n", strings.Join(hdr, "\t"))
		for i, row := range r.Head {
			vals := make([]string, len(row))
			for j, v := range row {
				vals[j] = cell(v)
			}
			fmt.Fprintf(tw, "%d\t%s\n", i, strings.Join(vals, "\t"))
		}
		tw.Flush()
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.4g", v)
}

func cell(s string) string {
	return strings.NewReplacer("\n", " ", "\t", " ").Replace(s)
}
