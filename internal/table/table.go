// Package table loads tabular files into go-gota DataFrames for analysis.
package table

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// ErrUnsupported indicates a file format no loader accepts.
var ErrUnsupported = errors.New("unsupported table format")

// Options controls how a file is turned into a table.
type Options struct {
	// Delimiter for CSV. If 0, sniffed from the extension and header line.
	Delimiter rune
	// SheetName selects an XLSX sheet by name (case-insensitive).
	SheetName string
	// SheetIndex selects an XLSX sheet by 1-based index when SheetName is empty.
	SheetIndex int
	// NAValues are cell values treated as missing.
	NAValues []string
	// DecimalSeparator ',' reads "1.000,5" as 1000.5. Zero keeps values as written.
	DecimalSeparator rune
}

// DefaultOptions returns the loading defaults.
func DefaultOptions() Options {
	return Options{
		SheetIndex: 1,
		NAValues:   []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "<nil>"},
	}
}

// Loader reads one family of file formats.
type Loader interface {
	CanLoad(path string) bool
	Load(path string, opt Options) ([][]string, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// Load reads path with the first loader that accepts it and builds a
// DataFrame with detected column types.
func Load(path string, opt Options) (dataframe.DataFrame, error) {
	for _, l := range registry {
		if !l.CanLoad(path) {
			continue
		}
		records, err := l.Load(path, opt)
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		return FromRecords(records, opt)
	}
	return dataframe.DataFrame{}, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
}

// FromRecords builds a DataFrame from a header row followed by data rows.
// Short rows are padded and blank header cells named.
func FromRecords(records [][]string, opt Options) (dataframe.DataFrame, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("table has no header row")
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = safeName(h, i)
	}
	ncol := len(header)
	rows := make([][]string, 0, len(records))
	rows = append(rows, header)
	for _, rec := range records[1:] {
		row := make([]string, ncol)
		for j := 0; j < ncol && j < len(rec); j++ {
			row[j] = strings.TrimSpace(rec[j])
		}
		rows = append(rows, row)
	}
	na := opt.NAValues
	if na == nil {
		na = DefaultOptions().NAValues
	}
	df := dataframe.LoadRecords(rows,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(na),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("build table: %w", df.Err)
	}
	return df, nil
}

func safeName(s string, i int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Sprintf("unnamed_%d", i)
	}
	return s
}

// localize rewrites a text cell written with a non-dot decimal mark.
func localize(v string, dec rune) string {
	if dec == 0 || dec == '.' {
		return v
	}
	if n, ok := normalizeNumber(v, dec); ok {
		return n
	}
	return v
}

// normalizeNumber rewrites a number written with dec as its decimal mark and
// '.', ' ' or ' ' as grouping into Go syntax.
func normalizeNumber(s string, dec rune) (string, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return "", false
	}
	for _, sep := range []string{".", " ", " "} {
		if sep != string(dec) {
			raw = strings.ReplaceAll(raw, sep, "")
		}
	}
	raw = strings.ReplaceAll(raw, string(dec), ".")
	for i, c := range raw {
		switch {
		case c >= '0' && c <= '9', c == '.', c == 'e', c == 'E':
		case (c == '-' || c == '+') && (i == 0 || raw[i-1] == 'e' || raw[i-1] == 'E'):
		default:
			return "", false
		}
	}
	return raw, true
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}
