package table

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".xlsx")
}

// Load extracts every row of the selected sheet. If SheetName is empty the
// sheet is chosen by 1-based SheetIndex, defaulting to the first.
func (xlsxLoader) Load(path string, opt Options) ([][]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read xlsx: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	wb := workbook{zr: zr}
	target, err := wb.sheetPath(opt.SheetName, opt.SheetIndex)
	if err != nil {
		return nil, fmt.Errorf("%w in workbook '%s'", err, filepath.Base(path))
	}
	rr := &rowReader{d: xml.NewDecoder(bytes.NewReader(wb.file(target))), shared: wb.sharedStrings(), dec: opt.DecimalSeparator}
	var records [][]string
	for {
		row, ok := rr.next()
		if !ok {
			break
		}
		records = append(records, row)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", target)
	}
	return records, nil
}

type workbook struct {
	zr *zip.Reader
}

type sheetRef struct {
	name string
	id   int
	rid  string
}

func (wb workbook) file(name string) []byte {
	for _, f := range wb.zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil
		}
		defer rc.Close()
		b, _ := io.ReadAll(rc)
		return b
	}
	return nil
}

// sheetPath resolves a sheet to its part name inside the archive.
func (wb workbook) sheetPath(name string, index int) (string, error) {
	sheets := wb.sheets()
	rels := wb.relationships()
	if name != "" {
		for _, s := range sheets {
			if strings.EqualFold(s.name, name) {
				if rel, ok := rels[s.rid]; ok {
					return partPath(rel), nil
				}
			}
		}
		avail := make([]string, len(sheets))
		for i, s := range sheets {
			avail[i] = s.name
		}
		return "", fmt.Errorf("sheet '%s' not found (available: %s)", name, strings.Join(avail, ", "))
	}
	if index <= 0 {
		index = 1
	}
	for _, s := range sheets {
		if s.id == index {
			if rel, ok := rels[s.rid]; ok {
				return partPath(rel), nil
			}
		}
	}
	return filepath.ToSlash(filepath.Join("xl", "worksheets", fmt.Sprintf("sheet%d.xml", index))), nil
}

func (wb workbook) sheets() []sheetRef {
	var out []sheetRef
	eachStart(wb.file("xl/workbook.xml"), func(se xml.StartElement) {
		if se.Name.Local != "sheet" {
			return
		}
		var s sheetRef
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "name":
				s.name = a.Value
			case "sheetId":
				s.id = leadingInt(a.Value)
			case "id":
				s.rid = a.Value
			}
		}
		out = append(out, s)
	})
	return out
}

func (wb workbook) relationships() map[string]string {
	out := map[string]string{}
	eachStart(wb.file("xl/_rels/workbook.xml.rels"), func(se xml.StartElement) {
		if se.Name.Local != "Relationship" {
			return
		}
		var id, target string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "Id":
				id = a.Value
			case "Target":
				target = a.Value
			}
		}
		if id != "" && target != "" {
			out[id] = target
		}
	})
	return out
}

func (wb workbook) sharedStrings() []string {
	data := wb.file("xl/sharedStrings.xml")
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var out []string
	var buf strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "si":
				buf.Reset()
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "t":
				inText = false
			case "si":
				out = append(out, buf.String())
			}
		case xml.CharData:
			if inText {
				buf.Write(se)
			}
		}
	}
}

func eachStart(data []byte, fn func(xml.StartElement)) {
	if len(data) == 0 {
		return
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		if se, ok := tok.(xml.StartElement); ok {
			fn(se)
		}
	}
}

// rowReader streams the rows of a worksheet part.
type rowReader struct {
	d      *xml.Decoder
	shared []string
	// dec is the decimal mark of text cells; numeric cells are always '.'.
	dec rune
}

func (r *rowReader) next() ([]string, bool) {
	var row []string
	inRow := false
	for {
		tok, err := r.d.Token()
		if err != nil {
			return nil, false
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch {
			case se.Name.Local == "row":
				inRow = true
				row = nil
			case inRow && se.Name.Local == "c":
				var ref, typ string
				for _, a := range se.Attr {
					switch a.Name.Local {
					case "r":
						ref = a.Value
					case "t":
						typ = a.Value
					}
				}
				col := columnIndex(ref)
				if col < 0 {
					col = len(row)
				}
				for len(row) <= col {
					row = append(row, "")
				}
				row[col] = r.cellValue(typ)
			}
		case xml.EndElement:
			if se.Name.Local == "row" {
				return row, true
			}
		}
	}
}

// cellValue reads up to the end of the current <c>, returning its <v> or
// inline <is><t> text with shared strings resolved.
func (r *rowReader) cellValue(typ string) string {
	var val string
	for {
		tok, err := r.d.Token()
		if err != nil {
			return val
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "v" || se.Name.Local == "t" {
				var s string
				if err := r.d.DecodeElement(&s, &se); err == nil {
					val = s
				}
			}
		case xml.EndElement:
			if se.Name.Local != "c" {
				continue
			}
			switch typ {
			case "s":
				idx := leadingInt(val)
				if idx >= 0 && idx < len(r.shared) {
					return localize(r.shared[idx], r.dec)
				}
				return ""
			case "inlineStr", "str":
				return localize(val, r.dec)
			}
			return val
		}
	}
}

// columnIndex converts a cell reference like "C12" to a 0-based column.
func columnIndex(ref string) int {
	idx := 0
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		switch {
		case c >= 'A' && c <= 'Z':
			idx = idx*26 + int(c-'A'+1)
		case c >= 'a' && c <= 'z':
			idx = idx*26 + int(c-'a'+1)
		default:
			return idx - 1
		}
	}
	return idx - 1
}

func leadingInt(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// partPath converts a relationship target to an archive entry name.
func partPath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return "xl/" + rel
}
