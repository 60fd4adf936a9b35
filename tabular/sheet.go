// Package tabular holds the in-memory representation of a spreadsheet: a header row
// followed by ordered rows of string cells.
package tabular

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Sheet is a single table with named columns.
type Sheet struct {
	// Name is the sheet or file the table was read from
	Name string

	// Header holds the column labels in order
	Header []string

	// Rows holds the data rows. A row may be shorter than Header; missing
	// trailing cells are blank.
	Rows [][]string
}

// SchemaError reports required columns that are missing from a sheet.
type SchemaError struct {
	Source  string
	Missing []string
}

func (e *SchemaError) Error() string {
	quoted := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		quoted[i] = fmt.Sprintf("%q", m)
	}
	noun := "column"
	if len(e.Missing) > 1 {
		noun = "columns"
	}
	if e.Source == "" {
		return fmt.Sprintf("missing required %s %s", noun, strings.Join(quoted, ", "))
	}
	return fmt.Sprintf("%s: missing required %s %s", e.Source, noun, strings.Join(quoted, ", "))
}

// IsBlank reports whether a cell value counts as empty.
func IsBlank(v string) bool {
	return strings.TrimSpace(v) == ""
}

// NormalizeLabel folds a header label or key to a comparable form.
// Workbooks saved on some systems store accented letters decomposed.
func NormalizeLabel(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// ColumnIndex returns the position of the named column, or -1.
func (s *Sheet) ColumnIndex(name string) int {
	want := NormalizeLabel(name)
	for i, h := range s.Header {
		if NormalizeLabel(h) == want {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the sheet carries the named column.
func (s *Sheet) HasColumn(name string) bool {
	return s.ColumnIndex(name) >= 0
}

// Require checks that every named column exists. All missing columns are
// reported together.
func (s *Sheet) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if !s.HasColumn(n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Source: s.Name, Missing: missing}
	}
	return nil
}

// Cell returns the trimmed value at row, col. Out-of-range cells are blank.
func (s *Sheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) || col < 0 {
		return ""
	}
	r := s.Rows[row]
	if col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// Column returns every value of the named column in row order.
func (s *Sheet) Column(name string) ([]string, error) {
	idx := s.ColumnIndex(name)
	if idx < 0 {
		return nil, &SchemaError{Source: s.Name, Missing: []string{name}}
	}
	out := make([]string, len(s.Rows))
	for i := range s.Rows {
		out[i] = s.Cell(i, idx)
	}
	return out, nil
}

// SetColumn overwrites the named column, appending it to the header when absent.
// values must have one entry per row.
func (s *Sheet) SetColumn(name string, values []string) error {
	if len(values) != len(s.Rows) {
		return fmt.Errorf("column %q: got %d values for %d rows", name, len(values), len(s.Rows))
	}
	idx := s.ColumnIndex(name)
	if idx < 0 {
		s.Header = append(s.Header, name)
		idx = len(s.Header) - 1
	}
	for i, v := range values {
		row := s.Rows[i]
		for len(row) <= idx {
			row = append(row, "")
		}
		row[idx] = v
		s.Rows[i] = row
	}
	return nil
}

// MoveColumnFirst moves the named column to position zero, keeping the
// relative order of the others.
func (s *Sheet) MoveColumnFirst(name string) error {
	idx := s.ColumnIndex(name)
	if idx < 0 {
		return &SchemaError{Source: s.Name, Missing: []string{name}}
	}
	if idx == 0 {
		return nil
	}
	s.Header = moveFirst(s.Header, idx)
	for i, row := range s.Rows {
		for len(row) <= idx {
			row = append(row, "")
		}
		s.Rows[i] = moveFirst(row, idx)
	}
	return nil
}

func moveFirst(in []string, idx int) []string {
	out := make([]string, 0, len(in))
	out = append(out, in[idx])
	out = append(out, in[:idx]...)
	out = append(out, in[idx+1:]...)
	return out
}

// Width returns the number of columns, counting cells beyond the header.
func (s *Sheet) Width() int {
	w := len(s.Header)
	for _, r := range s.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// FromRecords builds a sheet whose first record is the header. Header labels
// are trimmed; data cells are kept as read.
func FromRecords(name string, records [][]string) *Sheet {
	s := &Sheet{Name: name}
	if len(records) == 0 {
		return s
	}
	s.Header = make([]string, len(records[0]))
	for i, h := range records[0] {
		s.Header[i] = strings.TrimSpace(h)
	}
	s.Rows = records[1:]
	return s
}

// Records returns the header followed by the rows, each padded to the sheet width.
func (s *Sheet) Records() [][]string {
	w := s.Width()
	out := make([][]string, 0, len(s.Rows)+1)
	out = append(out, pad(s.Header, w))
	for _, r := range s.Rows {
		out = append(out, pad(r, w))
	}
	return out
}

func pad(in []string, w int) []string {
	out := make([]string, w)
	copy(out, in)
	return out
}
