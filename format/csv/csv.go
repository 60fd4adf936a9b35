// Package csv provides a format plugin for comma- and tab-separated sheets.
package csv

import (
	"bytes"

	"github.com/lomloe-tools/curfill/format"
)

// Format implements the CSV format.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format = (*Format)(nil)
	_ format.Reader = (*Format)(nil)
	_ format.Writer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "csv"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "Comma- or tab-separated values"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"csv", "tsv"}
}

// CanParse returns true if the input looks like CSV data.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(bytes.TrimPrefix(peek, utf8BOM))
	if len(peek) == 0 {
		return false
	}

	// Workbooks are zip archives
	if bytes.HasPrefix(peek, []byte("PK")) {
		return false
	}
	if peek[0] == '{' || peek[0] == '[' || peek[0] == '<' {
		return false
	}

	hasComma := bytes.Contains(peek, []byte(","))
	hasTab := bytes.Contains(peek, []byte("\t"))
	hasNewline := bytes.Contains(peek, []byte("\n"))

	return (hasComma || hasTab) && hasNewline
}

func init() {
	format.Register(&Format{})
}
