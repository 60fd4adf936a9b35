// Package xlsx provides a format plugin for Excel workbooks.
//
// Merged cells read as blank everywhere except their top-left anchor, which is
// what the lookup builder's forward-fill expects.
package xlsx

import (
	"bytes"

	"github.com/lomloe-tools/curfill/format"
)

// Format implements the Excel workbook format.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format = (*Format)(nil)
	_ format.Reader = (*Format)(nil)
	_ format.Writer = (*Format)(nil)
)

// DefaultSheet names the worksheet of a new workbook.
const DefaultSheet = "Sheet1"

// Name returns the format identifier.
func (f *Format) Name() string {
	return "xlsx"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "Excel workbook (Office Open XML)"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"xlsx", "xlsm"}
}

// CanParse returns true if the input starts like a zip archive.
func (f *Format) CanParse(peek []byte) bool {
	return bytes.HasPrefix(peek, []byte("PK\x03\x04"))
}

func init() {
	format.Register(&Format{})
}
