// Package format defines the interface for spreadsheet format plugins.
package format

import (
	"io"

	"github.com/lomloe-tools/curfill/tabular"
)

// Format defines the interface that all format plugins must implement.
type Format interface {
	// Name returns the format identifier (e.g., "xlsx", "csv")
	Name() string

	// Description returns a human-readable format description
	Description() string

	// Extensions returns file extensions associated with this format
	Extensions() []string

	// CanParse returns true if this format can parse the given input
	CanParse(peek []byte) bool
}

// Reader is a format that can read a sheet.
type Reader interface {
	Format

	// Read parses input into a sheet whose first row is the header.
	Read(r io.Reader, opts *ReadOptions) (*tabular.Sheet, error)
}

// Writer is a format that can write a sheet.
type Writer interface {
	Format

	// Write serializes the sheet, header first.
	Write(w io.Writer, sheet *tabular.Sheet, opts *WriteOptions) error
}

// ReadOptions contains options for reading.
type ReadOptions struct {
	// Sheet selects a worksheet by name in multi-sheet formats. Empty selects the first one.
	Sheet string

	// Delimiter overrides the field delimiter of delimited text formats
	Delimiter rune

	// SourceName is an identifier for the source (for error messages)
	SourceName string
}

// WriteOptions contains options for writing.
type WriteOptions struct {
	// Sheet names the worksheet in multi-sheet formats
	Sheet string

	// Delimiter overrides the field delimiter of delimited text formats
	Delimiter rune

	// TargetName is the output file name, used to pick defaults such as the TSV delimiter
	TargetName string
}

// NewReadOptions creates ReadOptions with defaults.
func NewReadOptions() *ReadOptions {
	return &ReadOptions{}
}

// NewWriteOptions creates WriteOptions with defaults.
func NewWriteOptions() *WriteOptions {
	return &WriteOptions{}
}
