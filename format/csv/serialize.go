package csv

import (
	"encoding/csv"
	"io"

	"github.com/lomloe-tools/curfill/format"
	"github.com/lomloe-tools/curfill/tabular"
)

// Write writes the sheet as CSV, header first.
func (f *Format) Write(w io.Writer, sheet *tabular.Sheet, opts *format.WriteOptions) error {
	if opts == nil {
		opts = format.NewWriteOptions()
	}

	writer := csv.NewWriter(w)
	writer.Comma = delimiterFor(opts.Delimiter, opts.TargetName)

	if err := writer.WriteAll(sheet.Records()); err != nil {
		return err
	}
	return writer.Error()
}
