package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/lomloe-tools/curfill/format"
	"github.com/lomloe-tools/curfill/tabular"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// Read parses CSV input into a sheet. The first record is the header.
func (f *Format) Read(r io.Reader, opts *format.ReadOptions) (*tabular.Sheet, error) {
	if opts == nil {
		opts = format.NewReadOptions()
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true
	reader.Comma = delimiterFor(opts.Delimiter, opts.SourceName)

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	return tabular.FromRecords(opts.SourceName, rows), nil
}

func delimiterFor(override rune, name string) rune {
	if override != 0 {
		return override
	}
	if strings.EqualFold(filepath.Ext(name), ".tsv") {
		return '\t'
	}
	return ','
}
