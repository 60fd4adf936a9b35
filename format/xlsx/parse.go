package xlsx

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/lomloe-tools/curfill/format"
	"github.com/lomloe-tools/curfill/tabular"
)

// Read loads one worksheet. The first row is the header.
func (f *Format) Read(r io.Reader, opts *format.ReadOptions) (sheet *tabular.Sheet, err error) {
	if opts == nil {
		opts = format.NewReadOptions()
	}

	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() {
		if cerr := wb.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing workbook: %w", cerr)
		}
	}()

	name, err := pickSheet(wb.GetSheetList(), opts.Sheet)
	if err != nil {
		return nil, err
	}

	rows, err := wb.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", name, err)
	}

	sheet = tabular.FromRecords(opts.SourceName, rows)
	if sheet.Name == "" {
		sheet.Name = name
	}
	return sheet, nil
}

func pickSheet(names []string, want string) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if want == "" {
		return names[0], nil
	}
	wantNorm := tabular.NormalizeLabel(want)
	for _, n := range names {
		if tabular.NormalizeLabel(n) == wantNorm {
			return n, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found (available: %s)", want, strings.Join(names, ", "))
}
