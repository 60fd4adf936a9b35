package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/lomloe-tools/curfill/format"
	"github.com/lomloe-tools/curfill/tabular"
)

// Write writes the sheet as a single-sheet workbook with a bold header row.
// Blank cells are left empty.
func (f *Format) Write(w io.Writer, sheet *tabular.Sheet, opts *format.WriteOptions) (err error) {
	if opts == nil {
		opts = format.NewWriteOptions()
	}

	wb := excelize.NewFile()
	defer func() {
		if cerr := wb.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing workbook: %w", cerr)
		}
	}()

	name := DefaultSheet
	if opts.Sheet != "" {
		name = opts.Sheet
		if err := wb.SetSheetName(DefaultSheet, name); err != nil {
			return fmt.Errorf("naming sheet %q: %w", name, err)
		}
	}

	records := sheet.Records()
	for r, row := range records {
		for c, v := range row {
			if v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := wb.SetCellStr(name, cell, v); err != nil {
				return fmt.Errorf("writing %s: %w", cell, err)
			}
		}
	}

	if len(sheet.Header) > 0 {
		if err := styleHeader(wb, name, len(records[0])); err != nil {
			return err
		}
	}

	if err := wb.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func styleHeader(wb *excelize.File, sheet string, width int) error {
	style, err := wb.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(width, 1)
	if err != nil {
		return err
	}
	return wb.SetCellStyle(sheet, "A1", last, style)
}
