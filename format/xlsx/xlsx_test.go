package xlsx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/lomloe-tools/curfill/format"
	"github.com/lomloe-tools/curfill/tabular"
)

// mergedWorkbook builds a mapping workbook whose first column is merged over two rows.
func mergedWorkbook(t *testing.T) *bytes.Buffer {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()

	const sheet = "Esquema elementos currículo"
	require.NoError(t, wb.SetSheetName("Sheet1", "Notes"))
	_, err := wb.NewSheet(sheet)
	require.NoError(t, err)

	rows := [][]interface{}{
		{"Competencias específicas", "Descriptores del perfil de salida", "Criterios de evaluación", "Saberes básicos"},
		{"CE1", "D1", "CR1", "S1"},
		{nil, "D2", nil, "S1"},
		{"CE2", "D3", "CR2", "S2"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, wb.MergeCell(sheet, "A2", "A3"))
	require.NoError(t, wb.MergeCell(sheet, "C2", "C3"))

	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))
	return &buf
}

func TestReadNamedSheetWithMergedCells(t *testing.T) {
	f := &Format{}

	sheet, err := f.Read(mergedWorkbook(t), &format.ReadOptions{
		Sheet:      "Esquema elementos currículo",
		SourceName: "mapping.xlsx",
	})
	require.NoError(t, err)

	assert.Equal(t, "mapping.xlsx", sheet.Name)
	assert.Equal(t, "Saberes básicos", sheet.Header[3])

	comps, err := sheet.Column("Competencias específicas")
	require.NoError(t, err)
	assert.Equal(t, []string{"CE1", "", "CE2"}, comps)

	crit, err := sheet.Column("Criterios de evaluación")
	require.NoError(t, err)
	assert.Equal(t, []string{"CR1", "", "CR2"}, crit)
}

func TestReadFirstSheetByDefault(t *testing.T) {
	f := &Format{}

	sheet, err := f.Read(mergedWorkbook(t), nil)
	require.NoError(t, err)
	assert.Equal(t, "Notes", sheet.Name)
	assert.Empty(t, sheet.Header)
}

func TestReadMissingSheet(t *testing.T) {
	f := &Format{}

	_, err := f.Read(mergedWorkbook(t), &format.ReadOptions{Sheet: "Other"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `sheet "Other" not found`)
	assert.Contains(t, err.Error(), "Notes")
}

func TestReadNotAWorkbook(t *testing.T) {
	f := &Format{}

	_, err := f.Read(bytes.NewBufferString("card number,items\n"), nil)
	assert.Error(t, err)
}

func TestWriteRoundTrip(t *testing.T) {
	f := &Format{}
	in := tabular.FromRecords("cards.xlsx", [][]string{
		{"Nº carta", "Saberes básicos", "Competencias específicas"},
		{"1", "S1, S2", "CE1, CE2"},
		{"2", "", ""},
		{"3", "S2"},
	})

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf, in, &format.WriteOptions{Sheet: "Cartas"}))

	out, err := f.Read(&buf, &format.ReadOptions{Sheet: "Cartas", SourceName: "cards_filled.xlsx"})
	require.NoError(t, err)

	assert.Equal(t, in.Header, out.Header)
	for i := range in.Rows {
		for c := range in.Header {
			assert.Equal(t, in.Cell(i, c), out.Cell(i, c), "row %d col %d", i, c)
		}
	}
}

func TestWriteDefaultSheetName(t *testing.T) {
	f := &Format{}
	in := tabular.FromRecords("x", [][]string{{"a"}, {"1"}})

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf, in, nil))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()
	assert.Equal(t, []string{DefaultSheet}, wb.GetSheetList())

	v, err := wb.GetCellValue(DefaultSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestCanParse(t *testing.T) {
	f := &Format{}
	assert.True(t, f.CanParse([]byte("PK\x03\x04rest")))
	assert.False(t, f.CanParse([]byte("a,b\n")))
}
