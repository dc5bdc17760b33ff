package sheets

import (
	"io"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/agentstation/gradesync/pkg/errors"
	"github.com/agentstation/gradesync/pkg/gradebook"
)

// ReadXLSX decodes the first sheet of a workbook. Cells are read as raw values so
// number formats (percentages, fixed decimals) do not leak into scores.
func ReadXLSX(r io.Reader, name string) (*gradebook.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.NewParseError("xlsx", name, "cannot open workbook", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewParseError("xlsx", name, "workbook has no sheets", nil)
	}

	records, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.NewParseError("xlsx", name, "cannot read sheet "+sheets[0], err)
	}
	if len(records) == 0 {
		return nil, errors.NewParseError("xlsx", name, "sheet "+sheets[0]+" is empty", nil)
	}

	return newTable(records), nil
}

// WriteXLSX encodes table into a single-sheet workbook. Cells that parse as
// numbers are stored as numbers.
func WriteXLSX(w io.Writer, table *gradebook.Table) error {
	if table == nil {
		return errors.NewValidationError("table", nil, "table is nil")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)

	rows := make([][]string, 0, 1+len(table.Preamble)+len(table.Rows))
	rows = append(rows, table.Header)
	rows = append(rows, table.Preamble...)
	rows = append(rows, table.Rows...)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.WrapIO("write", "xlsx", err)
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = cellValue(v, i == 0)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return errors.WrapIO("write", "xlsx", err)
		}
	}

	if err := f.Write(w); err != nil {
		return errors.WrapIO("write", "xlsx", err)
	}
	return nil
}

// cellValue keeps header labels as text and stores numeric cells as numbers.
// Only canonical decimals convert, so IDs like "007" keep their zeros.
func cellValue(v string, header bool) any {
	if header {
		return v
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return v
	}
	if strconv.FormatFloat(f, 'f', -1, 64) != v {
		return v
	}
	return f
}
