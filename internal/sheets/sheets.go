// Package sheets reads and writes gradebook tables.
//
// CSV files are decoded with encoding/csv and XLSX workbooks with excelize (first
// sheet only). Both produce a gradebook.Table whose preamble holds the rows an LMS
// export places between the header and the first student.
package sheets

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/agentstation/gradesync/pkg/constants"
	"github.com/agentstation/gradesync/pkg/errors"
	"github.com/agentstation/gradesync/pkg/gradebook"
)

// Format is a supported file format.
type Format string

const (
	// CSV is comma-separated text.
	CSV Format = "csv"
	// XLSX is an Office Open XML workbook.
	XLSX Format = "xlsx"
)

// FormatFromPath returns the format implied by the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV, nil
	case ".xlsx", ".xlsm":
		return XLSX, nil
	default:
		return "", errors.NewValidationError("path", path, "unsupported file type (want .csv or .xlsx)")
	}
}

// ReadFile reads a gradebook from path, choosing the decoder by extension.
func ReadFile(path string) (*gradebook.Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("file", path)
		}
		return nil, errors.WrapIO("read", path, err)
	}

	switch format {
	case XLSX:
		return ReadXLSX(bytes.NewReader(data), path)
	default:
		return ReadCSV(bytes.NewReader(data), path)
	}
}

// WriteFile writes table to path, creating parent directories as needed.
func WriteFile(path string, table *gradebook.Table) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}

	var buf bytes.Buffer
	switch format {
	case XLSX:
		err = WriteXLSX(&buf, table)
	default:
		err = WriteCSV(&buf, table)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// newTable splits decoded records into header, preamble, and student rows.
// The preamble is the run of rows right after the header whose ID cell is blank;
// it only exists when the header has an ID column.
func newTable(records [][]string) *gradebook.Table {
	if len(records) == 0 {
		return &gradebook.Table{}
	}

	header := slices.Clone(records[0])
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	table := &gradebook.Table{Header: header}
	rows := records[1:]

	if idCol := table.ColumnIndex(constants.ColumnID); idCol >= 0 {
		n := 0
		for n < len(rows) && strings.TrimSpace(table.Cell(rows[n], idCol)) == "" {
			n++
		}
		// a file whose every row lacks an ID has no students to protect; keep them as rows
		if n < len(rows) {
			table.Preamble = rows[:n]
			rows = rows[n:]
		}
	}

	table.Rows = dropBlankRows(rows)
	return table
}

// dropBlankRows removes rows whose cells are all blank.
func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
