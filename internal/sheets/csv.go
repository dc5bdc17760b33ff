package sheets

import (
	"encoding/csv"
	"io"

	"github.com/agentstation/gradesync/pkg/errors"
	"github.com/agentstation/gradesync/pkg/gradebook"
)

// ReadCSV decodes a CSV gradebook. name is used in error messages only.
// Rows may have any number of fields; short rows read as blank cells.
func ReadCSV(r io.Reader, name string) (*gradebook.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		perr := errors.NewParseError("csv", name, err.Error(), err)
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			perr.Line = csvErr.Line
		}
		return nil, perr
	}
	if len(records) == 0 {
		return nil, errors.NewParseError("csv", name, "file is empty", nil)
	}

	return newTable(records), nil
}

// WriteCSV encodes table as header, preamble rows, then student rows.
func WriteCSV(w io.Writer, table *gradebook.Table) error {
	if table == nil {
		return errors.NewValidationError("table", nil, "table is nil")
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(table.Header); err != nil {
		return errors.WrapIO("write", "csv", err)
	}
	if err := writer.WriteAll(append(append([][]string{}, table.Preamble...), table.Rows...)); err != nil {
		return errors.WrapIO("write", "csv", err)
	}
	return nil
}
