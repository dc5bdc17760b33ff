package reconcile

import (
	"fmt"

	"github.com/agentstation/gradesync/pkg/assignments"
	"github.com/agentstation/gradesync/pkg/constants"
	"github.com/agentstation/gradesync/pkg/errors"
	"github.com/agentstation/gradesync/pkg/gradebook"
	"github.com/agentstation/gradesync/pkg/identity"
	"github.com/agentstation/gradesync/pkg/scores"
)

// BuildDataset normalizes a raw table into a Dataset: assignment columns get
// canonical keys, every assignment cell is classified (and rescaled for the
// secondary role), and each row gets its identity key. The table is not modified.
//
// The student name comes from the Student column. A table without one may carry
// Last and First columns instead, which are joined as "Last, First"; a row
// missing either part gets an empty identity.
//
// Assignment columns repeating a key are fatal in the primary table. In the
// secondary table the leftmost one is used and the rest are reported in Warnings.
func BuildDataset(table *gradebook.Table, role gradebook.Role, e *assignments.Extractor, n *scores.Normalizer) (*gradebook.Dataset, scores.Stats, error) {
	var stats scores.Stats
	if table == nil {
		return nil, stats, errors.NewValidationError(role.String(), nil, "table is nil")
	}
	if n == nil {
		n = scores.Default()
	}

	columns, err := assignments.Normalize(table.Header, role, e)
	if err != nil {
		return nil, stats, err
	}

	names, err := studentNames(table, role)
	if err != nil {
		return nil, stats, err
	}

	ds := &gradebook.Dataset{
		Role:     role,
		Header:   columns.Header(),
		Preamble: table.Preamble,
		Keys:     columns.Keys(),
		Columns:  columns.RestorableKeyMap(),
		Records:  make([]*gradebook.Record, len(table.Rows)),
	}
	for _, dup := range columns.Duplicates {
		ds.Warnings = append(ds.Warnings, fmt.Sprintf(
			"%s gradebook: column %q ignored, %q already provides %q", role, dup.Conflict, dup.First, dup.Key))
	}

	assignmentCols := columns.Assignments()
	passthroughCols := columns.Passthrough()

	for i, row := range table.Rows {
		rec := &gradebook.Record{
			Identity: identity.Normalize(names[i]),
			Name:     names[i],
			Scores:   make(map[gradebook.AssignmentKey]gradebook.Score, len(assignmentCols)),
			Row:      i,
		}
		for _, col := range assignmentCols {
			rec.Scores[col.Key] = n.Cell(table.Cell(row, col.Index), role, &stats)
		}
		if role == gradebook.Primary {
			rec.Attributes = make(map[string]string, len(passthroughCols))
			for _, col := range passthroughCols {
				if _, seen := rec.Attributes[col.Label]; !seen {
					rec.Attributes[col.Label] = table.Cell(row, col.Index)
				}
			}
		}
		ds.Records[i] = rec
	}

	return ds, stats, nil
}

// studentNames returns one display name per row.
func studentNames(table *gradebook.Table, role gradebook.Role) ([]string, error) {
	if table.HasColumn(constants.ColumnStudent) {
		return table.Column(constants.ColumnStudent), nil
	}

	if table.HasColumn(constants.ColumnLast) && table.HasColumn(constants.ColumnFirst) {
		last := table.Column(constants.ColumnLast)
		first := table.Column(constants.ColumnFirst)
		names := make([]string, len(table.Rows))
		for i := range names {
			names[i] = identity.Join(last[i], first[i])
		}
		return names, nil
	}

	return nil, errors.NewMissingColumnError(role.String(), constants.ColumnStudent)
}
