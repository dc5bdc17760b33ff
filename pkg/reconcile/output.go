package reconcile

import (
	"slices"

	"github.com/agentstation/gradesync/pkg/assignments"
	"github.com/agentstation/gradesync/pkg/constants"
	"github.com/agentstation/gradesync/pkg/gradebook"
)

// render builds the output table in the primary's original schema. Passthrough
// cells are copied from the source row; assignment cells are formatted from the
// merged scores. Preamble rows are carried over untouched.
func (e *Engine) render(source *gradebook.Table, ds *gradebook.Dataset, merged *Merged) *gradebook.Table {
	header := assignments.Restore(ds.Header, ds.Columns)

	out := &gradebook.Table{
		Header:   header,
		Preamble: make([][]string, len(source.Preamble)),
		Rows:     make([][]string, len(merged.Records)),
	}
	for i, row := range source.Preamble {
		out.Preamble[i] = slices.Clone(row)
	}

	keyIndex := make(map[gradebook.AssignmentKey]int, len(ds.Keys))
	for i, label := range ds.Header {
		key := gradebook.AssignmentKey(label)
		if ds.Columns.Has(key) {
			keyIndex[key] = i
		}
	}

	for i, rec := range merged.Records {
		row := make([]string, len(header))
		copy(row, source.Rows[rec.Row])
		for key, col := range keyIndex {
			if score, ok := rec.Score(key); ok {
				row[col] = e.normalizer.Format(score)
			}
		}
		out.Rows[i] = row
	}

	if e.homeworkOnly {
		return out.Project(homeworkColumns(out.Header, ds))
	}
	return out
}

// homeworkColumns returns the identity columns present in header followed by
// every assignment column, in header order.
func homeworkColumns(header []string, ds *gradebook.Dataset) []string {
	var labels []string
	for _, col := range constants.IdentityColumns {
		if slices.Contains(header, col) {
			labels = append(labels, col)
		}
	}
	for _, key := range ds.Keys {
		if label, ok := ds.Columns.Label(key); ok {
			labels = append(labels, label)
		}
	}
	return labels
}
