// Package inspect provides the inspect command.
package inspect

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/agentstation/gradesync/internal/appcontext"
	"github.com/agentstation/gradesync/internal/cmd/output"
	"github.com/agentstation/gradesync/internal/sheets"
	"github.com/agentstation/gradesync/pkg/assignments"
	"github.com/agentstation/gradesync/pkg/constants"
	"github.com/agentstation/gradesync/pkg/gradebook"
	"github.com/agentstation/gradesync/pkg/scores"
)

// Column kinds
const (
	KindAssignment = "assignment"
	KindIdentity   = "identity"
	KindOther      = "other"
)

// Column describes one header cell.
type Column struct {
	Label string `json:"label" yaml:"label"`
	Key   string `json:"key" yaml:"key"`
	Kind  string `json:"kind" yaml:"kind"`
	// Duplicate is set when an earlier column already claimed Key
	Duplicate bool `json:"duplicate" yaml:"duplicate"`
}

// Inspection summarizes how gradesync reads a gradebook.
type Inspection struct {
	File     string       `json:"file" yaml:"file"`
	Rows     int          `json:"rows" yaml:"rows"`
	Preamble int          `json:"preamble_rows" yaml:"preamble_rows"`
	Columns  []Column     `json:"columns" yaml:"columns"`
	Cells    scores.Stats `json:"cells" yaml:"cells"`
}

// NewCommand creates the inspect command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inspect FILE",
		GroupID: "core",
		Short:   "Show how a gradebook's columns and cells are read",
		Long: `Inspect reads one gradebook and lists every column with the assignment
key it normalizes to, then counts assignment cells by classification
(numeric, exempt, blank, unparseable). Columns that share a key are flagged
as duplicates: reconcile rejects them in the primary gradebook and ignores all
but the leftmost in the secondary one.`,
		Example: `  gradesync inspect grades.csv
  gradesync inspect practice.xlsx -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := sheets.ReadFile(args[0])
			if err != nil {
				return err
			}

			gs, err := app.Gradesync()
			if err != nil {
				return err
			}
			engine := gs.Engine()
			result := Inspect(args[0], table, engine.Extractor(), engine.Normalizer())

			w := cmd.OutOrStdout()
			format := output.Format(app.OutputFormat())
			if !format.IsTable() {
				return output.NewFormatter(format).Format(w, result)
			}

			if err := output.NewFormatter(format).Format(w, result.Columns); err != nil {
				return err
			}
			c := result.Cells
			_, err = fmt.Fprintf(w, "%d student rows, %d preamble rows. Assignment cells: %d numeric, %d exempt, %d blank, %d unparseable\n",
				result.Rows, result.Preamble, c.Numeric, c.Exempt, c.Blank, c.Unparseable)
			return err
		},
	}

	return cmd
}

// Inspect classifies the columns and assignment cells of table.
func Inspect(file string, table *gradebook.Table, extractor *assignments.Extractor, normalizer *scores.Normalizer) *Inspection {
	result := &Inspection{
		File:     file,
		Rows:     len(table.Rows),
		Preamble: len(table.Preamble),
		Columns:  make([]Column, 0, len(table.Header)),
	}

	seen := make(map[gradebook.AssignmentKey]bool)
	for i, label := range table.Header {
		col := Column{Label: label, Kind: KindOther}

		if key, ok := extractor.Extract(label); ok {
			col.Key = key.String()
			col.Kind = KindAssignment
			col.Duplicate = seen[key]
			seen[key] = true
			for _, row := range table.Rows {
				normalizer.Cell(table.Cell(row, i), gradebook.Primary, &result.Cells)
			}
		} else if isIdentityColumn(label) {
			col.Kind = KindIdentity
		}

		result.Columns = append(result.Columns, col)
	}

	return result
}

func isIdentityColumn(label string) bool {
	return slices.Contains(constants.IdentityColumns, label) ||
		label == constants.ColumnLast || label == constants.ColumnFirst || label == constants.ColumnClass
}
