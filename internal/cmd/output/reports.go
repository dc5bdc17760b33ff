package output

import (
	"strconv"

	"github.com/agentstation/gradesync/internal/cmd/emoji"
	"github.com/agentstation/gradesync/pkg/identity"
	"github.com/agentstation/gradesync/pkg/reconcile"
)

// MatchesToData lists every secondary identity with its best candidate.
func MatchesToData(result *identity.Result) Data {
	data := Data{
		Headers:         []string{"", "Secondary", "Candidate", "Score", "Status"},
		ColumnAlignment: []Align{AlignCenter, AlignLeft, AlignLeft, AlignRight, AlignLeft},
	}
	if result == nil {
		return data
	}
	for _, m := range result.Matches {
		secondary := m.Secondary
		if secondary == "" {
			secondary = "(blank)"
		}
		candidate := m.Candidate
		if candidate == "" {
			candidate = "-"
		}
		data.Rows = append(data.Rows, []string{
			statusSymbol(m.Status),
			secondary,
			candidate,
			strconv.Itoa(m.Score),
			string(m.Status),
		})
	}
	return data
}

// ChangesToData lists every improved cell in primary row order.
func ChangesToData(changeset *reconcile.Changeset) Data {
	data := Data{
		Headers:         []string{"Student", "Assignment", "Before", "After", "Source"},
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignLeft},
	}
	if changeset == nil {
		return data
	}
	for _, c := range changeset.Changes {
		data.Rows = append(data.Rows, []string{c.Student, c.Label, c.Before, c.After, c.Source})
	}
	return data
}

// StatsToData renders run statistics as a property table.
func StatsToData(stats reconcile.ResultStatistics) Data {
	row := func(name string, v int) []string { return []string{name, strconv.Itoa(v)} }
	return Data{
		Headers:         []string{"Statistic", "Value"},
		ColumnAlignment: []Align{AlignLeft, AlignRight},
		Rows: [][]string{
			row("Primary students", stats.PrimaryStudents),
			row("Secondary students", stats.SecondaryStudents),
			row("Matched", stats.Matched),
			row("Unmatched", stats.Unmatched),
			row("Blank identities", stats.EmptyIdentities),
			row("Joined", stats.Joined),
			row("Folded duplicates", stats.Folded),
			row("Shared assignments", stats.SharedAssignments),
			row("Primary-only assignments", stats.PrimaryOnlyAssignments),
			row("Secondary-only assignments", stats.SecondaryOnlyAssignments),
			row("Scores improved", stats.CellsImproved),
			row("Exempt kept", stats.ExemptKept),
		},
	}
}

func statusSymbol(status identity.Status) string {
	switch status {
	case identity.Matched:
		return emoji.Success
	case identity.Unmatched:
		return emoji.Warning
	default:
		return emoji.Optional
	}
}
