package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agentstation/gradesync/pkg/gradebook"
)

// CellChange is one primary cell the merge replaced.
type CellChange struct {
	// Student is the primary name as read; Identity is its join key.
	Student  string `json:"student" yaml:"student"`
	Identity string `json:"identity" yaml:"identity"`
	// Row is the index of the student among the primary rows.
	Row int `json:"row" yaml:"row"`
	// Key is the canonical assignment key; Label the primary column it restores to.
	Key   gradebook.AssignmentKey `json:"key" yaml:"key"`
	Label string                  `json:"label" yaml:"label"`
	// Source is the secondary identity that supplied the new score.
	Source string          `json:"source" yaml:"source"`
	From   gradebook.Score `json:"-" yaml:"-"`
	To     gradebook.Score `json:"-" yaml:"-"`
	// Before and After are the formatted cells, for reports.
	Before string `json:"before" yaml:"before"`
	After  string `json:"after" yaml:"after"`
}

// ChangesetSummary provides summary statistics for a changeset.
type ChangesetSummary struct {
	CellsChanged    int `json:"cells_changed" yaml:"cells_changed"`
	StudentsChanged int `json:"students_changed" yaml:"students_changed"`
	KeysChanged     int `json:"assignments_changed" yaml:"assignments_changed"`
}

// Changeset lists every improved cell in primary row order.
type Changeset struct {
	Changes []CellChange     `json:"changes" yaml:"changes"`
	Summary ChangesetSummary `json:"summary" yaml:"summary"`
}

// NewChangeset creates an empty changeset.
func NewChangeset() *Changeset {
	return &Changeset{}
}

// Add records a change.
func (c *Changeset) Add(change CellChange) {
	c.Changes = append(c.Changes, change)
}

// Finalize sorts the changes and computes the summary.
func (c *Changeset) Finalize() {
	sort.SliceStable(c.Changes, func(i, j int) bool {
		return c.Changes[i].Row < c.Changes[j].Row
	})

	students := make(map[int]bool)
	keys := make(map[gradebook.AssignmentKey]bool)
	for _, ch := range c.Changes {
		students[ch.Row] = true
		keys[ch.Key] = true
	}
	c.Summary = ChangesetSummary{
		CellsChanged:    len(c.Changes),
		StudentsChanged: len(students),
		KeysChanged:     len(keys),
	}
}

// HasChanges returns true if the changeset contains any changes.
func (c *Changeset) HasChanges() bool {
	return c != nil && len(c.Changes) > 0
}

// IsEmpty returns true if the changeset contains no changes.
func (c *Changeset) IsEmpty() bool {
	return !c.HasChanges()
}

// ByKey groups changes by assignment key.
func (c *Changeset) ByKey() map[gradebook.AssignmentKey][]CellChange {
	out := make(map[gradebook.AssignmentKey][]CellChange)
	if c == nil {
		return out
	}
	for _, ch := range c.Changes {
		out[ch.Key] = append(out[ch.Key], ch)
	}
	return out
}

// String returns a human-readable summary of the changeset.
func (c *Changeset) String() string {
	if c.IsEmpty() {
		return "No scores changed"
	}

	parts := []string{fmt.Sprintf("%d score(s) improved", c.Summary.CellsChanged)}
	if c.Summary.StudentsChanged > 0 {
		parts = append(parts, fmt.Sprintf("%d student(s)", c.Summary.StudentsChanged))
	}
	if c.Summary.KeysChanged > 0 {
		parts = append(parts, fmt.Sprintf("%d assignment(s)", c.Summary.KeysChanged))
	}
	return strings.Join(parts, ", ")
}
