package reconcile

import (
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/gradesync/pkg/gradebook"
	"github.com/agentstation/gradesync/pkg/identity"
	"github.com/agentstation/gradesync/pkg/scores"
)

// Result represents the outcome of a reconciliation run
type Result struct {
	// Output is the reconciled gradebook in the primary's schema
	Output *gradebook.Table `json:"-" yaml:"-"`

	// Matches holds the identity match for every secondary student
	Matches *identity.Result `json:"matches" yaml:"matches"`

	// Changeset contains every improved cell
	Changeset *Changeset `json:"changeset" yaml:"changeset"`

	// Warnings contains non-critical issues
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Metadata about the run
	Metadata ResultMetadata `json:"metadata" yaml:"metadata"`
}

// ResultMetadata contains metadata about the reconciliation process
type ResultMetadata struct {
	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	EndTime   time.Time     `json:"end_time" yaml:"end_time"`
	Duration  time.Duration `json:"duration" yaml:"duration"`

	// Policy is the name of the merge policy
	Policy string `json:"policy" yaml:"policy"`

	// Threshold is the identity similarity threshold
	Threshold int `json:"threshold" yaml:"threshold"`

	Stats ResultStatistics `json:"stats" yaml:"stats"`
}

// ResultStatistics contains statistics about the reconciliation
type ResultStatistics struct {
	PrimaryStudents   int `json:"primary_students" yaml:"primary_students"`
	SecondaryStudents int `json:"secondary_students" yaml:"secondary_students"`

	Matched         int `json:"matched" yaml:"matched"`
	Unmatched       int `json:"unmatched" yaml:"unmatched"`
	EmptyIdentities int `json:"empty_identities" yaml:"empty_identities"`
	Joined          int `json:"joined" yaml:"joined"`
	Folded          int `json:"folded" yaml:"folded"`

	SharedAssignments        int `json:"shared_assignments" yaml:"shared_assignments"`
	PrimaryOnlyAssignments   int `json:"primary_only_assignments" yaml:"primary_only_assignments"`
	SecondaryOnlyAssignments int `json:"secondary_only_assignments" yaml:"secondary_only_assignments"`

	CellsImproved int `json:"cells_improved" yaml:"cells_improved"`
	ExemptKept    int `json:"exempt_kept" yaml:"exempt_kept"`

	PrimaryCells   scores.Stats `json:"primary_cells" yaml:"primary_cells"`
	SecondaryCells scores.Stats `json:"secondary_cells" yaml:"secondary_cells"`

	// Performance metrics
	NormalizeTimeMs int64 `json:"normalize_time_ms" yaml:"normalize_time_ms"`
	MatchTimeMs     int64 `json:"match_time_ms" yaml:"match_time_ms"`
	MergeTimeMs     int64 `json:"merge_time_ms" yaml:"merge_time_ms"`
	TotalTimeMs     int64 `json:"total_time_ms" yaml:"total_time_ms"`
}

// HasWarnings returns true if there were warnings
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasChanges returns true if any cell was improved
func (r *Result) HasChanges() bool {
	return r.Changeset.HasChanges()
}

// Unmatched returns the secondary students that contributed nothing.
func (r *Result) Unmatched() []identity.Match {
	if r.Matches == nil {
		return nil
	}
	return r.Matches.Unmatched()
}

// Summary returns a one-line summary of the result
func (r *Result) Summary() string {
	s := r.Metadata.Stats
	summary := fmt.Sprintf("Matched %d of %d secondary students. %s.",
		s.Matched, s.SecondaryStudents, r.Changeset.String())
	if s.Unmatched+s.EmptyIdentities > 0 {
		summary += fmt.Sprintf(" %d unmatched.", s.Unmatched+s.EmptyIdentities)
	}
	return summary
}

// Report generates a detailed report of the reconciliation
func (r *Result) Report() string {
	s := r.Metadata.Stats
	var b strings.Builder

	fmt.Fprintf(&b, `
Reconciliation Report
=====================
Status: %s
Duration: %s
Policy: %s
Threshold: %d

`, r.statusString(), r.Metadata.Duration, r.Metadata.Policy, r.Metadata.Threshold)

	fmt.Fprintf(&b, `Students:
---------
Primary: %d
Secondary: %d
Matched: %d
Unmatched: %d
Empty Names: %d
Folded Duplicates: %d

`, s.PrimaryStudents, s.SecondaryStudents, s.Matched, s.Unmatched, s.EmptyIdentities, s.Folded)

	fmt.Fprintf(&b, `Assignments:
------------
Shared: %d
Primary Only: %d
Secondary Only (dropped): %d
Scores Improved: %d
Exemptions Kept: %d

`, s.SharedAssignments, s.PrimaryOnlyAssignments, s.SecondaryOnlyAssignments, s.CellsImproved, s.ExemptKept)

	fmt.Fprintf(&b, `Cells:
------
Primary: %d numeric, %d exempt, %d blank, %d unparseable
Secondary: %d numeric, %d exempt, %d blank, %d unparseable

`, s.PrimaryCells.Numeric, s.PrimaryCells.Exempt, s.PrimaryCells.Blank, s.PrimaryCells.Unparseable,
		s.SecondaryCells.Numeric, s.SecondaryCells.Exempt, s.SecondaryCells.Blank, s.SecondaryCells.Unparseable)

	fmt.Fprintf(&b, `Performance:
------------
Normalize Time: %dms
Match Time: %dms
Merge Time: %dms
Total Time: %dms

`, s.NormalizeTimeMs, s.MatchTimeMs, s.MergeTimeMs, s.TotalTimeMs)

	if unmatched := r.Unmatched(); len(unmatched) > 0 {
		fmt.Fprintf(&b, "Unmatched (%d):\n--------------\n", len(unmatched))
		for i, m := range unmatched {
			if m.Status == identity.EmptyIdentity {
				fmt.Fprintf(&b, "%d. row %d: empty name\n", i+1, m.Index+1)
				continue
			}
			fmt.Fprintf(&b, "%d. %s (closest: %q, score %d)\n", i+1, m.Secondary, m.Candidate, m.Score)
		}
		b.WriteString("\n")
	}

	if r.HasWarnings() {
		fmt.Fprintf(&b, "Warnings (%d):\n--------------\n", len(r.Warnings))
		for i, warning := range r.Warnings {
			fmt.Fprintf(&b, "%d. %s\n", i+1, warning)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// statusString returns a string representation of the status
func (r *Result) statusString() string {
	if r.HasWarnings() {
		return "Success with Warnings"
	}
	return "Success"
}

// ResultBuilder helps construct Result objects
type ResultBuilder struct {
	result *Result
}

// NewResultBuilder creates a new ResultBuilder
func NewResultBuilder() *ResultBuilder {
	return &ResultBuilder{
		result: &Result{
			Changeset: NewChangeset(),
			Warnings:  []string{},
			Metadata: ResultMetadata{
				StartTime: time.Now(),
			},
		},
	}
}

// WithOutput sets the reconciled table
func (b *ResultBuilder) WithOutput(table *gradebook.Table) *ResultBuilder {
	b.result.Output = table
	return b
}

// WithMatches sets the identity match result
func (b *ResultBuilder) WithMatches(matches *identity.Result) *ResultBuilder {
	b.result.Matches = matches
	if matches != nil {
		b.result.Metadata.Threshold = matches.Threshold
		b.result.Metadata.Stats.Matched = matches.Count(identity.Matched)
		b.result.Metadata.Stats.Unmatched = matches.Count(identity.Unmatched)
		b.result.Metadata.Stats.EmptyIdentities = matches.Count(identity.EmptyIdentity)
	}
	return b
}

// WithChangeset sets the improved cells
func (b *ResultBuilder) WithChangeset(changeset *Changeset) *ResultBuilder {
	if changeset != nil {
		b.result.Changeset = changeset
		b.result.Metadata.Stats.CellsImproved = len(changeset.Changes)
	}
	return b
}

// WithWarning adds a warning
func (b *ResultBuilder) WithWarning(warning string) *ResultBuilder {
	b.result.Warnings = append(b.result.Warnings, warning)
	return b
}

// WithPolicy records the merge policy
func (b *ResultBuilder) WithPolicy(policy Policy) *ResultBuilder {
	if policy != nil {
		b.result.Metadata.Policy = policy.Name()
	}
	return b
}

// Stats gives stages direct access to the statistics being built
func (b *ResultBuilder) Stats() *ResultStatistics {
	return &b.result.Metadata.Stats
}

// Build finalizes and returns the Result
func (b *ResultBuilder) Build() *Result {
	b.result.Metadata.EndTime = time.Now()
	b.result.Metadata.Duration = b.result.Metadata.EndTime.Sub(b.result.Metadata.StartTime)
	b.result.Metadata.Stats.TotalTimeMs = b.result.Metadata.Duration.Milliseconds()

	return b.result
}
