package reconcile_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/gradesync/pkg/errors"
	"github.com/agentstation/gradesync/pkg/gradebook"
	"github.com/agentstation/gradesync/pkg/identity"
	"github.com/agentstation/gradesync/pkg/logging"
	"github.com/agentstation/gradesync/pkg/reconcile"
	"github.com/agentstation/gradesync/pkg/scores"
)

// Helper function to create the primary test gradebook
func primaryTable() *gradebook.Table {
	return &gradebook.Table{
		Header: []string{"Student", "ID", "SIS User ID", "SIS Login ID", "Section",
			"Homework 1-1 Linear (101)", "Homework 2-1 Slope (102)", "Homework 3-1 (103)", "Final Points"},
		Preamble: [][]string{
			{"    Points Possible", "", "", "", "", "10", "10", "10", "(read only)"},
		},
		Rows: [][]string{
			{"Doe, Jane", "1", "s1", "jdoe", "A", "8", "EX", "5", "90"},
			{"Smith, John", "2", "s2", "jsmith", "A", "7", "6", "3", "80"},
			{"Roe, Rick", "3", "s3", "rroe", "B", "4", "3", "", "70"},
		},
	}
}

// Helper function to create the secondary test gradebook
func secondaryTable() *gradebook.Table {
	return &gradebook.Table{
		Header: []string{"Last", "First", "Class", "Homework 1-1", "Homework 2-1", "Homework 4-1"},
		Rows: [][]string{
			{"Doe", "Jane", "P1", "95", "100", "50"},
			{"Smtih", "J.", "P1", "100", "100", "100"},
			{"", "", "P1", "100", "100", "100"},
		},
	}
}

func newEngine(t *testing.T, opts ...reconcile.Option) *reconcile.Engine {
	t.Helper()
	opts = append([]reconcile.Option{reconcile.WithLogger(logging.NewNopLogger())}, opts...)
	e, err := reconcile.New(opts...)
	require.NoError(t, err)
	return e
}

func TestEngineRun(t *testing.T) {
	primary, secondary := primaryTable(), secondaryTable()

	result, err := newEngine(t).Run(context.Background(), primary, secondary)
	require.NoError(t, err)

	want := &gradebook.Table{
		Header:   primaryTable().Header,
		Preamble: primaryTable().Preamble,
		Rows: [][]string{
			{"Doe, Jane", "1", "s1", "jdoe", "A", "9.5", "EX", "5", "90"},
			{"Smith, John", "2", "s2", "jsmith", "A", "7", "6", "3", "80"},
			{"Roe, Rick", "3", "s3", "rroe", "B", "4", "3", "0", "70"},
		},
	}
	if diff := cmp.Diff(want, result.Output); diff != "" {
		t.Errorf("Run() output mismatch (-want +got):\n%s", diff)
	}

	stats := result.Metadata.Stats
	assert.Equal(t, 3, stats.PrimaryStudents)
	assert.Equal(t, 3, stats.SecondaryStudents)
	assert.Equal(t, 1, stats.Matched)
	assert.Equal(t, 1, stats.Unmatched)
	assert.Equal(t, 1, stats.EmptyIdentities)
	assert.Equal(t, 1, stats.Joined)
	assert.Equal(t, 2, stats.SharedAssignments)
	assert.Equal(t, 1, stats.PrimaryOnlyAssignments)
	assert.Equal(t, 1, stats.SecondaryOnlyAssignments)
	assert.Equal(t, 1, stats.CellsImproved)
	assert.Equal(t, 1, stats.ExemptKept)
	assert.Equal(t, scores.Stats{Cells: 9, Numeric: 7, Exempt: 1, Blank: 1}, stats.PrimaryCells)
	assert.Equal(t, "highest-score", result.Metadata.Policy)
	assert.Equal(t, 80, result.Metadata.Threshold)

	require.Len(t, result.Changeset.Changes, 1)
	change := result.Changeset.Changes[0]
	assert.Equal(t, "Doe, Jane", change.Student)
	assert.Equal(t, "DOE, JANE", change.Identity)
	assert.Equal(t, gradebook.AssignmentKey("Homework 1-1"), change.Key)
	assert.Equal(t, "Homework 1-1 Linear (101)", change.Label)
	assert.Equal(t, "8", change.Before)
	assert.Equal(t, "9.5", change.After)

	unmatched := result.Unmatched()
	require.Len(t, unmatched, 2)
	assert.Equal(t, "SMTIH, J.", unmatched[0].Secondary)
	assert.Equal(t, "SMITH, JOHN", unmatched[0].Candidate)
	assert.Equal(t, identity.EmptyIdentity, unmatched[1].Status)

	assert.Contains(t, result.Summary(), "Matched 1 of 3 secondary students")
	report := result.Report()
	assert.Contains(t, report, "Scores Improved: 1")
	assert.Contains(t, report, "SMTIH, J.")

	// inputs are never modified
	assert.Equal(t, primaryTable(), primary)
	assert.Equal(t, secondaryTable(), secondary)
}

func TestEngineRunScaleComparison(t *testing.T) {
	primary := &gradebook.Table{
		Header: []string{"Student", "Homework 1-1"},
		Rows: [][]string{
			{"DOE, JANE", "9"},
			{"ROE, RICK", "10"},
		},
	}
	secondary := &gradebook.Table{
		Header: []string{"Student", "Homework 1-1"},
		Rows: [][]string{
			{"DOE, JANE", "95"},
			{"ROE, RICK", "95"},
		},
	}

	result, err := newEngine(t).Run(context.Background(), primary, secondary)
	require.NoError(t, err)
	assert.Equal(t, []string{"DOE, JANE", "9.5"}, result.Output.Rows[0])
	assert.Equal(t, []string{"ROE, RICK", "10"}, result.Output.Rows[1])
}

func TestEngineRunExemptIsSticky(t *testing.T) {
	primary := &gradebook.Table{
		Header: []string{"Student", "Homework 2-1"},
		Rows:   [][]string{{"DOE, JANE", "EX"}},
	}
	secondary := &gradebook.Table{
		Header: []string{"Student", "Homework 2-1"},
		Rows:   [][]string{{"DOE, JANE", "1000000"}},
	}

	result, err := newEngine(t).Run(context.Background(), primary, secondary)
	require.NoError(t, err)
	assert.Equal(t, "EX", result.Output.Rows[0][1])
	assert.False(t, result.HasChanges())
	assert.Equal(t, 1, result.Metadata.Stats.ExemptKept)
}

func TestEngineRunMissingCountsAsZero(t *testing.T) {
	primary := &gradebook.Table{
		Header: []string{"Student", "Homework 1-1", "Homework 1-2"},
		Rows:   [][]string{{"DOE, JANE", "", ""}},
	}
	secondary := &gradebook.Table{
		Header: []string{"Student", "Homework 1-1", "Homework 1-2"},
		Rows:   [][]string{{"DOE, JANE", "", "EX"}},
	}

	result, err := newEngine(t).Run(context.Background(), primary, secondary)
	require.NoError(t, err)
	assert.Equal(t, []string{"DOE, JANE", "0", "0"}, result.Output.Rows[0])
	assert.False(t, result.HasChanges())
}

func TestEngineRunFoldsDuplicateMatches(t *testing.T) {
	primary := &gradebook.Table{
		Header: []string{"Student", "Homework 1-1", "Homework 1-2"},
		Rows:   [][]string{{"DOE, JANE", "5", "5"}},
	}
	secondary := &gradebook.Table{
		Header: []string{"Last", "First", "Homework 1-1", "Homework 1-2"},
		Rows: [][]string{
			{"Doe", "Jane", "60", "90"},
			{"Doe", "Jane M", "95", "EX"},
		},
	}

	result, err := newEngine(t).Run(context.Background(), primary, secondary)
	require.NoError(t, err)
	assert.Equal(t, []string{"DOE, JANE", "9.5", "9"}, result.Output.Rows[0])
	assert.Equal(t, 2, result.Metadata.Stats.Matched)
	assert.Equal(t, 1, result.Metadata.Stats.Folded)
	require.True(t, result.HasWarnings())
	assert.Contains(t, result.Warnings[0], "both match")
}

func TestEngineRunSecondaryDuplicateColumn(t *testing.T) {
	primary := &gradebook.Table{
		Header: []string{"Student", "Homework 1-1"},
		Rows:   [][]string{{"DOE, JANE", "5"}},
	}
	secondary := &gradebook.Table{
		Header: []string{"Student", "Homework 1-1", "Homework 1-1 (re-export)"},
		Rows:   [][]string{{"DOE, JANE", "70", "100"}},
	}

	result, err := newEngine(t).Run(context.Background(), primary, secondary)
	require.NoError(t, err)
	assert.Equal(t, []string{"DOE, JANE", "7"}, result.Output.Rows[0])
	require.True(t, result.HasWarnings())
	assert.Contains(t, result.Warnings[0], `column "Homework 1-1 (re-export)" ignored`)
}

func TestEngineRunHalfNameIsEmptyIdentity(t *testing.T) {
	primary := &gradebook.Table{
		Header: []string{"Student", "Homework 1-1"},
		Rows:   [][]string{{"DOE, JANE", "5"}},
	}
	secondary := &gradebook.Table{
		Header: []string{"Last", "First", "Homework 1-1"},
		Rows: [][]string{
			{"Doe", "", "95"},
			{"", "Jane", "95"},
		},
	}

	result, err := newEngine(t).Run(context.Background(), primary, secondary)
	require.NoError(t, err)
	assert.Equal(t, []string{"DOE, JANE", "5"}, result.Output.Rows[0])
	assert.Equal(t, 2, result.Metadata.Stats.EmptyIdentities)
	assert.Equal(t, 0, result.Metadata.Stats.Joined)
	assert.False(t, result.HasChanges())
}

func TestEngineRunHomeworkOnly(t *testing.T) {
	result, err := newEngine(t, reconcile.WithHomeworkOnly(true)).
		Run(context.Background(), primaryTable(), secondaryTable())
	require.NoError(t, err)

	assert.Equal(t, []string{"Student", "ID", "SIS User ID", "SIS Login ID", "Section",
		"Homework 1-1 Linear (101)", "Homework 2-1 Slope (102)", "Homework 3-1 (103)"}, result.Output.Header)
	assert.Equal(t, []string{"    Points Possible", "", "", "", "", "10", "10", "10"}, result.Output.Preamble[0])
	assert.Equal(t, []string{"Doe, Jane", "1", "s1", "jdoe", "A", "9.5", "EX", "5"}, result.Output.Rows[0])
}

func TestEngineRunKeepPrimaryPolicy(t *testing.T) {
	result, err := newEngine(t, reconcile.WithPolicy(reconcile.NewKeepPrimary())).
		Run(context.Background(), primaryTable(), secondaryTable())
	require.NoError(t, err)

	assert.False(t, result.HasChanges())
	assert.Equal(t, "8", result.Output.Rows[0][5])
	assert.Equal(t, 1, result.Metadata.Stats.Matched)
}

func TestEngineRunErrors(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	t.Run("duplicate canonical key", func(t *testing.T) {
		primary := &gradebook.Table{Header: []string{"Student", "Homework 1-1 A", "Homework 1-1 B"}}
		_, err := e.Run(ctx, primary, secondaryTable())
		require.Error(t, err)
		assert.True(t, errors.IsDuplicateKey(err))
	})

	t.Run("missing student column", func(t *testing.T) {
		primary := &gradebook.Table{Header: []string{"Name", "Homework 1-1"}}
		_, err := e.Run(ctx, primary, secondaryTable())
		require.Error(t, err)
		assert.True(t, errors.IsMissingColumn(err))
	})

	t.Run("secondary without names", func(t *testing.T) {
		secondary := &gradebook.Table{Header: []string{"Last", "Homework 1-1"}}
		_, err := e.Run(ctx, primaryTable(), secondary)
		require.Error(t, err)
		assert.True(t, errors.IsMissingColumn(err))
	})

	t.Run("nil table", func(t *testing.T) {
		_, err := e.Run(ctx, nil, secondaryTable())
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("canceled", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := e.Run(canceled, primaryTable(), secondaryTable())
		assert.True(t, errors.IsCanceled(err))
	})
}

func TestNewValidatesOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  reconcile.Option
	}{
		{"threshold", reconcile.WithThreshold(120)},
		{"divisor", reconcile.WithScaleDivisor(0)},
		{"token", reconcile.WithExemptToken(" ")},
		{"policy", reconcile.WithPolicy(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reconcile.New(tt.opt)
			assert.True(t, errors.IsValidationError(err), "got %v", err)
		})
	}

	_, err := reconcile.New(reconcile.WithAssignmentPatterns(`Homework(`))
	require.Error(t, err)
}

func TestEngineMatch(t *testing.T) {
	result, err := newEngine(t).Match(context.Background(), primaryTable(), secondaryTable())
	require.NoError(t, err)
	require.Len(t, result.Matches, 3)
	assert.Equal(t, "DOE, JANE", result.Matches[0].Bound)
	assert.Equal(t, identity.Unmatched, result.Matches[1].Status)
	assert.Equal(t, identity.EmptyIdentity, result.Matches[2].Status)
}

func TestEngineLogsStages(t *testing.T) {
	tl := logging.NewTestLogger(t)
	e, err := reconcile.New(reconcile.WithLogger(tl.Logger))
	require.NoError(t, err)

	_, err = e.Run(context.Background(), primaryTable(), secondaryTable())
	require.NoError(t, err)

	assert.Equal(t, []string{"normalize", "match", "merge", "restore"}, tl.Stages())
	tl.AssertContains(t, "Reconciliation complete")
}
