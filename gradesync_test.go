package gradesync

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/agentstation/gradesync/internal/sheets"
	"github.com/agentstation/gradesync/pkg/errors"
	"github.com/agentstation/gradesync/pkg/gradebook"
	"github.com/agentstation/gradesync/pkg/identity"
	"github.com/agentstation/gradesync/pkg/logging"
	"github.com/agentstation/gradesync/pkg/reconcile"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const primaryCSV = "Student,ID,SIS User ID,SIS Login ID,Section,Homework 1-1 Linear (101),Homework 2-1 Slope (102),Final Points\n" +
	"    Points Possible,,,,,10,10,(read only)\n" +
	"\"Doe, Jane\",1,s1,jdoe,A,8,EX,90\n" +
	"\"Smith, John\",2,s2,jsmith,A,7,,80\n"

const secondaryCSV = "Last,First,Class,Homework 1-1,Homework 2-1\n" +
	"Doe,Jane,P1,95,100\n" +
	"Smith,John,P1,60,85\n" +
	"Nobody,Zed,P2,100,100\n"

func writeInputs(t *testing.T) (dir, primary, secondary string) {
	t.Helper()
	dir = t.TempDir()
	primary = filepath.Join(dir, "2024-11-29T2249_Grades-ALGEBRA_2.csv")
	secondary = filepath.Join(dir, "Multiple-Assignments-(11-27-24).csv")
	require.NoError(t, os.WriteFile(primary, []byte(primaryCSV), 0o644))
	require.NoError(t, os.WriteFile(secondary, []byte(secondaryCSV), 0o644))
	return dir, primary, secondary
}

func newClient(t *testing.T, opts ...Option) Gradesync {
	t.Helper()
	opts = append([]Option{WithLogger(logging.NewNopLogger())}, opts...)
	gs, err := New(opts...)
	require.NoError(t, err)
	return gs
}

func TestReconcileFiles(t *testing.T) {
	dir, primary, secondary := writeInputs(t)
	gs := newClient(t)

	var improved []reconcile.CellChange
	var unmatched []identity.Match
	gs.OnScoreImproved(func(c reconcile.CellChange) { improved = append(improved, c) })
	gs.OnUnmatched(func(m identity.Match) { unmatched = append(unmatched, m) })

	out := filepath.Join(dir, "out", "grades-updated.csv")
	result, err := gs.ReconcileFiles(context.Background(), primary, secondary, out)
	require.NoError(t, err)

	got, err := sheets.ReadFile(out)
	require.NoError(t, err)

	want := &gradebook.Table{
		Header:   []string{"Student", "ID", "SIS User ID", "SIS Login ID", "Section", "Homework 1-1 Linear (101)", "Homework 2-1 Slope (102)", "Final Points"},
		Preamble: [][]string{{"    Points Possible", "", "", "", "", "10", "10", "(read only)"}},
		Rows: [][]string{
			{"Doe, Jane", "1", "s1", "jdoe", "A", "9.5", "EX", "90"},
			{"Smith, John", "2", "s2", "jsmith", "A", "7", "8.5", "80"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("written gradebook mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, result.Output); diff != "" {
		t.Errorf("result output mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, improved, 2)
	assert.Equal(t, "Homework 1-1 Linear (101)", improved[0].Label)
	assert.Equal(t, "Homework 2-1 Slope (102)", improved[1].Label)
	assert.Equal(t, "0", improved[1].Before)

	require.Len(t, unmatched, 1)
	assert.Equal(t, "NOBODY, ZED", unmatched[0].Secondary)
}

func TestReconcileFilesDryRun(t *testing.T) {
	dir, primary, secondary := writeInputs(t)
	gs := newClient(t, WithDryRun(true))

	out := filepath.Join(dir, "grades-updated.xlsx")
	result, err := gs.ReconcileFiles(context.Background(), primary, secondary, out)
	require.NoError(t, err)
	assert.True(t, result.HasChanges())

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err), "dry run must not write output")
}

func TestReconcileFilesWorkbookOutput(t *testing.T) {
	dir, primary, secondary := writeInputs(t)
	gs := newClient(t, WithHomeworkOnly(true))

	out := filepath.Join(dir, "grades-updated.xlsx")
	_, err := gs.ReconcileFiles(context.Background(), primary, secondary, out)
	require.NoError(t, err)

	got, err := sheets.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Student", "ID", "SIS User ID", "SIS Login ID", "Section",
		"Homework 1-1 Linear (101)", "Homework 2-1 Slope (102)"}, got.Header)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "9.5", got.Rows[0][5])
}

func TestReconcileFilesErrors(t *testing.T) {
	dir, primary, secondary := writeInputs(t)
	gs := newClient(t)
	ctx := context.Background()

	_, err := gs.ReconcileFiles(ctx, filepath.Join(dir, "missing.csv"), secondary, "")
	assert.True(t, errors.IsNotFound(err))

	_, err = gs.ReconcileFiles(ctx, primary, secondary, filepath.Join(dir, "out.txt"))
	assert.True(t, errors.IsValidationError(err))
}

func TestNewOptions(t *testing.T) {
	_, err := New(WithPolicy("average"))
	assert.True(t, errors.IsValidationError(err))

	_, err = New(WithThreshold(150))
	assert.Error(t, err)

	gs, err := New(WithPolicy("keep-primary"), WithWorkers(4))
	require.NoError(t, err)
	assert.NotNil(t, gs.Engine())
}

func TestMatch(t *testing.T) {
	gs := newClient(t)
	primary := &gradebook.Table{
		Header: []string{"Student", "Homework 1-1"},
		Rows:   [][]string{{"Doe, Jane", "8"}, {"Smith, John", "7"}},
	}
	secondary := &gradebook.Table{
		Header: []string{"Last", "First", "Homework 1-1"},
		Rows:   [][]string{{"Smith", "John", "9"}},
	}

	result, err := gs.Match(context.Background(), primary, secondary)
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, identity.Matched, result.Matches[0].Status)
	assert.Equal(t, "SMITH, JOHN", result.Matches[0].Bound)
}
