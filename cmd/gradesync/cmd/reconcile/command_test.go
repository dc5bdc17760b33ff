package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/gradesync/internal/appcontext"
	"github.com/agentstation/gradesync/internal/config"
	"github.com/agentstation/gradesync/internal/sheets"
)

const primaryCSV = "Student,ID,SIS User ID,SIS Login ID,Section,Homework 1-1 Linear (101),Homework 2-1 Slope (102)\n" +
	"    Points Possible,,,,,10,10\n" +
	"\"Doe, Jane\",1,s1,jdoe,A,8,EX\n" +
	"\"Smith, John\",2,s2,jsmith,A,7,6\n"

const secondaryCSV = "Last,First,Class,Homework 1-1,Homework 2-1\n" +
	"Doe,Jane,P1,95,100\n" +
	"Zed,Nobody,P2,100,100\n"

func writeInputs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-11-29T2249_Grades-ALGEBRA_2.csv"), []byte(primaryCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Multiple-Assignments-(11-27-24).csv"), []byte(secondaryCSV), 0o644))
	return dir
}

func runCommand(t *testing.T, app appcontext.Interface, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReconcileCommandJSON(t *testing.T) {
	dir := writeInputs(t)
	out := filepath.Join(dir, "updated.csv")

	stdout, err := runCommand(t, &appcontext.Mock{},
		"-p", filepath.Join(dir, "2024-11-29T2249_Grades-ALGEBRA_2.csv"),
		"-s", filepath.Join(dir, "Multiple-Assignments-(11-27-24).csv"),
		"--out", out)
	require.NoError(t, err)

	var report struct {
		Output    string `json:"output"`
		DryRun    bool   `json:"dry_run"`
		Changeset struct {
			Summary struct {
				CellsChanged int `json:"cells_changed"`
			} `json:"summary"`
		} `json:"changeset"`
		Matches struct {
			Matches []struct {
				Secondary string `json:"secondary"`
				Status    string `json:"status"`
			} `json:"matches"`
		} `json:"matches"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, out, report.Output)
	assert.False(t, report.DryRun)
	assert.Equal(t, 1, report.Changeset.Summary.CellsChanged)
	require.Len(t, report.Matches.Matches, 2)
	assert.Equal(t, "unmatched", report.Matches.Matches[1].Status)

	table, err := sheets.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Doe, Jane", "1", "s1", "jdoe", "A", "9.5", "EX"}, table.Rows[0])
}

func TestReconcileCommandDiscoversInputs(t *testing.T) {
	dir := writeInputs(t)
	app := &appcontext.Mock{Format: "table"}

	stdout, err := runCommand(t, app, "--dir", dir)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Matched 1 of 2 secondary students")
	assert.Contains(t, stdout, "NOBODY")
	want := filepath.Join(dir, "reconciled", "2024-11-29T2249_Grades-ALGEBRA_2.csv")
	assert.Contains(t, stdout, "Wrote "+want)
	_, err = os.Stat(want)
	assert.NoError(t, err)
}

func TestReconcileCommandDryRunReport(t *testing.T) {
	dir := writeInputs(t)
	app := &appcontext.Mock{Format: "table"}

	stdout, err := runCommand(t, app, "--dir", dir, "--dry-run", "--report")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Reconciliation Report")
	assert.Contains(t, stdout, "Scores Improved: 1")

	_, err = os.Stat(filepath.Join(dir, "reconciled"))
	assert.True(t, os.IsNotExist(err))
}

func TestReconcileCommandFlagsOverrideSettings(t *testing.T) {
	dir := writeInputs(t)
	app := &appcontext.Mock{SettingsFunc: func() config.Settings {
		s := *config.Defaults()
		s.InputDir = dir
		return s
	}}

	stdout, err := runCommand(t, app, "--dry-run", "--policy", "keep-primary")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"cells_changed": 0`)

	_, err = runCommand(t, app, "--dry-run", "--threshold", "101")
	assert.Error(t, err)
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("reconciled", "grades.csv"), DefaultOutputPath("grades.csv"))
	assert.Equal(t, filepath.Join("dir", "reconciled", "book.xlsx"), DefaultOutputPath(filepath.Join("dir", "book.xlsx")))
}
