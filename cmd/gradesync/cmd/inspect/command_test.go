package inspect

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/gradesync/internal/appcontext"
	"github.com/agentstation/gradesync/pkg/assignments"
	"github.com/agentstation/gradesync/pkg/gradebook"
	"github.com/agentstation/gradesync/pkg/scores"
)

func TestInspect(t *testing.T) {
	table := &gradebook.Table{
		Header:   []string{"Student", "ID", "Homework 1-1 Linear (101)", "Homework 1-1 Redo", "Final Points"},
		Preamble: [][]string{{"Points Possible", "", "10", "10", ""}},
		Rows: [][]string{
			{"Doe, Jane", "1", "8", "EX", "90"},
			{"Roe, Rick", "2", "", "n/a", "70"},
		},
	}

	got := Inspect("grades.csv", table, assignments.DefaultExtractor(), scores.Default())

	assert.Equal(t, 2, got.Rows)
	assert.Equal(t, 1, got.Preamble)
	assert.Equal(t, []Column{
		{Label: "Student", Kind: KindIdentity},
		{Label: "ID", Kind: KindIdentity},
		{Label: "Homework 1-1 Linear (101)", Key: "Homework 1-1", Kind: KindAssignment},
		{Label: "Homework 1-1 Redo", Key: "Homework 1-1", Kind: KindAssignment, Duplicate: true},
		{Label: "Final Points", Kind: KindOther},
	}, got.Columns)
	assert.Equal(t, scores.Stats{Cells: 4, Numeric: 1, Exempt: 1, Blank: 1, Unparseable: 1}, got.Cells)
}

func TestInspectCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "practice.csv")
	require.NoError(t, os.WriteFile(path, []byte("Last,First,Class,Homework 1-1\nDoe,Jane,P1,95\n"), 0o644))

	var out bytes.Buffer
	cmd := NewCommand(&appcontext.Mock{Format: "yaml"})
	cmd.SetOut(&out)
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), "key: Homework 1-1")
	assert.Contains(t, out.String(), "numeric: 1")

	cmd = NewCommand(&appcontext.Mock{})
	cmd.SetOut(&out)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.csv")})
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}
