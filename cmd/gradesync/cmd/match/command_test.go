package match

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
	"github.com/agentstation/gradesync/pkg/identity"
)

func writeInputs(t *testing.T) (primary, secondary string) {
	t.Helper()
	dir := t.TempDir()
	primary = filepath.Join(dir, "grades.csv")
	secondary = filepath.Join(dir, "practice.csv")
	require.NoError(t, os.WriteFile(primary, []byte("Student,Homework 1-1\n\"Doe, Jane\",8\n\"Smith, John\",7\n"), 0o644))
	require.NoError(t, os.WriteFile(secondary, []byte("Last,First,Homework 1-1\nDoe,Jane,90\nSmtih,J.,80\n"), 0o644))
	return primary, secondary
}

func run(t *testing.T, app appcontext.Interface, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMatchCommandJSON(t *testing.T) {
	primary, secondary := writeInputs(t)

	stdout, err := run(t, &appcontext.Mock{}, "-p", primary, "-s", secondary)
	require.NoError(t, err)

	var result identity.Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	require.Len(t, result.Matches, 2)
	assert.Equal(t, identity.Matched, result.Matches[0].Status)
	assert.Equal(t, "DOE, JANE", result.Matches[0].Bound)
	assert.Equal(t, identity.Unmatched, result.Matches[1].Status)
	assert.Equal(t, "SMITH, JOHN", result.Matches[1].Candidate)
}

func TestMatchCommandThresholdAndFilter(t *testing.T) {
	primary, secondary := writeInputs(t)

	stdout, err := run(t, &appcontext.Mock{}, "-p", primary, "-s", secondary, "--threshold", "40")
	require.NoError(t, err)
	var result identity.Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, 40, result.Threshold)
	assert.Equal(t, 2, result.Count(identity.Matched))

	stdout, err = run(t, &appcontext.Mock{}, "-p", primary, "-s", secondary, "--unmatched")
	require.NoError(t, err)
	result = identity.Result{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "SMTIH, J.", result.Matches[0].Secondary)
}

func TestMatchCommandTable(t *testing.T) {
	primary, secondary := writeInputs(t)
	app := &appcontext.Mock{Format: "table"}

	stdout, err := run(t, app, "-p", primary, "-s", secondary)
	require.NoError(t, err)
	assert.Contains(t, stdout, "SMITH, JOHN")
	assert.Contains(t, stdout, "1 matched, 1 unmatched, 0 blank (threshold 80)")
}
