package assignments_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/gradesync/pkg/assignments"
	"github.com/agentstation/gradesync/pkg/errors"
	"github.com/agentstation/gradesync/pkg/gradebook"
)

func TestExtract(t *testing.T) {
	e := assignments.DefaultExtractor()

	tests := []struct {
		label  string
		want   gradebook.AssignmentKey
		wantOK bool
	}{
		{"Homework 1-1", "Homework 1-1", true},
		{"Homework 12-20 Quadratics (55120)", "Homework 12-20", true},
		{"Homework3-2", "Homework3-2", true},
		{"Homework  4-1 spaced", "Homework  4-1", true},
		{"Homework 3", "", false},
		{"Homework 3 - 2", "", false},
		{"homework 1-1", "", false},
		{"HW 1-1", "", false},
		{"Late Homework 1-1", "", false},
		{"Student", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := e.Extract(tt.label)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	e := assignments.DefaultExtractor()
	for _, label := range []string{"Homework 1-1 (300)", "Homework  7-12 Review", "Homework9-9x"} {
		key, ok := e.Extract(label)
		require.True(t, ok)
		again, ok := e.Extract(key.String())
		require.True(t, ok)
		assert.Equal(t, key, again)
	}
}

func TestExtractorCustomPatterns(t *testing.T) {
	e, err := assignments.NewExtractor(`Homework\s*\d+-\d+`, `Quiz\s*\d+`)
	require.NoError(t, err)

	key, ok := e.Extract("Quiz 4 Exponents (8812)")
	assert.True(t, ok)
	assert.Equal(t, gradebook.AssignmentKey("Quiz 4"), key)

	_, err = assignments.NewExtractor("(")
	require.Error(t, err)
}

func TestNormalize(t *testing.T) {
	header := []string{"Student", "ID", "Homework 1-1 Linear (101)", "Quiz 1", "Homework 1-2 Slope (102)"}

	cols, err := assignments.Normalize(header, gradebook.Primary, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Student", "ID", "Homework 1-1", "Quiz 1", "Homework 1-2"}, cols.Header())
	assert.Equal(t, []gradebook.AssignmentKey{"Homework 1-1", "Homework 1-2"}, cols.Keys())
	assert.Len(t, cols.Assignments(), 2)
	assert.Len(t, cols.Passthrough(), 3)

	label, ok := cols.RestorableKeyMap().Label("Homework 1-2")
	require.True(t, ok)
	assert.Equal(t, "Homework 1-2 Slope (102)", label)
}

func TestNormalizeSecondaryMapIsNotRestorable(t *testing.T) {
	cols, err := assignments.Normalize([]string{"Student", "Homework 1-1 (DM)"}, gradebook.Secondary, nil)
	require.NoError(t, err)
	assert.Nil(t, cols.RestorableKeyMap())
	assert.Equal(t, []string{"Student", "Homework 1-1"}, cols.Header())
}

func TestNormalizeDuplicateKey(t *testing.T) {
	header := []string{"Student", "Homework 2-1 (10)", "Homework 2-1 Retake (11)"}

	t.Run("primary", func(t *testing.T) {
		_, err := assignments.Normalize(header, gradebook.Primary, nil)
		require.Error(t, err)
		assert.True(t, errors.IsDuplicateKey(err))
		assert.Contains(t, err.Error(), "primary")
	})

	t.Run("secondary keeps the leftmost column", func(t *testing.T) {
		cols, err := assignments.Normalize(header, gradebook.Secondary, nil)
		require.NoError(t, err)

		assert.Equal(t, []gradebook.AssignmentKey{"Homework 2-1"}, cols.Keys())
		require.Len(t, cols.Assignments(), 1)
		assert.Equal(t, 1, cols.Assignments()[0].Index)
		assert.Equal(t, []string{"Student", "Homework 2-1", "Homework 2-1 Retake (11)"}, cols.Header())

		require.Len(t, cols.Duplicates, 1)
		assert.Equal(t, "Homework 2-1 (10)", cols.Duplicates[0].First)
		assert.Equal(t, "Homework 2-1 Retake (11)", cols.Duplicates[0].Conflict)
	})
}

func TestRestoreRoundTrip(t *testing.T) {
	headers := [][]string{
		{"Student", "ID", "SIS User ID", "SIS Login ID", "Section", "Homework 1-1 Linear (101)", "Homework 1-2 (102)"},
		{"Student", "Homework  3-1 spaced", "Final Score"},
		{"Student", "Notes"},
	}

	for _, header := range headers {
		cols, err := assignments.Normalize(header, gradebook.Primary, nil)
		require.NoError(t, err)
		assert.Equal(t, header, assignments.Restore(cols.Header(), cols.RestorableKeyMap()))
	}
}

func TestRestoreLeavesUnknownKeys(t *testing.T) {
	keys := gradebook.NewColumnKeyMap("primary")
	require.NoError(t, keys.Add("Homework 1-1", "Homework 1-1 (1)"))

	got := assignments.Restore([]string{"Student", "Homework 1-1", "Homework 9-9"}, keys)
	assert.Equal(t, []string{"Student", "Homework 1-1 (1)", "Homework 9-9"}, got)

	assert.Equal(t, []string{"Homework 1-1"}, assignments.Restore([]string{"Homework 1-1"}, nil))
}
