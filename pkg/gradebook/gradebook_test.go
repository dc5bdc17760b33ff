package gradebook_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/gradesync/pkg/errors"
	"github.com/agentstation/gradesync/pkg/gradebook"
)

func TestScoreNumeric(t *testing.T) {
	tests := []struct {
		name       string
		score      gradebook.Score
		want       float64
		comparable bool
	}{
		{"numeric", gradebook.NumericScore(9.5), 9.5, true},
		{"missing counts as zero", gradebook.MissingScore(), 0, true},
		{"exempt has no value", gradebook.ExemptScore(), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.score.Numeric()
			assert.Equal(t, tt.comparable, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreString(t *testing.T) {
	assert.Equal(t, "9.5", gradebook.NumericScore(9.5).String())
	assert.Equal(t, "8", gradebook.NumericScore(8).String())
	assert.Equal(t, "<exempt>", gradebook.ExemptScore().String())
	assert.Equal(t, "<missing>", gradebook.MissingScore().String())
	assert.Equal(t, "numeric", gradebook.Numeric.String())
}

func TestColumnKeyMap(t *testing.T) {
	m := gradebook.NewColumnKeyMap("primary")
	require.NoError(t, m.Add("Homework 1-1", "Homework 1-1 Linear Equations (1001)"))
	require.NoError(t, m.Add("Homework 1-2", "Homework 1-2 Slope (1002)"))

	label, ok := m.Label("Homework 1-2")
	assert.True(t, ok)
	assert.Equal(t, "Homework 1-2 Slope (1002)", label)
	assert.Equal(t, []gradebook.AssignmentKey{"Homework 1-1", "Homework 1-2"}, m.Keys())
	assert.Equal(t, 2, m.Len())

	err := m.Add("Homework 1-1", "Homework 1-1 Retake (1003)")
	require.Error(t, err)
	assert.True(t, errors.IsDuplicateKey(err))

	// the first label survives a rejected duplicate
	label, _ = m.Label("Homework 1-1")
	assert.Equal(t, "Homework 1-1 Linear Equations (1001)", label)

	var nilMap *gradebook.ColumnKeyMap
	assert.False(t, nilMap.Has("Homework 1-1"))
	assert.Zero(t, nilMap.Len())
}

func TestTableProject(t *testing.T) {
	table := &gradebook.Table{
		Header:   []string{"Student", "ID", "Quiz 1", "Homework 1-1"},
		Preamble: [][]string{{"Points Possible", "", "5", "10"}},
		Rows: [][]string{
			{"Doe, Jane", "1", "4", "8"},
			{"Roe, Rick", "2"},
		},
	}

	got := table.Project([]string{"Student", "Homework 1-1"})
	assert.Equal(t, []string{"Student", "Homework 1-1"}, got.Header)
	assert.Equal(t, [][]string{{"Points Possible", "10"}}, got.Preamble)
	assert.Equal(t, [][]string{{"Doe, Jane", "8"}, {"Roe, Rick", ""}}, got.Rows)

	assert.Equal(t, []string{"Doe, Jane", "Roe, Rick"}, table.Column("Student"))
	assert.False(t, table.HasColumn("Section"))
}

func TestDatasetSharedKeys(t *testing.T) {
	primary := &gradebook.Dataset{Keys: []gradebook.AssignmentKey{"Homework 1-1", "Homework 1-2", "Homework 2-1"}}
	secondary := &gradebook.Dataset{Keys: []gradebook.AssignmentKey{"Homework 2-1", "Homework 9-9", "Homework 1-1"}}

	assert.Equal(t, []gradebook.AssignmentKey{"Homework 1-1", "Homework 2-1"}, primary.SharedKeys(secondary))
}

func TestRecordClone(t *testing.T) {
	r := &gradebook.Record{
		Identity:   "DOE, JANE",
		Scores:     map[gradebook.AssignmentKey]gradebook.Score{"Homework 1-1": gradebook.NumericScore(8)},
		Attributes: map[string]string{"ID": "1"},
	}
	c := r.Clone()
	c.Scores["Homework 1-1"] = gradebook.NumericScore(10)
	c.Attributes["ID"] = "2"

	assert.Equal(t, gradebook.NumericScore(8), r.Scores["Homework 1-1"])
	assert.Equal(t, "1", r.Attributes["ID"])
}
