package alerts

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertString(t *testing.T) {
	assert.Equal(t, "✓ Wrote out.csv", NewSuccess("Wrote out.csv").String())
	assert.Equal(t, "✗ cannot read: boom", NewError("cannot read").WithError(errors.New("boom")).String())
	assert.Equal(t, "warning", LevelWarning.String())
}

func TestWriterPlainForBuffers(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, false)

	require.NoError(t, w.Write(NewWarning("2 students unmatched").WithDetails("SMTIH, J.", "ROE, R.")))
	assert.Equal(t, "! 2 students unmatched\n   SMTIH, J.\n   ROE, R.\n", buf.String())
}
