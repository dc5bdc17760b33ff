package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestLogger records JSON log lines at every level for assertions.
type TestLogger struct {
	*zerolog.Logger
	Buffer *bytes.Buffer
}

// NewTestLogger returns a recording logger. zerolog's global level is lowered
// to trace for the duration of the test.
func NewTestLogger(t testing.TB) *TestLogger {
	t.Helper()

	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	buf := &bytes.Buffer{}
	l := zerolog.New(buf).Level(zerolog.TraceLevel).With().Timestamp().Logger()
	return &TestLogger{Logger: &l, Buffer: buf}
}

// Output is everything logged so far.
func (tl *TestLogger) Output() string {
	return tl.Buffer.String()
}

// Lines splits Output into log lines.
func (tl *TestLogger) Lines() []string {
	out := strings.TrimSpace(tl.Output())
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// Entries decodes every line. Lines that are not JSON objects are skipped.
func (tl *TestLogger) Entries() []map[string]any {
	var entries []map[string]any
	for _, line := range tl.Lines() {
		var e map[string]any
		if json.Unmarshal([]byte(line), &e) == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

// Stages lists the distinct "stage" fields in logging order.
func (tl *TestLogger) Stages() []string {
	var stages []string
	seen := map[string]bool{}
	for _, e := range tl.Entries() {
		s, ok := e["stage"].(string)
		if ok && !seen[s] {
			seen[s] = true
			stages = append(stages, s)
		}
	}
	return stages
}

// Contains reports whether substr appears anywhere in the output.
func (tl *TestLogger) Contains(substr string) bool {
	return strings.Contains(tl.Output(), substr)
}

// AssertContains fails t unless substr was logged.
func (tl *TestLogger) AssertContains(t testing.TB, substr string) {
	t.Helper()
	if !tl.Contains(substr) {
		t.Errorf("log output missing %q\n%s", substr, tl.Output())
	}
}

// AssertNotContains fails t if substr was logged.
func (tl *TestLogger) AssertNotContains(t testing.TB, substr string) {
	t.Helper()
	if tl.Contains(substr) {
		t.Errorf("log output unexpectedly contains %q\n%s", substr, tl.Output())
	}
}
