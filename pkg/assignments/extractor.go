// Package assignments recognizes assignment columns in gradebook headers, maps
// them onto canonical keys shared by both gradebooks, and maps them back to the
// primary gradebook's original labels on output.
package assignments

import (
	"github.com/agentstation/gradesync/internal/matcher"
	"github.com/agentstation/gradesync/pkg/constants"
	"github.com/agentstation/gradesync/pkg/errors"
	"github.com/agentstation/gradesync/pkg/gradebook"
)

// Extractor derives canonical assignment keys from column labels.
// A label yields a key when one of the patterns matches a prefix of it; the key is
// exactly the matched prefix, internal spacing included.
type Extractor struct {
	patterns matcher.Set
}

// NewExtractor compiles the given patterns, anchored at the label start and
// case-sensitive. With no patterns the "Homework <N>-<M>" pattern is used.
func NewExtractor(patterns ...string) (*Extractor, error) {
	if len(patterns) == 0 {
		patterns = []string{constants.DefaultAssignmentPattern}
	}

	set, err := matcher.CompileSet(matcher.Regex, patterns, matcher.Options{Anchored: true})
	if err != nil {
		return nil, errors.NewConfigError("assignment_patterns", err.Error(), err)
	}
	return &Extractor{patterns: set}, nil
}

// DefaultExtractor returns the homework-only extractor.
func DefaultExtractor() *Extractor {
	e, err := NewExtractor()
	if err != nil {
		panic(err)
	}
	return e
}

// Extract returns the canonical key for label, if any.
func (e *Extractor) Extract(label string) (gradebook.AssignmentKey, bool) {
	found, ok := e.patterns.Find(label)
	if !ok || found == "" {
		return "", false
	}
	return gradebook.AssignmentKey(found), true
}

// Patterns returns the configured patterns.
func (e *Extractor) Patterns() []string {
	return e.patterns.Sources()
}
