package gradebook

import (
	"github.com/agentstation/gradesync/pkg/errors"
)

// AssignmentKey canonically identifies one assignment across both gradebooks,
// e.g. "Homework 3-2".
type AssignmentKey string

// String returns the key text.
func (k AssignmentKey) String() string { return string(k) }

// ColumnKeyMap maps canonical keys to the primary gradebook's original column labels.
// It is filled once while normalizing a header and read-only afterwards.
type ColumnKeyMap struct {
	dataset string
	keys    []AssignmentKey
	labels  map[AssignmentKey]string
}

// NewColumnKeyMap returns an empty map for the named dataset ("primary"/"secondary").
func NewColumnKeyMap(dataset string) *ColumnKeyMap {
	return &ColumnKeyMap{
		dataset: dataset,
		labels:  make(map[AssignmentKey]string),
	}
}

// Add records key -> label. A second label for the same key is a DuplicateKeyError.
func (m *ColumnKeyMap) Add(key AssignmentKey, label string) error {
	if first, exists := m.labels[key]; exists {
		return errors.NewDuplicateKeyError(m.dataset, string(key), first, label)
	}
	m.labels[key] = label
	m.keys = append(m.keys, key)
	return nil
}

// Label returns the original label for key.
func (m *ColumnKeyMap) Label(key AssignmentKey) (string, bool) {
	if m == nil {
		return "", false
	}
	label, ok := m.labels[key]
	return label, ok
}

// Has reports whether key was recorded.
func (m *ColumnKeyMap) Has(key AssignmentKey) bool {
	_, ok := m.Label(key)
	return ok
}

// Keys returns the recorded keys in header order.
func (m *ColumnKeyMap) Keys() []AssignmentKey {
	if m == nil {
		return nil
	}
	out := make([]AssignmentKey, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of recorded keys.
func (m *ColumnKeyMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}
