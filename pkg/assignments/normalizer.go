package assignments

import (
	"github.com/agentstation/gradesync/pkg/errors"
	"github.com/agentstation/gradesync/pkg/gradebook"
)

// Column describes one header cell after normalization.
type Column struct {
	Index int
	Label string
	Key   gradebook.AssignmentKey
	// Assignment is false for passthrough columns (names, IDs, unrecognized items).
	Assignment bool
}

// Columns is the immutable result of normalizing one header.
type Columns struct {
	Role    gradebook.Role
	Columns []Column
	// KeyMap holds key -> original label; every dataset builds one so duplicate
	// keys are caught, but only the primary map is kept for restoring labels.
	KeyMap *gradebook.ColumnKeyMap
	// Duplicates lists secondary columns dropped because an earlier column
	// already claimed their key.
	Duplicates []*errors.DuplicateKeyError
}

// Normalize classifies every label of header and derives the canonical header.
// In the primary header two labels that normalize to the same key are rejected
// with a DuplicateKeyError. Elsewhere the leftmost column keeps the key and the
// later ones are recorded in Duplicates and treated as passthrough columns.
func Normalize(header []string, role gradebook.Role, e *Extractor) (*Columns, error) {
	if e == nil {
		e = DefaultExtractor()
	}

	out := &Columns{
		Role:    role,
		Columns: make([]Column, len(header)),
		KeyMap:  gradebook.NewColumnKeyMap(role.String()),
	}

	for i, label := range header {
		col := Column{Index: i, Label: label}
		if key, ok := e.Extract(label); ok {
			if err := out.KeyMap.Add(key, label); err != nil {
				var dup *errors.DuplicateKeyError
				if role == gradebook.Primary || !errors.As(err, &dup) {
					return nil, err
				}
				out.Duplicates = append(out.Duplicates, dup)
				out.Columns[i] = col
				continue
			}
			col.Key = key
			col.Assignment = true
		}
		out.Columns[i] = col
	}

	return out, nil
}

// Header returns the header with assignment labels replaced by their keys.
func (c *Columns) Header() []string {
	out := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		if col.Assignment {
			out[i] = col.Key.String()
		} else {
			out[i] = col.Label
		}
	}
	return out
}

// Keys returns the assignment keys in header order.
func (c *Columns) Keys() []gradebook.AssignmentKey {
	return c.KeyMap.Keys()
}

// Assignments returns only the assignment columns.
func (c *Columns) Assignments() []Column {
	var out []Column
	for _, col := range c.Columns {
		if col.Assignment {
			out = append(out, col)
		}
	}
	return out
}

// Passthrough returns only the non-assignment columns.
func (c *Columns) Passthrough() []Column {
	var out []Column
	for _, col := range c.Columns {
		if !col.Assignment {
			out = append(out, col)
		}
	}
	return out
}

// RestorableKeyMap returns the key map when labels must be restored (primary only).
func (c *Columns) RestorableKeyMap() *gradebook.ColumnKeyMap {
	if c.Role != gradebook.Primary {
		return nil
	}
	return c.KeyMap
}
