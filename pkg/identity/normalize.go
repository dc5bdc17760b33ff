// Package identity formats student names into join keys and matches the
// secondary gradebook's students onto the primary roster.
package identity

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize returns the join key for a student name: uppercase, dashes replaced
// by spaces, surrounding whitespace trimmed. A blank name normalizes to "".
func Normalize(name string) string {
	upper := cases.Upper(language.Und).String(name)
	return strings.TrimSpace(strings.ReplaceAll(upper, "-", " "))
}

// Join builds the "Last, First" display name used by the primary gradebook.
// A name with either part blank yields "", an empty identity, since a lone
// surname or given name could bind to the wrong student.
func Join(last, first string) string {
	last = strings.TrimSpace(last)
	first = strings.TrimSpace(first)
	if last == "" || first == "" {
		return ""
	}
	return last + ", " + first
}
