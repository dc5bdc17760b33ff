package assignments

import (
	"github.com/agentstation/gradesync/pkg/gradebook"
)

// Restore maps canonical keys in header back to the primary gradebook's labels.
// Labels the map does not know are returned unchanged.
func Restore(header []string, keys *gradebook.ColumnKeyMap) []string {
	out := make([]string, len(header))
	for i, label := range header {
		if original, ok := keys.Label(gradebook.AssignmentKey(label)); ok {
			out[i] = original
			continue
		}
		out[i] = label
	}
	return out
}
