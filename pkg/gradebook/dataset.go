package gradebook

// Role distinguishes the two gradebooks.
type Role string

const (
	// Primary is the authoritative gradebook; it defines the output schema.
	Primary Role = "primary"
	// Secondary contributes potential score improvements.
	Secondary Role = "secondary"
)

// String returns the role name.
func (r Role) String() string { return string(r) }

// Record is one student row.
type Record struct {
	// Identity is the normalized join key (uppercase, dashes as spaces, trimmed).
	Identity string
	// Name is the student cell exactly as read.
	Name string
	// Scores holds one cell per assignment key of the dataset.
	Scores map[AssignmentKey]Score
	// Attributes holds non-assignment cells by original label (primary passthrough).
	Attributes map[string]string
	// Row is the index of the record in the source table's student rows.
	Row int
}

// Score returns the cell for key and whether the record carries it.
func (r *Record) Score(key AssignmentKey) (Score, bool) {
	s, ok := r.Scores[key]
	return s, ok
}

// Clone returns a copy with its own maps.
func (r *Record) Clone() *Record {
	out := &Record{
		Identity:   r.Identity,
		Name:       r.Name,
		Scores:     make(map[AssignmentKey]Score, len(r.Scores)),
		Attributes: make(map[string]string, len(r.Attributes)),
		Row:        r.Row,
	}
	for k, v := range r.Scores {
		out.Scores[k] = v
	}
	for k, v := range r.Attributes {
		out.Attributes[k] = v
	}
	return out
}

// Dataset is a normalized gradebook.
type Dataset struct {
	Role Role
	// Header is the original header with assignment labels replaced by canonical keys.
	Header []string
	// Preamble carries the source table's non-student rows untouched.
	Preamble [][]string
	// Keys are the assignment keys in header order.
	Keys []AssignmentKey
	// Columns maps keys back to original labels; nil for the secondary dataset.
	Columns *ColumnKeyMap
	Records []*Record
	// Warnings are non-fatal problems found while building the dataset.
	Warnings []string
}

// HasKey reports whether the dataset defines key.
func (d *Dataset) HasKey(key AssignmentKey) bool {
	for _, k := range d.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// SharedKeys returns the keys of d also defined by other, in d's order.
func (d *Dataset) SharedKeys(other *Dataset) []AssignmentKey {
	var shared []AssignmentKey
	for _, k := range d.Keys {
		if other.HasKey(k) {
			shared = append(shared, k)
		}
	}
	return shared
}

// Identities returns every record identity in order.
func (d *Dataset) Identities() []string {
	out := make([]string, len(d.Records))
	for i, r := range d.Records {
		out[i] = r.Identity
	}
	return out
}
