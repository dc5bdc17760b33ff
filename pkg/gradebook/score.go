package gradebook

import (
	"fmt"
	"strconv"
)

// ScoreKind tags a Score.
type ScoreKind int

const (
	// Missing is an absent or unparseable cell.
	Missing ScoreKind = iota
	// Exempt is a cell carrying the exemption token.
	Exempt
	// Numeric is a parsed number.
	Numeric
)

// String returns the kind name.
func (k ScoreKind) String() string {
	switch k {
	case Missing:
		return "missing"
	case Exempt:
		return "exempt"
	case Numeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// Score is a typed score cell. Value is meaningful only for Numeric.
type Score struct {
	Kind  ScoreKind
	Value float64
}

// MissingScore returns a Missing cell.
func MissingScore() Score { return Score{Kind: Missing} }

// ExemptScore returns an Exempt cell.
func ExemptScore() Score { return Score{Kind: Exempt} }

// NumericScore returns a Numeric cell holding v.
func NumericScore(v float64) Score { return Score{Kind: Numeric, Value: v} }

// IsExempt reports whether the cell is exempt.
func (s Score) IsExempt() bool { return s.Kind == Exempt }

// IsMissing reports whether the cell is missing.
func (s Score) IsMissing() bool { return s.Kind == Missing }

// IsNumeric reports whether the cell holds a number.
func (s Score) IsNumeric() bool { return s.Kind == Numeric }

// Numeric returns the comparable value of the cell: Missing counts as 0.
// The second result is false for Exempt, which has no numeric value.
func (s Score) Numeric() (float64, bool) {
	switch s.Kind {
	case Numeric:
		return s.Value, true
	case Missing:
		return 0, true
	default:
		return 0, false
	}
}

// String renders the cell for logs and reports.
func (s Score) String() string {
	switch s.Kind {
	case Numeric:
		return strconv.FormatFloat(s.Value, 'f', -1, 64)
	case Exempt:
		return "<exempt>"
	case Missing:
		return "<missing>"
	default:
		return fmt.Sprintf("<kind %d>", int(s.Kind))
	}
}
