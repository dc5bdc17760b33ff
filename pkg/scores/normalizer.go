// Package scores turns raw gradebook cells into typed scores and back.
//
// Cells are classified once, at ingestion, into Missing, Exempt, or Numeric, so no
// later stage ever compares an untyped cell against a number. Secondary scores are
// rescaled onto the primary scale and Missing cells are then counted as zero, while
// Exempt cells stay distinct all the way to the output.
package scores

import (
	"math"
	"strconv"
	"strings"

	"github.com/agentstation/gradesync/pkg/constants"
	"github.com/agentstation/gradesync/pkg/errors"
	"github.com/agentstation/gradesync/pkg/gradebook"
)

// Normalizer classifies, rescales, and formats score cells.
type Normalizer struct {
	// ExemptToken is the literal, case-sensitive exemption marker.
	ExemptToken string
	// Divisor converts secondary scores onto the primary scale.
	Divisor float64
}

// NewNormalizer validates and returns a Normalizer.
func NewNormalizer(exemptToken string, divisor float64) (*Normalizer, error) {
	if strings.TrimSpace(exemptToken) == "" {
		return nil, errors.NewValidationError("exempt_token", exemptToken, "must not be empty")
	}
	if divisor <= 0 || math.IsNaN(divisor) || math.IsInf(divisor, 0) {
		return nil, errors.NewValidationError("scale_divisor", divisor, "must be a positive number")
	}
	return &Normalizer{ExemptToken: exemptToken, Divisor: divisor}, nil
}

// Default returns the "EX" / divide-by-10 normalizer.
func Default() *Normalizer {
	return &Normalizer{
		ExemptToken: constants.DefaultExemptToken,
		Divisor:     constants.DefaultScaleDivisor,
	}
}

// Classify converts a raw cell. Surrounding whitespace is ignored; anything that is
// neither the exemption token nor a finite number is Missing.
func (n *Normalizer) Classify(raw string) gradebook.Score {
	value := strings.TrimSpace(raw)
	if value == "" {
		return gradebook.MissingScore()
	}
	if value == n.ExemptToken {
		return gradebook.ExemptScore()
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return gradebook.MissingScore()
	}
	return gradebook.NumericScore(f)
}

// Rescale divides a Numeric score by the divisor; other kinds pass through.
func (n *Normalizer) Rescale(s gradebook.Score) gradebook.Score {
	if !s.IsNumeric() {
		return s
	}
	return gradebook.NumericScore(s.Value / n.Divisor)
}

// Materialize turns Missing into Numeric(0); other kinds pass through.
func Materialize(s gradebook.Score) gradebook.Score {
	if s.IsMissing() {
		return gradebook.NumericScore(0)
	}
	return s
}

// Format renders a score as an output cell.
func (n *Normalizer) Format(s gradebook.Score) string {
	switch s.Kind {
	case gradebook.Exempt:
		return n.ExemptToken
	case gradebook.Numeric:
		return strconv.FormatFloat(s.Value, 'f', -1, 64)
	default:
		return ""
	}
}

// Stats counts classification outcomes for one gradebook.
type Stats struct {
	Cells       int `json:"cells" yaml:"cells"`
	Numeric     int `json:"numeric" yaml:"numeric"`
	Exempt      int `json:"exempt" yaml:"exempt"`
	Blank       int `json:"blank" yaml:"blank"`
	Unparseable int `json:"unparseable" yaml:"unparseable"`
}

// Cell runs the full per-role pipeline on one raw cell: classify, rescale for
// the secondary gradebook, then materialize Missing to zero. stats may be nil.
func (n *Normalizer) Cell(raw string, role gradebook.Role, stats *Stats) gradebook.Score {
	s := n.Classify(raw)
	if stats != nil {
		stats.Cells++
		switch {
		case s.IsNumeric():
			stats.Numeric++
		case s.IsExempt():
			stats.Exempt++
		case strings.TrimSpace(raw) == "":
			stats.Blank++
		default:
			stats.Unparseable++
		}
	}

	if role == gradebook.Secondary {
		s = n.Rescale(s)
	}
	return Materialize(s)
}
