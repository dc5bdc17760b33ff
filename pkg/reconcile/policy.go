package reconcile

import (
	"github.com/agentstation/gradesync/pkg/gradebook"
)

// Decision records why a merged cell holds its value.
type Decision string

const (
	// DecisionKept means the primary score was at least as good.
	DecisionKept Decision = "kept"
	// DecisionExempt means the primary cell is exempt and was not compared.
	DecisionExempt Decision = "exempt"
	// DecisionImproved means the secondary score replaced the primary score.
	DecisionImproved Decision = "improved"
)

// Policy decides the merged value of one (student, assignment) cell.
type Policy interface {
	// Name returns the policy name
	Name() string

	// Description returns a human-readable description
	Description() string

	// Resolve merges a primary cell with the matching secondary cell
	Resolve(primary, secondary gradebook.Score) (gradebook.Score, Decision)

	// Fold combines two secondary cells bound to the same primary student
	Fold(a, b gradebook.Score) gradebook.Score
}

// basePolicy provides common policy functionality
type basePolicy struct {
	name        string
	description string
}

// Name returns the policy name
func (p *basePolicy) Name() string {
	return p.name
}

// Description returns a human-readable description
func (p *basePolicy) Description() string {
	return p.description
}

// HighestScore keeps the better of the two scores. An exempt primary cell is
// never compared, and an exempt secondary cell never replaces a primary score.
type HighestScore struct {
	basePolicy
}

// NewHighestScore creates the default policy.
func NewHighestScore() Policy {
	return &HighestScore{
		basePolicy: basePolicy{
			name:        "highest-score",
			description: "Keeps the higher score; primary exemptions always win",
		},
	}
}

// Resolve replaces the primary score only when the secondary score is strictly greater.
func (p *HighestScore) Resolve(primary, secondary gradebook.Score) (gradebook.Score, Decision) {
	if primary.IsExempt() {
		return primary, DecisionExempt
	}

	pv, _ := primary.Numeric()
	sv, ok := secondary.Numeric()
	if ok && sv > pv {
		return secondary, DecisionImproved
	}
	return primary, DecisionKept
}

// Fold prefers a numeric cell over an exempt one and the higher of two numbers.
func (p *HighestScore) Fold(a, b gradebook.Score) gradebook.Score {
	av, aok := a.Numeric()
	bv, bok := b.Numeric()
	switch {
	case !aok:
		return b
	case !bok:
		return a
	case bv > av:
		return b
	default:
		return a
	}
}

// KeepPrimary never changes a primary score. It lets a run report matches and
// statistics without touching the gradebook.
type KeepPrimary struct {
	basePolicy
}

// NewKeepPrimary creates a policy that leaves every primary cell unchanged.
func NewKeepPrimary() Policy {
	return &KeepPrimary{
		basePolicy: basePolicy{
			name:        "keep-primary",
			description: "Reports matches without changing any primary score",
		},
	}
}

// Resolve always returns the primary cell.
func (p *KeepPrimary) Resolve(primary, _ gradebook.Score) (gradebook.Score, Decision) {
	if primary.IsExempt() {
		return primary, DecisionExempt
	}
	return primary, DecisionKept
}

// Fold keeps the first cell.
func (p *KeepPrimary) Fold(a, _ gradebook.Score) gradebook.Score {
	return a
}

// PolicyByName returns the policy registered under name.
func PolicyByName(name string) (Policy, bool) {
	switch name {
	case "", "highest-score":
		return NewHighestScore(), true
	case "keep-primary":
		return NewKeepPrimary(), true
	default:
		return nil, false
	}
}

// PolicyNames lists the available policies.
func PolicyNames() []string {
	return []string{"highest-score", "keep-primary"}
}
