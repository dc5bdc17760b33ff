package identity

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/gradesync/pkg/constants"
	"github.com/agentstation/gradesync/pkg/errors"
)

// Status is the outcome of matching one secondary identity.
type Status string

const (
	// Matched means the identity is bound to a primary identity.
	Matched Status = "matched"
	// Unmatched means no primary identity reached the threshold.
	Unmatched Status = "unmatched"
	// EmptyIdentity means the secondary identity was blank and was not matched.
	EmptyIdentity Status = "empty"
)

// Match is the outcome for one secondary identity.
type Match struct {
	// Index is the position of the identity in the secondary list.
	Index int `json:"index" yaml:"index"`
	// Secondary is the identity as given.
	Secondary string `json:"secondary" yaml:"secondary"`
	// Bound is the primary identity the record joins on; "" unless Matched.
	Bound string `json:"bound,omitempty" yaml:"bound,omitempty"`
	// Candidate is the best primary identity, kept even below threshold for audit.
	Candidate string `json:"candidate,omitempty" yaml:"candidate,omitempty"`
	// Score is the similarity of Candidate.
	Score  int    `json:"score" yaml:"score"`
	Status Status `json:"status" yaml:"status"`
}

// Resolved returns the identity the secondary record joins on. Unmatched records
// keep their own identity, which never equals a primary identity they failed to reach.
func (m Match) Resolved() string {
	switch m.Status {
	case Matched:
		return m.Bound
	case EmptyIdentity:
		return ""
	default:
		return m.Secondary
	}
}

// Result holds one Match per secondary identity, in input order.
type Result struct {
	Threshold int     `json:"threshold" yaml:"threshold"`
	Matches   []Match `json:"matches" yaml:"matches"`
}

// Unmatched returns the matches that did not bind, empty identities included.
func (r *Result) Unmatched() []Match {
	var out []Match
	for _, m := range r.Matches {
		if m.Status != Matched {
			out = append(out, m)
		}
	}
	return out
}

// Count returns how many matches have the given status.
func (r *Result) Count(status Status) int {
	n := 0
	for _, m := range r.Matches {
		if m.Status == status {
			n++
		}
	}
	return n
}

// Matcher binds secondary identities to primary identities by fuzzy similarity.
type Matcher struct {
	threshold int
	workers   int
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithThreshold sets the minimum similarity (0-100) for a binding.
func WithThreshold(threshold int) Option {
	return func(m *Matcher) error {
		if threshold < 0 || threshold > constants.MaxSimilarity {
			return errors.NewValidationError("threshold", threshold, "must be between 0 and 100")
		}
		m.threshold = threshold
		return nil
	}
}

// WithWorkers spreads matching across n goroutines; n <= 1 matches sequentially.
func WithWorkers(n int) Option {
	return func(m *Matcher) error {
		if n < 1 {
			n = 1
		}
		m.workers = n
		return nil
	}
}

// NewMatcher creates a Matcher with the default threshold of 80.
func NewMatcher(opts ...Option) (*Matcher, error) {
	m := &Matcher{
		threshold: constants.DefaultThreshold,
		workers:   constants.DefaultWorkers,
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Threshold returns the configured threshold.
func (m *Matcher) Threshold() int { return m.threshold }

// candidate is a primary identity with its prepared comparison form.
type candidate struct {
	identity string
	name     prepared
}

// Match finds, for every secondary identity, the most similar primary identity.
// Ties on score go to the candidate with the smallest edit distance, then to the
// lexically smallest primary identity, so the outcome does not depend on roster
// order or worker count. Blank primary identities are never
// candidates; blank secondary identities are reported as EmptyIdentity.
//
// Cost is |secondary| x |primary| comparisons, which dominates for large rosters.
func (m *Matcher) Match(ctx context.Context, secondary, primary []string) (*Result, error) {
	candidates := make([]candidate, 0, len(primary))
	for _, id := range primary {
		if id == "" {
			continue
		}
		candidates = append(candidates, candidate{identity: id, name: prepare(id)})
	}

	result := &Result{
		Threshold: m.threshold,
		Matches:   make([]Match, len(secondary)),
	}

	matchOne := func(i int) {
		result.Matches[i] = m.best(i, secondary[i], candidates)
	}

	if m.workers <= 1 || len(secondary) < 2 {
		for i := range secondary {
			if err := ctx.Err(); err != nil {
				return nil, canceled(err)
			}
			matchOne(i)
		}
		return result, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i := range secondary {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			matchOne(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, canceled(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, canceled(err)
	}

	return result, nil
}

// best scores one secondary identity against every candidate.
func (m *Matcher) best(index int, id string, candidates []candidate) Match {
	match := Match{Index: index, Secondary: id, Status: Unmatched}
	if id == "" {
		match.Status = EmptyIdentity
		return match
	}

	name := prepare(id)
	bestScore, bestDistance := -1, 0
	for _, c := range candidates {
		s := score(name, c.name)
		if s < bestScore {
			continue
		}
		distance := editDistance(name, c.name)
		if s == bestScore && (distance > bestDistance ||
			(distance == bestDistance && c.identity >= match.Candidate)) {
			continue
		}
		bestScore, bestDistance = s, distance
		match.Candidate = c.identity
	}

	if bestScore < 0 {
		return match
	}
	match.Score = bestScore
	if bestScore >= m.threshold {
		match.Bound = match.Candidate
		match.Status = Matched
	}
	return match
}

// canceled wraps a context error so callers can test for errors.ErrCanceled.
func canceled(err error) error {
	return errors.WrapResource("match", "secondary", "", fmt.Errorf("%w: %w", errors.ErrCanceled, err))
}
