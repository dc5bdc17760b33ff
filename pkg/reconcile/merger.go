package reconcile

import (
	"context"
	"fmt"

	"github.com/agentstation/gradesync/pkg/errors"
	"github.com/agentstation/gradesync/pkg/gradebook"
	"github.com/agentstation/gradesync/pkg/identity"
)

// Merged is the outcome of joining the secondary dataset into the primary one.
type Merged struct {
	// Records holds one copy of every primary record, in primary order.
	Records []*gradebook.Record
	// Keys are the assignment keys both datasets define.
	Keys      []gradebook.AssignmentKey
	Changeset *Changeset
	Warnings  []string
	// Joined counts primary records that received a secondary record.
	Joined int
	// ExemptKept counts exempt primary cells that had a secondary counterpart.
	ExemptKept int
	// Folded counts secondary records merged into an already bound student.
	Folded int
}

// Merger joins two datasets on resolved identity and merges shared assignments.
type Merger struct {
	policy Policy
}

// NewMerger creates a merger; a nil policy means HighestScore.
func NewMerger(policy Policy) *Merger {
	if policy == nil {
		policy = NewHighestScore()
	}
	return &Merger{policy: policy}
}

// Policy returns the merge policy.
func (m *Merger) Policy() Policy {
	return m.policy
}

// Merge left-joins secondary into primary. matches must hold one entry per
// secondary record, in order. Neither dataset is modified: the returned records
// are copies. Keys defined only by the secondary dataset are ignored and keys
// defined only by the primary dataset keep their scores.
func (m *Merger) Merge(ctx context.Context, primary, secondary *gradebook.Dataset, matches *identity.Result) (*Merged, error) {
	if primary == nil || secondary == nil {
		return nil, errors.NewValidationError("dataset", nil, "primary and secondary datasets are required")
	}
	if matches == nil || len(matches.Matches) != len(secondary.Records) {
		return nil, errors.NewValidationError("matches", nil, "match result does not cover the secondary dataset")
	}

	out := &Merged{
		Records:   make([]*gradebook.Record, len(primary.Records)),
		Keys:      primary.SharedKeys(secondary),
		Changeset: NewChangeset(),
	}

	bound, err := m.bind(ctx, secondary, matches, out)
	if err != nil {
		return nil, err
	}

	for i, rec := range primary.Records {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, errors.WrapResource("merge", "primary", "", fmt.Errorf("%w: %w", errors.ErrCanceled, err))
			}
		}

		merged := rec.Clone()
		out.Records[i] = merged

		src, ok := bound[rec.Identity]
		if rec.Identity == "" || !ok {
			continue
		}
		out.Joined++

		for _, key := range out.Keys {
			before, hasPrimary := merged.Score(key)
			incoming, hasSecondary := src.scores[key]
			if !hasPrimary || !hasSecondary {
				continue
			}

			after, decision := m.policy.Resolve(before, incoming)
			switch decision {
			case DecisionExempt:
				out.ExemptKept++
			case DecisionImproved:
				merged.Scores[key] = after
				out.Changeset.Add(CellChange{
					Student:  rec.Name,
					Identity: rec.Identity,
					Row:      rec.Row,
					Key:      key,
					Label:    labelFor(primary, key),
					Source:   src.name,
					From:     before,
					To:       after,
				})
			}
		}
	}

	out.Changeset.Finalize()
	return out, nil
}

// boundScores is the folded secondary contribution for one primary identity.
type boundScores struct {
	name   string
	scores map[gradebook.AssignmentKey]gradebook.Score
}

// bind groups secondary records by the primary identity they resolved to.
// Unmatched and empty identities are dropped here: they can never equal a
// primary identity.
func (m *Merger) bind(ctx context.Context, secondary *gradebook.Dataset, matches *identity.Result, out *Merged) (map[string]*boundScores, error) {
	bound := make(map[string]*boundScores)
	for i, match := range matches.Matches {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapResource("merge", "secondary", "", fmt.Errorf("%w: %w", errors.ErrCanceled, err))
		}
		if match.Status != identity.Matched {
			continue
		}

		rec := secondary.Records[i]
		target := match.Resolved()
		existing, ok := bound[target]
		if !ok {
			scores := make(map[gradebook.AssignmentKey]gradebook.Score, len(rec.Scores))
			for k, v := range rec.Scores {
				scores[k] = v
			}
			bound[target] = &boundScores{name: rec.Name, scores: scores}
			continue
		}

		out.Folded++
		out.Warnings = append(out.Warnings, fmt.Sprintf(
			"secondary students %q and %q both match %q; keeping the best score per assignment",
			existing.name, rec.Name, target))
		for k, v := range rec.Scores {
			if prev, has := existing.scores[k]; has {
				existing.scores[k] = m.policy.Fold(prev, v)
			} else {
				existing.scores[k] = v
			}
		}
	}
	return bound, nil
}

// labelFor returns the primary label of key, or the key itself.
func labelFor(ds *gradebook.Dataset, key gradebook.AssignmentKey) string {
	if label, ok := ds.Columns.Label(key); ok {
		return label
	}
	return key.String()
}
