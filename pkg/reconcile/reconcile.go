package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/gradesync/pkg/assignments"
	"github.com/agentstation/gradesync/pkg/constants"
	"github.com/agentstation/gradesync/pkg/errors"
	"github.com/agentstation/gradesync/pkg/gradebook"
	"github.com/agentstation/gradesync/pkg/identity"
	"github.com/agentstation/gradesync/pkg/logging"
	"github.com/agentstation/gradesync/pkg/scores"
)

// Engine reconciles a secondary gradebook into a primary gradebook.
// An Engine holds only configuration and is safe for concurrent use.
type Engine struct {
	extractor    *assignments.Extractor
	normalizer   *scores.Normalizer
	matcher      *identity.Matcher
	merger       *Merger
	homeworkOnly bool
	logger       *zerolog.Logger
}

// config collects option values before the engine is assembled.
type config struct {
	threshold    int
	workers      int
	exemptToken  string
	divisor      float64
	patterns     []string
	policy       Policy
	homeworkOnly bool
	logger       *zerolog.Logger
}

// Option configures an Engine
type Option func(*config) error

// WithThreshold sets the identity similarity threshold (0-100).
func WithThreshold(threshold int) Option {
	return func(c *config) error {
		if threshold < 0 || threshold > constants.MaxSimilarity {
			return errors.NewValidationError("threshold", threshold, "must be between 0 and 100")
		}
		c.threshold = threshold
		return nil
	}
}

// WithWorkers sets how many goroutines match identities.
func WithWorkers(n int) Option {
	return func(c *config) error {
		c.workers = n
		return nil
	}
}

// WithExemptToken sets the literal exemption marker.
func WithExemptToken(token string) Option {
	return func(c *config) error {
		c.exemptToken = token
		return nil
	}
}

// WithScaleDivisor sets the factor secondary scores are divided by.
func WithScaleDivisor(divisor float64) Option {
	return func(c *config) error {
		c.divisor = divisor
		return nil
	}
}

// WithAssignmentPatterns replaces the assignment column patterns.
func WithAssignmentPatterns(patterns ...string) Option {
	return func(c *config) error {
		c.patterns = patterns
		return nil
	}
}

// WithPolicy sets the merge policy.
func WithPolicy(policy Policy) Option {
	return func(c *config) error {
		if policy == nil {
			return errors.NewValidationError("policy", nil, "policy is nil")
		}
		c.policy = policy
		return nil
	}
}

// WithHomeworkOnly limits the output to the identity columns and assignment columns.
func WithHomeworkOnly(enabled bool) Option {
	return func(c *config) error {
		c.homeworkOnly = enabled
		return nil
	}
}

// WithLogger sets the logger; by default the logger is taken from the context.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// New creates an Engine with options
func New(opts ...Option) (*Engine, error) {
	c := &config{
		threshold:   constants.DefaultThreshold,
		workers:     constants.DefaultWorkers,
		exemptToken: constants.DefaultExemptToken,
		divisor:     constants.DefaultScaleDivisor,
		policy:      NewHighestScore(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	extractor, err := assignments.NewExtractor(c.patterns...)
	if err != nil {
		return nil, err
	}
	normalizer, err := scores.NewNormalizer(c.exemptToken, c.divisor)
	if err != nil {
		return nil, err
	}
	matcher, err := identity.NewMatcher(identity.WithThreshold(c.threshold), identity.WithWorkers(c.workers))
	if err != nil {
		return nil, err
	}

	return &Engine{
		extractor:    extractor,
		normalizer:   normalizer,
		matcher:      matcher,
		merger:       NewMerger(c.policy),
		homeworkOnly: c.homeworkOnly,
		logger:       c.logger,
	}, nil
}

// Normalizer returns the score normalizer the engine formats cells with.
func (e *Engine) Normalizer() *scores.Normalizer {
	return e.normalizer
}

// Extractor returns the assignment key extractor.
func (e *Engine) Extractor() *assignments.Extractor {
	return e.extractor
}

// Run reconciles secondary into primary and returns the reconciled table with
// an audit of the run. Neither input table is modified.
func (e *Engine) Run(ctx context.Context, primary, secondary *gradebook.Table) (*Result, error) {
	logger := e.loggerFor(ctx)
	builder := NewResultBuilder().WithPolicy(e.merger.Policy())
	stats := builder.Stats()

	// Normalize
	start := time.Now()
	primaryDS, primaryCells, err := BuildDataset(primary, gradebook.Primary, e.extractor, e.normalizer)
	if err != nil {
		return nil, err
	}
	secondaryDS, secondaryCells, err := BuildDataset(secondary, gradebook.Secondary, e.extractor, e.normalizer)
	if err != nil {
		return nil, err
	}
	stats.NormalizeTimeMs = time.Since(start).Milliseconds()
	stats.PrimaryStudents = len(primaryDS.Records)
	stats.SecondaryStudents = len(secondaryDS.Records)
	stats.PrimaryCells = primaryCells
	stats.SecondaryCells = secondaryCells

	shared := primaryDS.SharedKeys(secondaryDS)
	stats.SharedAssignments = len(shared)
	stats.PrimaryOnlyAssignments = len(primaryDS.Keys) - len(shared)
	stats.SecondaryOnlyAssignments = len(secondaryDS.Keys) - len(shared)

	logger.Debug().
		Str("stage", "normalize").
		Int("primary_students", stats.PrimaryStudents).
		Int("secondary_students", stats.SecondaryStudents).
		Int("shared_assignments", stats.SharedAssignments).
		Int("secondary_only_assignments", stats.SecondaryOnlyAssignments).
		Int("unparseable_cells", primaryCells.Unparseable+secondaryCells.Unparseable).
		Msg("Normalized gradebooks")

	for _, ds := range []*gradebook.Dataset{primaryDS, secondaryDS} {
		for _, w := range ds.Warnings {
			logger.Warn().Str("stage", "normalize").Msg(w)
			builder.WithWarning(w)
		}
	}
	if len(shared) == 0 {
		builder.WithWarning("no assignment appears in both gradebooks; output equals the primary gradebook")
	}
	for _, dup := range duplicateIdentities(primaryDS) {
		builder.WithWarning(fmt.Sprintf("primary gradebook lists %q more than once; each row is merged independently", dup))
	}

	// Match
	start = time.Now()
	matches, err := e.matcher.Match(ctx, secondaryDS.Identities(), primaryDS.Identities())
	if err != nil {
		return nil, err
	}
	stats.MatchTimeMs = time.Since(start).Milliseconds()
	builder.WithMatches(matches)

	for _, m := range matches.Unmatched() {
		if m.Status == identity.EmptyIdentity {
			continue
		}
		logger.Debug().
			Str("stage", "match").
			Str("student", m.Secondary).
			Str("closest", m.Candidate).
			Int("score", m.Score).
			Msg("No primary student above threshold")
	}
	logger.Debug().
		Str("stage", "match").
		Int("matched", stats.Matched).
		Int("unmatched", stats.Unmatched).
		Int("empty", stats.EmptyIdentities).
		Msg("Matched students")

	// Merge
	start = time.Now()
	merged, err := e.merger.Merge(ctx, primaryDS, secondaryDS, matches)
	if err != nil {
		return nil, err
	}
	stats.MergeTimeMs = time.Since(start).Milliseconds()
	stats.Joined = merged.Joined
	stats.Folded = merged.Folded
	stats.ExemptKept = merged.ExemptKept
	for _, w := range merged.Warnings {
		builder.WithWarning(w)
	}
	for i := range merged.Changeset.Changes {
		ch := &merged.Changeset.Changes[i]
		ch.Before = e.normalizer.Format(ch.From)
		ch.After = e.normalizer.Format(ch.To)
	}
	builder.WithChangeset(merged.Changeset)

	logger.Debug().
		Str("stage", "merge").
		Str("policy", e.merger.Policy().Name()).
		Int("joined", merged.Joined).
		Int("improved", len(merged.Changeset.Changes)).
		Int("exempt_kept", merged.ExemptKept).
		Msg("Merged scores")

	// Restore
	output := e.render(primary, primaryDS, merged)
	builder.WithOutput(output)

	result := builder.Build()
	logger.Info().
		Str("stage", "restore").
		Int("matched", stats.Matched).
		Int("unmatched", stats.Unmatched+stats.EmptyIdentities).
		Int("improved", stats.CellsImproved).
		Dur("duration", result.Metadata.Duration).
		Msg("Reconciliation complete")

	return result, nil
}

// Match runs only the identity stage, for previewing how students pair up.
func (e *Engine) Match(ctx context.Context, primary, secondary *gradebook.Table) (*identity.Result, error) {
	primaryNames, err := studentNames(primary, gradebook.Primary)
	if err != nil {
		return nil, err
	}
	secondaryNames, err := studentNames(secondary, gradebook.Secondary)
	if err != nil {
		return nil, err
	}
	return e.matcher.Match(ctx, normalizeAll(secondaryNames), normalizeAll(primaryNames))
}

func (e *Engine) loggerFor(ctx context.Context) *zerolog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return logging.FromContext(ctx)
}

func normalizeAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = identity.Normalize(n)
	}
	return out
}

// duplicateIdentities lists non-empty identities that occur on several rows.
func duplicateIdentities(ds *gradebook.Dataset) []string {
	seen := make(map[string]int, len(ds.Records))
	var dups []string
	for _, rec := range ds.Records {
		if rec.Identity == "" {
			continue
		}
		seen[rec.Identity]++
		if seen[rec.Identity] == 2 {
			dups = append(dups, rec.Identity)
		}
	}
	return dups
}
