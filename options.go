package gradesync

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/gradesync/pkg/errors"
	"github.com/agentstation/gradesync/pkg/reconcile"
)

// config collects engine options and facade settings.
type config struct {
	engine []reconcile.Option
	logger *zerolog.Logger
	dryRun bool
}

// Option is a function that configures a Gradesync instance
type Option func(*config) error

// WithThreshold sets the minimum name similarity (0-100) for a match.
func WithThreshold(threshold int) Option {
	return engineOption(reconcile.WithThreshold(threshold))
}

// WithScaleDivisor sets the divisor applied to secondary scores.
func WithScaleDivisor(divisor float64) Option {
	return engineOption(reconcile.WithScaleDivisor(divisor))
}

// WithExemptToken sets the cell value that marks an exempt assignment.
func WithExemptToken(token string) Option {
	return engineOption(reconcile.WithExemptToken(token))
}

// WithAssignmentPatterns replaces the patterns that recognize assignment columns.
func WithAssignmentPatterns(patterns ...string) Option {
	return engineOption(reconcile.WithAssignmentPatterns(patterns...))
}

// WithWorkers sets how many goroutines match identities.
func WithWorkers(n int) Option {
	return engineOption(reconcile.WithWorkers(n))
}

// WithHomeworkOnly restricts the output to identity and assignment columns.
func WithHomeworkOnly(enabled bool) Option {
	return engineOption(reconcile.WithHomeworkOnly(enabled))
}

// WithPolicy selects the merge policy by name ("highest-score", "keep-primary").
func WithPolicy(name string) Option {
	return func(c *config) error {
		policy, ok := reconcile.PolicyByName(name)
		if !ok {
			return errors.NewValidationError("policy", name, "unknown merge policy")
		}
		c.engine = append(c.engine, reconcile.WithPolicy(policy))
		return nil
	}
}

// WithLogger sets the logger used by the engine.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		c.engine = append(c.engine, reconcile.WithLogger(logger))
		return nil
	}
}

// WithDryRun makes ReconcileFiles skip writing the output file.
func WithDryRun(enabled bool) Option {
	return func(c *config) error {
		c.dryRun = enabled
		return nil
	}
}

// WithEngineOptions appends raw engine options, for callers that already
// hold a []reconcile.Option (for example from loaded settings).
func WithEngineOptions(opts ...reconcile.Option) Option {
	return func(c *config) error {
		c.engine = append(c.engine, opts...)
		return nil
	}
}

func engineOption(opt reconcile.Option) Option {
	return func(c *config) error {
		c.engine = append(c.engine, opt)
		return nil
	}
}
