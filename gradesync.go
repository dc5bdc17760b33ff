package gradesync

import (
	"context"

	"github.com/agentstation/gradesync/pkg/errors"
	"github.com/agentstation/gradesync/pkg/gradebook"
	"github.com/agentstation/gradesync/pkg/identity"
	"github.com/agentstation/gradesync/pkg/reconcile"
)

// Compile-time interface check to ensure proper implementation.
var _ Gradesync = (*client)(nil)

// Gradesync reconciles gradebooks and reports events through hooks
type Gradesync interface {
	// Reconcile merges secondary into primary and returns the reconciled table
	// with its match and change report. Neither input is modified.
	Reconcile(ctx context.Context, primary, secondary *gradebook.Table) (*reconcile.Result, error)

	// ReconcileFiles reads both gradebooks, reconciles them, and writes the
	// output to outPath unless outPath is empty or dry run is enabled.
	ReconcileFiles(ctx context.Context, primaryPath, secondaryPath, outPath string) (*reconcile.Result, error)

	// Match reports how each secondary student binds to the primary roster
	// without merging any scores.
	Match(ctx context.Context, primary, secondary *gradebook.Table) (*identity.Result, error)

	// Engine returns the underlying reconciliation engine
	Engine() *reconcile.Engine

	// OnScoreImproved registers a callback for every replaced cell
	OnScoreImproved(ScoreImprovedHook)

	// OnUnmatched registers a callback for every unmatched secondary student
	OnUnmatched(UnmatchedHook)
}

// client is the internal implementation of the Gradesync interface
type client struct {
	engine *reconcile.Engine
	config *config
	hooks  *hooks
}

// New creates a new Gradesync instance with the given options
func New(opts ...Option) (Gradesync, error) {
	cfg := &config{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	engine, err := reconcile.New(cfg.engine...)
	if err != nil {
		return nil, errors.WrapResource("create", "engine", "", err)
	}

	return &client{
		engine: engine,
		config: cfg,
		hooks:  newHooks(),
	}, nil
}

// Reconcile implements Gradesync.
func (c *client) Reconcile(ctx context.Context, primary, secondary *gradebook.Table) (*reconcile.Result, error) {
	result, err := c.engine.Run(ctx, primary, secondary)
	if err != nil {
		return nil, err
	}
	c.hooks.trigger(result)
	return result, nil
}

// Match implements Gradesync.
func (c *client) Match(ctx context.Context, primary, secondary *gradebook.Table) (*identity.Result, error) {
	return c.engine.Match(ctx, primary, secondary)
}

// Engine implements Gradesync.
func (c *client) Engine() *reconcile.Engine {
	return c.engine
}

// OnScoreImproved implements Gradesync.
func (c *client) OnScoreImproved(fn ScoreImprovedHook) {
	c.hooks.OnScoreImproved(fn)
}

// OnUnmatched implements Gradesync.
func (c *client) OnUnmatched(fn UnmatchedHook) {
	c.hooks.OnUnmatched(fn)
}
