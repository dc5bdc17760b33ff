package gradesync

import (
	"sync"

	"github.com/agentstation/gradesync/pkg/identity"
	"github.com/agentstation/gradesync/pkg/reconcile"
)

// Hook function types for reconciliation events
type (
	// ScoreImprovedHook is called for every primary cell the merge replaced
	ScoreImprovedHook func(change reconcile.CellChange)

	// UnmatchedHook is called for every secondary student left unmatched
	UnmatchedHook func(match identity.Match)
)

// hooks manages event callbacks for reconciliation results
type hooks struct {
	mu              sync.RWMutex
	onScoreImproved []ScoreImprovedHook
	onUnmatched     []UnmatchedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnScoreImproved registers a callback for improved cells
func (h *hooks) OnScoreImproved(fn ScoreImprovedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onScoreImproved = append(h.onScoreImproved, fn)
}

// OnUnmatched registers a callback for unmatched secondary students
func (h *hooks) OnUnmatched(fn UnmatchedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onUnmatched = append(h.onUnmatched, fn)
}

// trigger fires hooks for a finished run. Blank identities are not reported
// as unmatched.
func (h *hooks) trigger(result *reconcile.Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if result.Changeset != nil {
		for _, change := range result.Changeset.Changes {
			for _, hook := range h.onScoreImproved {
				hook(change)
			}
		}
	}

	for _, m := range result.Unmatched() {
		if m.Status != identity.Unmatched {
			continue
		}
		for _, hook := range h.onUnmatched {
			hook(m)
		}
	}
}
