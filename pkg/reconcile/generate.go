//go:generate gomarkdoc -e -f github -o README.md . --repository.url https://github.com/agentstation/gradesync --repository.default-branch master --repository.path /pkg/reconcile

// Package reconcile merges a secondary gradebook into a primary one.
//
// The Engine runs the whole pipeline: it normalizes both headers to canonical
// assignment keys, classifies every score cell, matches secondary students onto
// the primary roster, merges shared assignments under a Policy, and restores the
// primary's original column labels. Every cell the merge improves is recorded in
// a Changeset so callers can audit the outcome.
package reconcile
