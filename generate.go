//go:generate gomarkdoc -e -f github -o README.md . --repository.url https://github.com/agentstation/gradesync --repository.default-branch master --repository.path /

// Package gradesync reconciles a primary LMS gradebook export with a secondary
// practice-platform export. Students are joined by fuzzy name match, shared
// homework assignments are joined by canonical key, and the higher score wins
// while exempt cells stay exempt.
//
// Example usage:
//
//	gs, err := gradesync.New(gradesync.WithThreshold(85))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	gs.OnUnmatched(func(m identity.Match) {
//	    log.Printf("no match for %s (best %s at %d)", m.Secondary, m.Candidate, m.Score)
//	})
//
//	result, err := gs.ReconcileFiles(ctx, "grades.csv", "practice.xlsx", "grades-updated.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary())
package gradesync
