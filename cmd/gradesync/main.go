// Command gradesync reconciles gradebook exports.
package main

import (
	"context"
	"os"

	"github.com/agentstation/gradesync/cmd/gradesync/app"
)

// Set by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	a, err := app.New(version, commit, date, builtBy)
	app.ExitOnError(err)

	ctx, stop := app.ContextWithSignals(context.Background())
	err = a.Execute(ctx, os.Args[1:])
	stop()
	app.ExitOnError(err)
}
