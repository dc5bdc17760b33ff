package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/gradesync/cmd/gradesync/cmd/inspect"
	"github.com/agentstation/gradesync/cmd/gradesync/cmd/match"
	"github.com/agentstation/gradesync/cmd/gradesync/cmd/reconcile"
	"github.com/agentstation/gradesync/cmd/gradesync/cmd/settings"
	"github.com/agentstation/gradesync/cmd/gradesync/cmd/version"
	"github.com/agentstation/gradesync/internal/cmd/globals"
	"github.com/agentstation/gradesync/internal/cmd/output"
	"github.com/agentstation/gradesync/pkg/errors"
	"github.com/agentstation/gradesync/pkg/logging"
)

const (
	flagConfig   = "config"
	flagLogLevel = "log-level"
)

// Execute runs the CLI with args (without the program name).
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.createRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *App) createRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "gradesync",
		Short:   "Gradebook reconciliation CLI",
		Version: a.build.Version,
		Long: `Gradesync merges a practice-platform gradebook export into an LMS
gradebook export. Students are matched by fuzzy name comparison, homework
columns are matched by their "Homework N-M" prefix, and the higher score
wins. Exempt cells in the LMS gradebook are never overwritten.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	root.SetVersionTemplate("gradesync {{.Version}}\n")

	root.AddGroup(
		&cobra.Group{ID: "core", Title: "Reconciliation Commands:"},
		&cobra.Group{ID: "management", Title: "Management Commands:"},
	)

	globals.AddFlags(root)
	pf := root.PersistentFlags()
	pf.String(flagConfig, "", "config file (default ./.gradesync.yaml or $HOME/.gradesync.yaml)")
	pf.String(flagLogLevel, "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	root.AddCommand(
		reconcile.NewCommand(a),
		match.NewCommand(a),
		inspect.NewCommand(a),
		settings.NewCommand(a),
		version.NewCommand(a),
	)
	return root
}

// setupCommand applies the persistent flags: --config reloads the settings,
// the rest rebuild the logger that later stages find in the context.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	g := globals.Parse(cmd)
	configFile := mustGetString(cmd, flagConfig)
	logLevel := mustGetString(cmd, flagLogLevel)

	if _, err := output.ParseFormat(g.Output); err != nil {
		return errors.NewValidationError("output", g.Output, err.Error())
	}

	if configFile != "" {
		reloaded, err := LoadConfig(configFile)
		if err != nil {
			return err
		}
		a.config.Settings = reloaded.Settings
		a.config.ConfigFile = reloaded.ConfigFile
	}

	a.config.UpdateFromFlags(g.Verbose, g.Quiet, g.NoColor, g.Output, logLevel)
	logger := NewLogger(a.config)
	a.logger = &logger
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))

	a.logger.Debug().
		Str("config_file", a.config.ConfigFile).
		Int("threshold", a.config.Settings.Threshold).
		Str("policy", a.config.Settings.Policy).
		Msg("Configuration loaded")
	return nil
}

// Exit codes.
const (
	exitFailure  = 1
	exitUsage    = 2
	exitCanceled = 130
)

// ExitOnError prints err and exits. Bad flags and settings exit 2, an
// interrupted run 130, anything else 1.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "gradesync: %v\n", err)
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case errors.IsValidationError(err):
		return exitUsage
	case errors.IsCanceled(err), errors.Is(err, context.Canceled):
		return exitCanceled
	}
	return exitFailure
}

// mustGetString reads a flag registered in createRootCommand.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: flag " + name + ": " + err.Error())
	}
	return val
}
