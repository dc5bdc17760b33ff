// Package reconcile provides the reconcile command.
package reconcile

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/gradesync"
	"github.com/agentstation/gradesync/internal/appcontext"
	"github.com/agentstation/gradesync/internal/cmd/alerts"
	"github.com/agentstation/gradesync/internal/cmd/cmdutil"
	"github.com/agentstation/gradesync/internal/cmd/globals"
	"github.com/agentstation/gradesync/internal/cmd/output"
	"github.com/agentstation/gradesync/pkg/identity"
	"github.com/agentstation/gradesync/pkg/reconcile"
)

// Flags holds the reconcile command flags.
type Flags struct {
	Out    string
	DryRun bool
	Report bool
}

// NewCommand creates the reconcile command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}
	var (
		inputs *cmdutil.InputFlags
		engine *cmdutil.EngineFlags
	)

	cmd := &cobra.Command{
		Use:     "reconcile",
		GroupID: "core",
		Short:   "Merge secondary scores into the primary gradebook",
		Long: `Reconcile reads the primary (LMS) and secondary (practice platform)
gradebooks, matches students by name, and writes the primary gradebook with
every shared homework cell raised to the higher of the two scores.

Secondary scores are divided by scale_divisor before comparison. Exempt cells
in the primary gradebook are never changed. Secondary students that match no
primary student are reported and contribute nothing.

When --primary or --secondary is omitted, the newest file in --dir matching
primary_glob or secondary_glob is used.`,
		Example: `  gradesync reconcile -p grades.csv -s practice.xlsx --out grades-updated.csv
  gradesync reconcile --dir ~/Downloads --dry-run
  gradesync reconcile -p grades.csv -s practice.xlsx --threshold 90 --homework-only
  gradesync reconcile -p grades.csv -s practice.xlsx -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, flags, inputs, engine)
		},
	}

	inputs = cmdutil.AddInputFlags(cmd)
	engine = cmdutil.AddEngineFlags(cmd)
	cmd.Flags().StringVar(&flags.Out, "out", "",
		"Output gradebook, .csv or .xlsx (default: reconciled/<primary name> beside the primary)")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false,
		"Report what would change without writing the output")
	cmd.Flags().BoolVar(&flags.Report, "report", false,
		"Print the full reconciliation report")

	return cmd
}

func run(cmd *cobra.Command, app appcontext.Interface, flags *Flags, inputs *cmdutil.InputFlags, engine *cmdutil.EngineFlags) error {
	logger := app.Logger()

	primary, secondary, err := inputs.Resolve(app.Settings())
	if err != nil {
		return err
	}
	out := flags.Out
	if out == "" {
		out = DefaultOutputPath(primary)
	}

	opts := append(engine.Options(cmd), gradesync.WithDryRun(flags.DryRun))
	gs, err := app.Gradesync(opts...)
	if err != nil {
		return err
	}

	gs.OnUnmatched(func(m identity.Match) {
		logger.Warn().
			Str("student", m.Secondary).
			Str("closest", m.Candidate).
			Int("score", m.Score).
			Msg("No primary student matched")
	})

	logger.Debug().
		Str("primary", primary).
		Str("secondary", secondary).
		Str("out", out).
		Bool("dry_run", flags.DryRun).
		Msg("Reconciling gradebooks")

	result, err := gs.ReconcileFiles(cmd.Context(), primary, secondary, out)
	if err != nil {
		return err
	}

	report := &Report{
		Primary:   primary,
		Secondary: secondary,
		Output:    out,
		DryRun:    flags.DryRun,
		Result:    result,
	}

	w := cmd.OutOrStdout()
	format := output.Format(app.OutputFormat())
	if !format.IsTable() {
		return output.NewFormatter(format).Format(w, report)
	}

	g := globals.Parse(cmd)
	if flags.Report {
		_, err := io.WriteString(w, result.Report())
		return err
	}
	return printTable(w, format, report, g)
}

// Report is the structured output of a reconcile run.
type Report struct {
	Primary           string `json:"primary" yaml:"primary"`
	Secondary         string `json:"secondary" yaml:"secondary"`
	Output            string `json:"output" yaml:"output"`
	DryRun            bool   `json:"dry_run" yaml:"dry_run"`
	*reconcile.Result `yaml:",inline"`
}

func printTable(w io.Writer, format output.Format, r *Report, g *globals.Flags) error {
	aw := g.Alerts(w)

	if !g.Quiet {
		if _, err := fmt.Fprintln(w, r.Summary()); err != nil {
			return err
		}
		if format == output.FormatWide {
			if err := output.NewFormatter(format).Format(w, output.StatsToData(r.Metadata.Stats)); err != nil {
				return err
			}
		}
		if r.HasChanges() {
			if err := output.NewFormatter(format).Format(w, output.ChangesToData(r.Changeset)); err != nil {
				return err
			}
		}
	}

	var missed []string
	for _, m := range r.Unmatched() {
		if m.Status != identity.Unmatched {
			continue
		}
		missed = append(missed, fmt.Sprintf("%s (closest %s, %d)", m.Secondary, m.Candidate, m.Score))
	}
	if len(missed) > 0 {
		alert := alerts.NewWarning(fmt.Sprintf("%d secondary student(s) not matched", len(missed))).WithDetails(missed...)
		if err := aw.Write(alert); err != nil {
			return err
		}
	}
	for _, warning := range r.Warnings {
		if err := aw.Write(alerts.NewWarning(warning)); err != nil {
			return err
		}
	}

	if r.DryRun {
		return aw.Write(alerts.NewInfo("Dry run: " + r.Output + " not written"))
	}
	return aw.Write(alerts.NewSuccess("Wrote " + r.Output))
}

// DefaultOutputPath writes the output under a "reconciled" directory beside
// the primary gradebook, keeping its file name. The output stays out of reach
// of the discovery globs, which do not descend into subdirectories.
func DefaultOutputPath(primary string) string {
	return filepath.Join(filepath.Dir(primary), "reconciled", filepath.Base(primary))
}
