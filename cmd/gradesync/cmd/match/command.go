// Package match provides the match command.
package match

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/gradesync/internal/appcontext"
	"github.com/agentstation/gradesync/internal/cmd/cmdutil"
	"github.com/agentstation/gradesync/internal/cmd/globals"
	"github.com/agentstation/gradesync/internal/cmd/output"
	"github.com/agentstation/gradesync/internal/sheets"
	"github.com/agentstation/gradesync/pkg/identity"
)

// NewCommand creates the match command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		inputs    *cmdutil.InputFlags
		engine    *cmdutil.EngineFlags
		unmatched bool
	)

	cmd := &cobra.Command{
		Use:     "match",
		GroupID: "core",
		Short:   "Show how secondary students match the primary roster",
		Long: `Match pairs every secondary student with the most similar primary student
and shows the similarity score, without merging any scores. Use it to pick a
threshold before running reconcile.`,
		Example: `  gradesync match -p grades.csv -s practice.xlsx
  gradesync match -p grades.csv -s practice.xlsx --threshold 70 --unmatched`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			primaryPath, secondaryPath, err := inputs.Resolve(app.Settings())
			if err != nil {
				return err
			}
			primary, err := sheets.ReadFile(primaryPath)
			if err != nil {
				return err
			}
			secondary, err := sheets.ReadFile(secondaryPath)
			if err != nil {
				return err
			}

			gs, err := app.Gradesync(engine.Options(cmd)...)
			if err != nil {
				return err
			}
			result, err := gs.Match(cmd.Context(), primary, secondary)
			if err != nil {
				return err
			}
			if unmatched {
				result = &identity.Result{Threshold: result.Threshold, Matches: result.Unmatched()}
			}

			w := cmd.OutOrStdout()
			format := output.Format(app.OutputFormat())
			if !format.IsTable() {
				return output.NewFormatter(format).Format(w, result)
			}

			if err := output.NewFormatter(format).Format(w, output.MatchesToData(result)); err != nil {
				return err
			}
			if globals.Parse(cmd).Quiet {
				return nil
			}
			_, err = fmt.Fprintf(w, "%d matched, %d unmatched, %d blank (threshold %d)\n",
				result.Count(identity.Matched), result.Count(identity.Unmatched),
				result.Count(identity.EmptyIdentity), result.Threshold)
			return err
		},
	}

	inputs = cmdutil.AddInputFlags(cmd)
	engine = cmdutil.AddEngineFlags(cmd)
	cmd.Flags().BoolVar(&unmatched, "unmatched", false, "Show only students that did not match")

	return cmd
}
