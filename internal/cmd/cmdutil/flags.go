// Package cmdutil provides flags shared by the gradesync commands that read
// gradebooks.
package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/gradesync"
	"github.com/agentstation/gradesync/internal/config"
	"github.com/agentstation/gradesync/internal/sheets"
)

// InputFlags locate the two gradebooks.
type InputFlags struct {
	Primary   string
	Secondary string
	Dir       string
}

// AddInputFlags adds input flags to a command.
func AddInputFlags(cmd *cobra.Command) *InputFlags {
	flags := &InputFlags{}

	cmd.Flags().StringVarP(&flags.Primary, "primary", "p", "",
		"Primary (LMS) gradebook, .csv or .xlsx (default: newest export matching primary_glob)")
	cmd.Flags().StringVarP(&flags.Secondary, "secondary", "s", "",
		"Secondary (practice platform) gradebook, .csv or .xlsx (default: newest export matching secondary_glob)")
	cmd.Flags().StringVarP(&flags.Dir, "dir", "d", "",
		"Directory searched for exports when a path is not given (default: input_dir)")

	return flags
}

// Resolve returns the primary and secondary paths, discovering any that were
// not given explicitly.
func (f *InputFlags) Resolve(s config.Settings) (primary, secondary string, err error) {
	dir := f.Dir
	if dir == "" {
		dir = s.InputDir
	}

	primary = f.Primary
	if primary == "" {
		if primary, err = sheets.Discover(dir, s.PrimaryGlob); err != nil {
			return "", "", err
		}
	}

	secondary = f.Secondary
	if secondary == "" {
		if secondary, err = sheets.Discover(dir, s.SecondaryGlob); err != nil {
			return "", "", err
		}
	}

	return primary, secondary, nil
}

// EngineFlags override reconciliation settings for one run.
type EngineFlags struct {
	Threshold    int
	Workers      int
	Policy       string
	HomeworkOnly bool
}

// AddEngineFlags adds engine override flags to a command.
func AddEngineFlags(cmd *cobra.Command) *EngineFlags {
	flags := &EngineFlags{}

	cmd.Flags().IntVarP(&flags.Threshold, "threshold", "t", 0,
		"Minimum name similarity (0-100) to match a student")
	cmd.Flags().IntVarP(&flags.Workers, "workers", "w", 0,
		"Goroutines used for name matching")
	cmd.Flags().StringVar(&flags.Policy, "policy", "",
		"Merge policy: highest-score, keep-primary")
	cmd.Flags().BoolVar(&flags.HomeworkOnly, "homework-only", false,
		"Write only identity and assignment columns")

	return flags
}

// Options returns gradesync options for the flags the user actually set, so
// unset flags leave the loaded settings in effect.
func (f *EngineFlags) Options(cmd *cobra.Command) []gradesync.Option {
	var opts []gradesync.Option
	if cmd.Flags().Changed("threshold") {
		opts = append(opts, gradesync.WithThreshold(f.Threshold))
	}
	if cmd.Flags().Changed("workers") {
		opts = append(opts, gradesync.WithWorkers(f.Workers))
	}
	if cmd.Flags().Changed("policy") {
		opts = append(opts, gradesync.WithPolicy(f.Policy))
	}
	if cmd.Flags().Changed("homework-only") {
		opts = append(opts, gradesync.WithHomeworkOnly(f.HomeworkOnly))
	}
	return opts
}
