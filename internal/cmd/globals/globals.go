// Package globals holds the persistent flags every gradesync command shares.
package globals

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/gradesync/internal/cmd/alerts"
)

// Flag names.
const (
	FlagOutput  = "output"
	FlagQuiet   = "quiet"
	FlagVerbose = "verbose"
	FlagNoColor = "no-color"
)

// Flags are the parsed persistent flags.
type Flags struct {
	Output  string
	Quiet   bool
	Verbose bool
	NoColor bool
}

// AddFlags registers the persistent flags on the root command. --format is a
// hidden alias of --output.
func AddFlags(root *cobra.Command) *Flags {
	f := &Flags{}
	pf := root.PersistentFlags()

	pf.StringVarP(&f.Output, FlagOutput, "o", "", "Output format: table, wide, json, yaml")
	pf.StringVar(&f.Output, "format", "", "")
	_ = pf.MarkHidden("format")
	pf.BoolVarP(&f.Quiet, FlagQuiet, "q", false, "Print only tables and problems")
	pf.BoolVarP(&f.Verbose, FlagVerbose, "v", false, "Debug logging")
	pf.BoolVar(&f.NoColor, FlagNoColor, false, "Disable colored output")

	return f
}

// Parse reads the persistent flags as seen by cmd.
func Parse(cmd *cobra.Command) *Flags {
	pf := cmd.Root().PersistentFlags()
	f := &Flags{}
	f.Output, _ = pf.GetString(FlagOutput)
	f.Quiet, _ = pf.GetBool(FlagQuiet)
	f.Verbose, _ = pf.GetBool(FlagVerbose)
	f.NoColor, _ = pf.GetBool(FlagNoColor)
	return f
}

// Alerts returns an alert writer honoring --no-color.
func (f *Flags) Alerts(w io.Writer) *alerts.Writer {
	return alerts.NewWriter(w, f.NoColor)
}
