// Package version provides the version command.
package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/gradesync/internal/appcontext"
	"github.com/agentstation/gradesync/internal/cmd/globals"
	"github.com/agentstation/gradesync/internal/cmd/output"
)

// Info is the structured version output.
type Info struct {
	appcontext.BuildInfo `yaml:",inline"`
	GoVersion            string `json:"go_version" yaml:"go_version"`
	Platform             string `json:"platform" yaml:"platform"`
}

// NewCommand creates the version command. It prints plain text unless an
// output format is requested explicitly.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		GroupID: "management",
		Short:   "Show version information",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := Info{
				BuildInfo: app.Build(),
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}

			w := cmd.OutOrStdout()
			if globals.Parse(cmd).Output != "" {
				if format := output.Format(app.OutputFormat()); !format.IsTable() {
					return output.NewFormatter(format).Format(w, info)
				}
			}
			_, err := fmt.Fprintf(w, "gradesync version %s\ncommit: %s\nbuilt: %s\nbuilt by: %s\ngo version: %s\nplatform: %s\n",
				info.Version, info.Commit, info.Date, info.BuiltBy, info.GoVersion, info.Platform)
			return err
		},
	}
}
