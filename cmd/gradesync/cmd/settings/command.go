// Package settings provides the settings command.
package settings

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/gradesync/internal/appcontext"
	"github.com/agentstation/gradesync/internal/cmd/output"
)

// NewCommand creates the settings command, which prints the effective
// configuration after defaults, config file, .env files, and environment.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "settings",
		GroupID: "management",
		Short:   "Show the effective reconciliation settings",
		Example: `  gradesync settings
  GRADESYNC_THRESHOLD=90 gradesync settings -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := output.Format(app.OutputFormat())
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), app.Settings())
		},
	}
}
