// Package cli implements the crewmatch command line.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the crewmatch binary.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crewmatch",
		Short: "Overnight stay inference and cross-crew match notifications",
		Long: `crewmatch turns duty rosters into overnight stays, detects crew members
staying in the same city on the same date and notifies them once per city and date.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewDailySummaryCommand())
	cmd.AddCommand(NewIssueTokenCommand())

	return cmd
}
