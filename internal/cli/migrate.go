package cli

import (
	"github.com/spf13/cobra"

	"crewmatch/internal/repository/postgres"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cmd.Context(), cfg.DBUrl)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			logger.Info("schema applied")
			return nil
		},
	}
}
