package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"crewmatch/internal/domain"
	"crewmatch/internal/observability"
)

// NewDailySummaryCommand creates the daily-summary command, meant to run from a scheduler.
func NewDailySummaryCommand() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "daily-summary",
		Short: "Send the per-city crew digest for tomorrow",
		Long: `Send every crew member staying in a city with other crew the list of cities
and crew counts for tomorrow. Use --date to send the digest for a specific date.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var day time.Time
			if date != "" {
				d, err := time.Parse(time.DateOnly, date)
				if err != nil {
					return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
				}
				day = d
			}

			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, logger, observability.NewMetrics())
			if err != nil {
				return err
			}
			defer a.Close()

			var report *domain.SummaryReport
			if day.IsZero() {
				report, err = a.summary.SendDailySummary(cmd.Context())
			} else {
				report, err = a.summary.SendSummaryForDate(cmd.Context(), day)
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if len(report.Failed) > 0 {
				return fmt.Errorf("%d summary deliveries failed", len(report.Failed))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "stay date to summarize (YYYY-MM-DD); defaults to tomorrow")

	return cmd
}
