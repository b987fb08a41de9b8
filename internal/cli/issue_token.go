package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"crewmatch/internal/adapters/auth"
)

const tokenIssuer = "crewmatch"

// NewIssueTokenCommand creates the issue-token command for operators and local testing.
func NewIssueTokenCommand() *cobra.Command {
	var expiry time.Duration

	cmd := &cobra.Command{
		Use:   "issue-token <crew-id>",
		Short: "Print a bearer token for a crew member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			token, err := auth.NewJWT(cfg.JWTSecret, tokenIssuer).Issue(args[0], expiry)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&expiry, "expiry", 30*24*time.Hour, "token lifetime")

	return cmd
}
