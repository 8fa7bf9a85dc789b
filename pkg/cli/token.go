package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"workshop-feedback/pkg/auth"
)

func newTokenCmd(a *app) *cobra.Command {
	var (
		userID string
		email  string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print an admin bearer token signed with AUTH_JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Auth.JWTSecret == "" {
				return errors.New("AUTH_JWT_SECRET is not set")
			}
			token, err := auth.GenerateToken(a.cfg.Auth.JWTSecret, userID, email, auth.RoleAdmin, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "admin", "user id recorded as workshop creator")
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
