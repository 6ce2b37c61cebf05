package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/richardprab/auroramart/internal/auth"
)

// newTokenCmd mints a bearer token signed with the configured secret, for
// local testing against the api.
func newTokenCmd() *cobra.Command {
	var (
		customer string
		roles    []string
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed access token for a customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			id := uuid.New()
			if strings.TrimSpace(customer) != "" {
				if id, err = uuid.Parse(customer); err != nil {
					return err
				}
			}
			token, err := auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience).Issue(id, roles, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&customer, "customer", "", "customer id (random when empty)")
	cmd.Flags().StringSliceVar(&roles, "role", nil, "role claim, repeatable (e.g. --role admin)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
