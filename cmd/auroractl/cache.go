package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/richardprab/auroramart/internal/app"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Catalog cache maintenance",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "invalidate [product-id...]",
		Short: "Drop cached product documents and orphan every cached listing",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]uuid.UUID, 0, len(args))
			for _, arg := range args {
				id, err := uuid.Parse(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			infra, err := app.Open(cmd.Context(), cfg, "auroractl")
			if err != nil {
				return err
			}
			defer infra.Close()
			catalog := infra.Services().Catalog
			if len(ids) > 0 {
				if err := catalog.InvalidateProducts(cmd.Context(), ids...); err != nil {
					return err
				}
			} else if err := catalog.Cache.Bump(cmd.Context()); err != nil {
				return err
			}
			cmd.Printf("invalidated %d products and bumped the listing generation\n", len(ids))
			return nil
		},
	})
	return cmd
}
