package main

import (
	"github.com/spf13/cobra"

	"github.com/richardprab/auroramart/internal/config"
)

// loadConfig is swapped in tests.
var loadConfig = config.Load

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "auroractl",
		Short:         "AuroraMart operator tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(), newSeedCmd(), newCacheCmd(), newTokenCmd())
	return root
}
