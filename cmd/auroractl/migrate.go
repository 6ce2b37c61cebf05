package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/richardprab/auroramart/internal/db"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the embedded schema migrations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				if err := db.Up(cfg.DatabaseURL); err != nil {
					return err
				}
				return printVersion(cmd, cfg.DatabaseURL)
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back the given number of migrations (default 1)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n < 1 {
						return fmt.Errorf("steps must be a positive integer, got %q", args[0])
					}
					steps = n
				}
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				if err := db.Down(cfg.DatabaseURL, steps); err != nil {
					return err
				}
				return printVersion(cmd, cfg.DatabaseURL)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				return printVersion(cmd, cfg.DatabaseURL)
			},
		},
	)
	return cmd
}

func printVersion(cmd *cobra.Command, url string) error {
	version, dirty, err := db.Version(url)
	if err != nil {
		return err
	}
	if dirty {
		cmd.Printf("schema version %d (dirty)\n", version)
		return nil
	}
	cmd.Printf("schema version %d\n", version)
	return nil
}
