package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"caregiver-support/internal/catalog"
	"caregiver-support/internal/config"
	"caregiver-support/internal/core"
	"caregiver-support/internal/db"
)

func newDBCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the PostgreSQL rule catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the rule tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := openDB(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer conn.Close()
			logger.Info("migrations applied")
			return nil
		},
	})

	var file string
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Replace the stored rules with the built-in rules or a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			specs := core.DefaultRules()
			if file != "" {
				var err error
				if specs, err = catalog.LoadFile(file); err != nil {
					return err
				}
			}
			if _, err := core.Compile(specs); err != nil {
				return err
			}
			conn, err := openDB(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := db.NewRuleRepository(conn).SeedRules(cmd.Context(), specs); err != nil {
				return fmt.Errorf("seed rules: %w", err)
			}
			logger.Info("rules seeded",
				"emergency", len(specs.Emergency),
				"urgent", len(specs.Urgent),
				"topics", len(specs.Topics),
			)
			return nil
		},
	}
	seed.Flags().StringVarP(&file, "file", "f", "", "YAML rule catalog to seed instead of the built-in rules")
	cmd.AddCommand(seed)
	return cmd
}
