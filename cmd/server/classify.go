package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"caregiver-support/internal/catalog"
	"caregiver-support/internal/config"
	"caregiver-support/internal/core"
)

func newClassifyCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "classify [description...]",
		Short: "Generate a support plan for a description",
		Long: `Generate a support plan for a description given as arguments, or read
from standard input when no arguments are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read description: %w", err)
				}
				text = string(data)
			}
			rules, err := loadRuleset(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			plan := core.NewClassifier(rules).Classify(text)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(plan)
			}
			_, err = io.WriteString(out, core.FormatPlan(plan))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan as JSON")
	return cmd
}

func newNotesCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Print an empty notes template stamped with the current time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			notes := core.NewNotesTemplate()
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(notes)
			}
			_, err := io.WriteString(out, core.FormatNotes(notes))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the template as JSON")
	return cmd
}

func newRulesCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the loaded rule catalog as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := loadRuleset(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			return catalog.Encode(cmd.OutOrStdout(), rules.Specs())
		},
	}
}
