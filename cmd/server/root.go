package main

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"caregiver-support/internal/config"
)

func newRootCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	var startedAt time.Time
	var correlationID string

	root := &cobra.Command{
		Use:   "caregiver-support",
		Short: "Rule-based triage helper for caregivers",
		Long: `caregiver-support scans a caregiver's description of what is going on,
sorts it into EMERGENCY, URGENT or ROUTINE and suggests practical next steps
together with a notes template to share with a clinician.

It gives non-diagnostic tips only.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			startedAt = time.Now()
			correlationID = uuid.NewString()
			logger.Debug("command start",
				"command", cmd.CommandPath(),
				"correlation_id", correlationID,
			)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Debug("command end",
				"command", cmd.CommandPath(),
				"correlation_id", correlationID,
				"duration_ms", time.Since(startedAt).Milliseconds(),
			)
		},
	}

	root.AddCommand(
		newServeCmd(cfg, logger),
		newClassifyCmd(cfg, logger),
		newNotesCmd(),
		newRulesCmd(cfg, logger),
		newDBCmd(cfg, logger),
	)
	return root
}
