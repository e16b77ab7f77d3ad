package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sneurgaonkar/sales-ai-agents/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Check every watched deal and email the digest",
	Long:  "Evaluates all deals in the configured pipeline stages, drafts follow-ups for the\nstale ones, and emails the digest to DIGEST_RECIPIENTS.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.Recipients) == 0 {
			return errors.New("DIGEST_RECIPIENTS is required")
		}

		logger := slog.Default().With("run_id", uuid.NewString())
		p, err := newPipeline(logger)
		if err != nil {
			return err
		}

		logger.Info("follow-up run starting",
			"stages", strings.Join(cfg.TargetStages, ","),
			"threshold_days", cfg.StaleThresholdDays,
			"recipients", len(cfg.Recipients),
		)

		report, err := p.Run(cmd.Context(), pipeline.SelectByStages(cfg.TargetStages), pipeline.Options{Deliver: true})
		if err != nil {
			logger.Error("follow-up run failed", "error", err)
			return err
		}

		fmt.Printf("\n=== Follow-up Summary ===\n")
		fmt.Printf("Deals checked: %d\n", report.DealsChecked)
		fmt.Printf("Need follow-up: %d\n", report.StaleDeals)
		fmt.Printf("Drafts generated: %d\n", len(report.Drafts))
		fmt.Printf("Digest: %s\n", report.SnapshotPath)
		if report.Delivered {
			fmt.Printf("Delivered to: %s\n", strings.Join(cfg.Recipients, ", "))
		} else {
			fmt.Printf("Delivery: skipped (no transport configured)\n")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
