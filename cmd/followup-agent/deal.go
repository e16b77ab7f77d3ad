package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sneurgaonkar/sales-ai-agents/internal/drafter"
	"github.com/sneurgaonkar/sales-ai-agents/internal/pipeline"
)

var dealCmd = &cobra.Command{
	Use:   "deal [name]",
	Short: "Run the pipeline against a single deal and print the draft",
	Long:  "Looks up one deal by name, drafts a follow-up even if it was contacted recently,\nand prints the draft instead of emailing it. Useful for prompt and integration\ndebugging.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := cfg.TestDealName
		if len(args) > 0 {
			name = args[0]
		}
		if name == "" {
			return errors.New("deal name required: pass it as an argument or set TEST_DEAL_NAME")
		}

		logger := slog.Default().With("run_id", uuid.NewString())
		p, err := newPipeline(logger)
		if err != nil {
			return err
		}

		logger.Info("single-deal run starting", "deal", name)

		report, err := p.Run(cmd.Context(), pipeline.SelectByName(name), pipeline.Options{IncludeFresh: true, Deliver: false})
		if err != nil {
			logger.Error("single-deal run failed", "error", err)
			return err
		}
		if len(report.Drafts) == 0 {
			return fmt.Errorf("no draft generated for %q, see the log for the failing step", name)
		}

		printDraft(report.Drafts[0].Draft)
		fmt.Printf("\nDigest: %s\n", report.SnapshotPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dealCmd)
}

func printDraft(d drafter.Draft) {
	rule := strings.Repeat("=", 60)
	fmt.Printf("\n%s\n📧 GENERATED EMAIL\n%s\n", rule, rule)

	fmt.Printf("\n📋 RESEARCH SUMMARY:\n")
	for _, row := range []struct{ key, value string }{
		{"their_situation", d.ResearchSummary.TheirSituation},
		{"problems_blockers", d.ResearchSummary.ProblemsBlockers},
		{"call_insights", d.ResearchSummary.CallInsights},
		{"internal_insights", d.ResearchSummary.InternalInsights},
		{"web_insights", d.ResearchSummary.WebInsights},
		{"applicable_capabilities", d.ResearchSummary.ApplicableCapabilities},
		{"similar_insights", d.ResearchSummary.SimilarInsights},
	} {
		if row.value != "" {
			fmt.Printf("   %s: %s\n", row.key, row.value)
		}
	}

	fmt.Printf("\n📝 SUBJECT: %s\n", d.Subject)
	fmt.Printf("\n📄 BODY:\n%s\n", d.Body)

	if len(d.TalkingPoints) > 0 {
		fmt.Printf("\n💡 TALKING POINTS:\n")
		for _, point := range d.TalkingPoints {
			fmt.Printf("   • %s\n", point)
		}
	}
	if len(d.Flags) > 0 {
		fmt.Printf("\n⚠️ FLAGS:\n")
		for _, flag := range d.Flags {
			fmt.Printf("   • %s\n", flag)
		}
	}
	fmt.Printf("\n%s\n", rule)
}
