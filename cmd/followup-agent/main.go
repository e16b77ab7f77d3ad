// Command followup-agent drafts follow-up emails for HubSpot deals that
// have gone quiet and mails them to the sales team as one HTML digest.
package main

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sneurgaonkar/sales-ai-agents/internal/anthropic"
	"github.com/sneurgaonkar/sales-ai-agents/internal/config"
	"github.com/sneurgaonkar/sales-ai-agents/internal/delivery"
	"github.com/sneurgaonkar/sales-ai-agents/internal/drafter"
	"github.com/sneurgaonkar/sales-ai-agents/internal/fireflies"
	"github.com/sneurgaonkar/sales-ai-agents/internal/hubspot"
	"github.com/sneurgaonkar/sales-ai-agents/internal/pipeline"
	"github.com/sneurgaonkar/sales-ai-agents/internal/research"
	"github.com/sneurgaonkar/sales-ai-agents/internal/slack"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:          "followup-agent",
	Short:        "Drafts follow-up emails for stale HubSpot deals",
	Long:         "Checks HubSpot deals in the configured pipeline stages for missing recent outreach,\nresearches each stale deal, drafts personalized follow-up emails, and delivers them\nas a single HTML digest.",
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(func() {
		cfg = config.Load()
		setupLogging(cfg.LogLevel)
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newPipeline wires the full pipeline from config. Slack and Fireflies are
// optional; the CRM and the model are not.
func newPipeline(logger *slog.Logger) (*pipeline.Pipeline, error) {
	if cfg.HubSpotToken == "" {
		return nil, errors.New("HUBSPOT_ACCESS_TOKEN is required")
	}
	if cfg.AnthropicAPIKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY is required")
	}

	crm := hubspot.NewClient(cfg.HubSpotToken, logger)
	llm := anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	logger.Info("anthropic client ready", "model", cfg.AnthropicModel)

	var chat research.ChatSearcher
	if cfg.SlackBotToken != "" {
		chat = slack.NewClient(cfg.SlackBotToken, logger)
		logger.Info("slack search ready", "channels", strings.Join(cfg.SlackChannels, ","))
	} else {
		logger.Warn("slack not configured, drafts will have no internal chat context")
	}

	var calls research.CallSearcher
	if cfg.FirefliesAPIKey != "" {
		calls = fireflies.NewClient(cfg.FirefliesAPIKey, logger)
		logger.Info("fireflies search ready")
	} else {
		logger.Warn("fireflies not configured, drafts will have no call transcripts")
	}

	agg := research.NewAggregator(chat, calls, research.NewResearcher(llm, logger), cfg.SlackChannels, logger)

	return pipeline.New(
		pipeline.Config{ThresholdDays: cfg.StaleThresholdDays, SnapshotDir: cfg.SnapshotDir},
		crm,
		agg,
		drafter.New(llm, logger),
		delivery.NewDispatcher(cfg, logger),
		logger,
	), nil
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
