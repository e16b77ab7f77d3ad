package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

type Config struct {
	Recipients         []string
	FromEmail          string
	TargetStages       []string
	StaleThresholdDays int
	SlackChannels      []string
	LogLevel           string

	HubSpotToken    string
	AnthropicAPIKey string
	AnthropicModel  string
	SlackBotToken   string
	FirefliesAPIKey string

	SendGridAPIKey string
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string
	SMTPFrom       string

	SnapshotDir  string
	TestDealName string
}

// Load reads configuration from the environment, after loading a .env file
// if one is present in the working directory.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Recipients:         envList("DIGEST_RECIPIENTS", nil),
		FromEmail:          envStr("FROM_EMAIL", "sales-agent@yourcompany.com"),
		TargetStages:       envList("TARGET_STAGES", []string{"appointmentscheduled", "qualifiedtobuy"}),
		StaleThresholdDays: envInt("STALE_THRESHOLD_DAYS", 14),
		SlackChannels:      envList("SLACK_CHANNELS", []string{"sales", "marketing"}),
		LogLevel:           envStr("LOG_LEVEL", "info"),
		HubSpotToken:       envStr("HUBSPOT_ACCESS_TOKEN", ""),
		AnthropicAPIKey:    envStr("ANTHROPIC_API_KEY", ""),
		AnthropicModel:     envStr("FOLLOWUP_MODEL", "claude-sonnet-4-5-20250929"),
		SlackBotToken:      envStr("SLACK_BOT_TOKEN", ""),
		FirefliesAPIKey:    envStr("FIREFLIES_API_KEY", ""),
		SendGridAPIKey:     envStr("SENDGRID_API_KEY", ""),
		SMTPHost:           envStr("SMTP_HOST", ""),
		SMTPPort:           envInt("SMTP_PORT", 587),
		SMTPUser:           envStr("SMTP_USER", ""),
		SMTPPassword:       envStr("SMTP_PASSWORD", ""),
		SMTPFrom:           envStr("SMTP_FROM_EMAIL", ""),
		SnapshotDir:        envStr("SNAPSHOT_DIR", filepath.Join(xdg.StateHome, "followup-agent")),
		TestDealName:       envStr("TEST_DEAL_NAME", ""),
	}

	// SMTP sender falls back to the SMTP login when not set separately.
	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUser
	}

	return cfg
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
