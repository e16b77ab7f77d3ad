// Package drafter turns a research bundle into a follow-up email draft via
// a single stateless model call per deal.
package drafter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sneurgaonkar/sales-ai-agents/internal/anthropic"
	"github.com/sneurgaonkar/sales-ai-agents/internal/research"
)

const draftMaxTokens = 2000

type Drafter struct {
	llm    *anthropic.Client
	logger *slog.Logger
}

func New(llm *anthropic.Client, logger *slog.Logger) *Drafter {
	return &Drafter{llm: llm, logger: logger}
}

// Generate produces a draft for one deal. The model is asked for JSON; when
// the reply is not parseable the raw text becomes the draft body with a
// flag recording the parse failure, so one malformed reply never costs the
// deal its digest entry.
func (d *Drafter) Generate(ctx context.Context, b research.Bundle) (*Draft, error) {
	coldNote := ""
	if b.Age.VeryCold() {
		coldNote = veryColdNote
	}

	prompt := fmt.Sprintf(followupPromptFmt,
		b.DealName,
		b.Stage,
		b.Age.Display(),
		b.ContactName,
		b.ContactTitle,
		b.ContactEmail,
		b.CompanyName,
		b.CompanyIndustry,
		b.CompanySize,
		b.Notes,
		b.LastSubject,
		b.ChatContext,
		b.CallContext,
		b.WebResearch,
		coldNote,
	)

	d.logger.Info("generating follow-up draft",
		"deal", b.DealName,
		"days_since_contact", b.Age.Display(),
		"very_cold", b.Age.VeryCold(),
	)

	raw, err := d.llm.Complete(ctx, "", []anthropic.Message{{Role: "user", Content: prompt}}, draftMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("draft generation: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal([]byte(extractJSON(raw)), &draft); err != nil {
		d.logger.Warn("draft reply was not valid JSON, keeping raw text",
			"deal", b.DealName,
			"error", err,
		)
		return rawDraft(raw), nil
	}

	return &draft, nil
}

// extractJSON pulls the JSON payload out of a reply that may wrap it in a
// fenced code block: fenced-as-json first, then a generic fence, then the
// raw text.
func extractJSON(text string) string {
	if _, after, found := strings.Cut(text, "```json"); found {
		inner, _, _ := strings.Cut(after, "```")
		return strings.TrimSpace(inner)
	}
	if _, after, found := strings.Cut(text, "```"); found {
		inner, _, _ := strings.Cut(after, "```")
		return strings.TrimSpace(inner)
	}
	return strings.TrimSpace(text)
}

func rawDraft(raw string) *Draft {
	return &Draft{
		ResearchSummary: ResearchSummary{
			TheirSituation:         "Unable to parse - see raw response",
			ProblemsBlockers:       "Unknown",
			ApplicableCapabilities: "Unknown",
			SimilarInsights:        "None identified",
		},
		Subject: "Following up on our conversation",
		Body:    raw,
		Flags:   []string{"Failed to parse structured response"},
	}
}
