// Package research assembles the context bundle for a stale deal: CRM notes
// and email history plus internal chat, call transcripts, and web
// intelligence from whichever integrations are configured.
package research

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sneurgaonkar/sales-ai-agents/internal/fireflies"
	"github.com/sneurgaonkar/sales-ai-agents/internal/hubspot"
	"github.com/sneurgaonkar/sales-ai-agents/internal/slack"
	"github.com/sneurgaonkar/sales-ai-agents/internal/staleness"
)

const (
	maxNotes        = 3
	noteBodyLimit   = 500
	maxSearchTerms  = 2 // keep under Slack search rate limits
	messagesPerTerm = 5
	maxChatMessages = 10
	transcriptLimit = 5
)

// ChatSearcher searches internal chat for messages mentioning a term.
type ChatSearcher interface {
	SearchMessages(ctx context.Context, query string, channels []string, limit int) ([]slack.Message, error)
}

// CallSearcher finds recorded call transcripts whose titles mention a term.
type CallSearcher interface {
	SearchByTitle(ctx context.Context, term string, limit int) ([]fireflies.Transcript, error)
}

// WebResearcher summarizes recent public news about a company.
type WebResearcher interface {
	CompanyNews(ctx context.Context, companyName string) (string, error)
}

// Input is the CRM state for one deal, fetched ahead of aggregation.
type Input struct {
	Deal          hubspot.Deal
	Contacts      []hubspot.Contact
	Company       *hubspot.Company
	DealEmails    []hubspot.Email
	CompanyEmails []hubspot.Email
	Notes         []hubspot.Note
	Age           staleness.Age
}

// Bundle is everything the drafter needs to know about one deal.
type Bundle struct {
	DealID          string
	DealName        string
	Stage           string
	Age             staleness.Age
	ContactName     string
	ContactEmail    string
	ContactTitle    string
	CompanyName     string
	CompanyIndustry string
	CompanySize     string
	Notes           string
	LastSubject     string
	ChatContext     string
	CallContext     string
	WebResearch     string
}

// Aggregator gathers research context for deals that need a follow-up.
// The chat, call, and web searchers are optional; a nil searcher leaves
// its placeholder text in the bundle.
type Aggregator struct {
	chat     ChatSearcher
	calls    CallSearcher
	web      WebResearcher
	channels []string
	logger   *slog.Logger
}

func NewAggregator(chat ChatSearcher, calls CallSearcher, web WebResearcher, channels []string, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		chat:     chat,
		calls:    calls,
		web:      web,
		channels: channels,
		logger:   logger,
	}
}

// Gather assembles the full context bundle for one deal. Integration
// failures are recoverable: each search degrades to placeholder text so a
// single bad lookup never drops the deal from the digest.
func (a *Aggregator) Gather(ctx context.Context, in Input) Bundle {
	var contact hubspot.Contact
	if len(in.Contacts) > 0 {
		contact = in.Contacts[0]
	}

	var company hubspot.Company
	if in.Company != nil {
		company = *in.Company
	}
	// Searches key off the raw CRM value: a missing company name skips the
	// lookup instead of searching for the display fallback.
	rawCompany := company.Properties["name"]

	return Bundle{
		DealID:          in.Deal.ID,
		DealName:        in.Deal.Name(),
		Stage:           hubspot.StageLabel(in.Deal.Stage()),
		Age:             in.Age,
		ContactName:     contact.FullName(),
		ContactEmail:    contact.Email(),
		ContactTitle:    contact.Title(),
		CompanyName:     company.Name(),
		CompanyIndustry: company.Industry(),
		CompanySize:     company.Employees(),
		Notes:           notesText(in.Notes),
		LastSubject:     lastSentSubject(in.DealEmails, in.CompanyEmails),
		ChatContext:     a.chatContext(ctx, rawCompany, in.Deal.Name(), contact.FullName()),
		CallContext:     a.callContext(ctx, rawCompany),
		WebResearch:     a.webResearch(ctx, rawCompany),
	}
}

// notesText joins the most recent note bodies, truncated, for prompt context.
func notesText(notes []hubspot.Note) string {
	if len(notes) > maxNotes {
		notes = notes[:maxNotes]
	}
	parts := make([]string, 0, len(notes))
	for _, n := range notes {
		parts = append(parts, truncate(n.Body(), noteBodyLimit))
	}
	joined := strings.Join(parts, "\n")
	if joined == "" {
		return "No notes available"
	}
	return joined
}

// lastSentSubject returns the subject of the first SENT email in deal-then-
// company order as the CRM returned it, not the newest by timestamp.
func lastSentSubject(dealEmails, companyEmails []hubspot.Email) string {
	for _, e := range dealEmails {
		if e.Sent() {
			return e.Subject()
		}
	}
	for _, e := range companyEmails {
		if e.Sent() {
			return e.Subject()
		}
	}
	return "No previous emails"
}

func (a *Aggregator) chatContext(ctx context.Context, companyName, dealName, contactName string) string {
	if a.chat == nil {
		return "Slack integration not enabled."
	}

	var found []slack.Message
	for _, term := range searchTerms(companyName, dealName, contactName) {
		msgs, err := a.chat.SearchMessages(ctx, term, a.channels, messagesPerTerm)
		if err != nil {
			a.logger.Warn("slack search failed", "term", term, "error", err)
			continue
		}
		found = append(found, msgs...)
	}

	unique := dedupeByPermalink(found)
	if len(unique) > maxChatMessages {
		unique = unique[:maxChatMessages]
	}
	if len(unique) > 0 {
		a.logger.Info("found internal chat context", "deal", dealName, "messages", len(unique))
	}
	return slack.FormatContext(unique)
}

func (a *Aggregator) callContext(ctx context.Context, companyName string) string {
	if a.calls == nil || companyName == "" || companyName == "Unknown Company" {
		return "Fireflies integration not enabled."
	}

	transcripts, err := a.calls.SearchByTitle(ctx, companyName, transcriptLimit)
	if err != nil {
		a.logger.Warn("fireflies search failed", "company", companyName, "error", err)
		return fmt.Sprintf("Fireflies search failed: %v", err)
	}
	if len(transcripts) == 0 {
		return "No call transcripts found for this account."
	}

	a.logger.Info("found call transcripts", "company", companyName, "count", len(transcripts))
	return fireflies.FormatContext(transcripts)
}

func (a *Aggregator) webResearch(ctx context.Context, companyName string) string {
	if a.web == nil || companyName == "" || companyName == "Unknown Company" {
		return "Web search not performed."
	}

	news, err := a.web.CompanyNews(ctx, companyName)
	if err != nil {
		a.logger.Warn("web search failed", "company", companyName, "error", err)
		return fmt.Sprintf("Web search failed: %v", err)
	}
	return news
}

// searchTerms picks at most two chat search terms from the company, deal,
// and contact names, skipping empty and unknown values.
func searchTerms(companyName, dealName, contactName string) []string {
	var terms []string
	for _, t := range []string{companyName, dealName, contactName} {
		if t != "" && t != "Unknown" {
			terms = append(terms, t)
		}
	}
	if len(terms) > maxSearchTerms {
		terms = terms[:maxSearchTerms]
	}
	return terms
}

// dedupeByPermalink drops repeat messages surfaced by overlapping search
// terms, keeping the first occurrence.
func dedupeByPermalink(msgs []slack.Message) []slack.Message {
	seen := make(map[string]bool, len(msgs))
	var unique []slack.Message
	for _, m := range msgs {
		if seen[m.Permalink] {
			continue
		}
		seen[m.Permalink] = true
		unique = append(unique, m)
	}
	return unique
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
