// Package pipeline runs one end-to-end evaluation: select deals, gate on
// staleness, gather research, draft follow-ups, render the digest, snapshot
// it, and deliver. The batch run and the single-deal debug run are the same
// pipeline with a different deal selector and options.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sneurgaonkar/sales-ai-agents/internal/digest"
	"github.com/sneurgaonkar/sales-ai-agents/internal/drafter"
	"github.com/sneurgaonkar/sales-ai-agents/internal/hubspot"
	"github.com/sneurgaonkar/sales-ai-agents/internal/research"
	"github.com/sneurgaonkar/sales-ai-agents/internal/staleness"
)

// CRM is the deal-provider surface the pipeline consumes.
type CRM interface {
	SearchDealsByStage(ctx context.Context, stages, properties []string) ([]hubspot.Deal, error)
	SearchDealsByName(ctx context.Context, name string, properties []string) ([]hubspot.Deal, error)
	DealContacts(ctx context.Context, dealID string) ([]hubspot.Contact, error)
	DealCompany(ctx context.Context, dealID string) (*hubspot.Company, error)
	DealEmails(ctx context.Context, dealID string) ([]hubspot.Email, error)
	CompanyEmails(ctx context.Context, companyID string) ([]hubspot.Email, error)
	DealNotes(ctx context.Context, dealID string) ([]hubspot.Note, error)
}

// Drafter generates one follow-up draft per bundle.
type Drafter interface {
	Generate(ctx context.Context, b research.Bundle) (*drafter.Draft, error)
}

// Notifier delivers the rendered digest. It reports false with no error
// when no transport is configured.
type Notifier interface {
	Deliver(ctx context.Context, html string, now time.Time) (bool, error)
}

// Config holds the per-run pipeline settings.
type Config struct {
	ThresholdDays int
	SnapshotDir   string
}

// Options tune a single run.
type Options struct {
	IncludeFresh bool // evaluate deals even when recently contacted (debug runs)
	Deliver      bool // send the digest after snapshotting
}

// Report summarizes one run. Drafts carries the rendered entries so debug
// runs can print them.
type Report struct {
	DealsChecked int
	StaleDeals   int
	Drafts       []digest.Entry
	SnapshotPath string
	Delivered    bool
}

type Pipeline struct {
	cfg      Config
	crm      CRM
	agg      *research.Aggregator
	drafter  Drafter
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func New(cfg Config, crm CRM, agg *research.Aggregator, dr Drafter, n Notifier, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		crm:      crm,
		agg:      agg,
		drafter:  dr,
		notifier: n,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes one evaluation over the deals the selector returns. CRM and
// delivery failures abort the run; per-deal research and draft failures
// only cost that deal its digest entry. The digest is always snapshotted
// to disk before any delivery attempt.
func (p *Pipeline) Run(ctx context.Context, selectDeals SelectFunc, opts Options) (*Report, error) {
	deals, err := selectDeals(ctx, p.crm)
	if err != nil {
		return nil, fmt.Errorf("select deals: %w", err)
	}
	p.logger.Info("deals selected", "count", len(deals))

	report := &Report{DealsChecked: len(deals)}

	// Staleness gate and context gathering. CRM errors are fatal: aborting
	// beats silently undercounting the digest.
	var bundles []research.Bundle
	for _, deal := range deals {
		bundle, needsFollowUp, err := p.evaluate(ctx, deal, opts.IncludeFresh)
		if err != nil {
			return nil, err
		}
		if !needsFollowUp {
			continue
		}
		bundles = append(bundles, bundle)
	}
	report.StaleDeals = len(bundles)
	p.logger.Info("staleness evaluation complete",
		"checked", len(deals),
		"need_follow_up", len(bundles),
	)

	// Draft generation. A model failure skips the deal, not the run.
	var entries []digest.Entry
	for _, b := range bundles {
		draft, err := p.drafter.Generate(ctx, b)
		if err != nil {
			p.logger.Error("draft generation failed, skipping deal", "deal", b.DealName, "error", err)
			continue
		}
		if len(draft.Flags) > 0 {
			p.logger.Warn("draft flagged", "deal", b.DealName, "flags", strings.Join(draft.Flags, "; "))
		}
		p.logger.Info("draft generated", "deal", b.DealName, "subject", draft.Subject)
		entries = append(entries, digest.Entry{Bundle: b, Draft: *draft})
	}
	report.Drafts = entries

	now := p.now()
	html, err := digest.Compose(entries, p.cfg.ThresholdDays, now)
	if err != nil {
		return nil, err
	}
	path, err := digest.Snapshot(p.cfg.SnapshotDir, html, now)
	if err != nil {
		return nil, fmt.Errorf("save digest: %w", err)
	}
	report.SnapshotPath = path
	p.logger.Info("digest saved", "path", path, "drafts", len(entries))

	if opts.Deliver {
		sent, err := p.notifier.Deliver(ctx, html, now)
		if err != nil {
			return nil, fmt.Errorf("deliver digest (saved copy at %s): %w", path, err)
		}
		report.Delivered = sent
		if !sent {
			p.logger.Warn("no email transport configured, digest saved to disk only", "path", path)
		}
	}

	return report, nil
}

// evaluate fetches one deal's email history, applies the staleness gate,
// and gathers the research bundle when the deal needs a follow-up.
func (p *Pipeline) evaluate(ctx context.Context, deal hubspot.Deal, includeFresh bool) (research.Bundle, bool, error) {
	name := deal.Name()
	p.logger.Info("checking deal", "deal", name, "stage", hubspot.StageLabel(deal.Stage()))

	dealEmails, err := p.crm.DealEmails(ctx, deal.ID)
	if err != nil {
		return research.Bundle{}, false, fmt.Errorf("deal %s emails: %w", deal.ID, err)
	}

	company, err := p.crm.DealCompany(ctx, deal.ID)
	if err != nil {
		return research.Bundle{}, false, fmt.Errorf("deal %s company: %w", deal.ID, err)
	}

	var companyEmails []hubspot.Email
	if company != nil {
		companyEmails, err = p.crm.CompanyEmails(ctx, company.ID)
		if err != nil {
			return research.Bundle{}, false, fmt.Errorf("company %s emails: %w", company.ID, err)
		}
	}

	now := p.now()
	last, source, ok := staleness.LastOutbound(dealEmails, companyEmails)
	age := staleness.AgeSince(now, last, ok)
	if ok {
		p.logger.Info("last outbound email", "deal", name, "days_ago", age.Days, "source", source)
	} else {
		p.logger.Info("no outbound email on record", "deal", name)
	}

	if !staleness.IsStale(last, ok, now, p.cfg.ThresholdDays) {
		if !includeFresh {
			p.logger.Info("recently contacted, skipping", "deal", name)
			return research.Bundle{}, false, nil
		}
		p.logger.Info("recently contacted, evaluating anyway", "deal", name)
	}

	contacts, err := p.crm.DealContacts(ctx, deal.ID)
	if err != nil {
		return research.Bundle{}, false, fmt.Errorf("deal %s contacts: %w", deal.ID, err)
	}
	notes, err := p.crm.DealNotes(ctx, deal.ID)
	if err != nil {
		return research.Bundle{}, false, fmt.Errorf("deal %s notes: %w", deal.ID, err)
	}

	bundle := p.agg.Gather(ctx, research.Input{
		Deal:          deal,
		Contacts:      contacts,
		Company:       company,
		DealEmails:    dealEmails,
		CompanyEmails: companyEmails,
		Notes:         notes,
		Age:           age,
	})
	return bundle, true, nil
}
