// Package digest renders the run's drafts into one self-contained HTML
// email and snapshots it to disk.
package digest

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/sneurgaonkar/sales-ai-agents/internal/drafter"
	"github.com/sneurgaonkar/sales-ai-agents/internal/research"
)

// Entry pairs a research bundle with its generated draft for rendering.
type Entry struct {
	Bundle research.Bundle
	Draft  drafter.Draft
}

type digestData struct {
	Date          string
	Count         int
	ThresholdDays int
	Cards         []card
}

type card struct {
	DealName      string
	Stage         string
	ContactName   string
	ContactEmail  string
	CompanyName   string
	DaysSince     string
	Research      *researchView
	Flags         []string
	Subject       string
	Body          string
	TalkingPoints []string
}

// researchView holds display-ready research rows. Call, Internal, and Web
// are empty when the row should be omitted.
type researchView struct {
	Situation    string
	Problems     string
	Call         string
	Internal     string
	Web          string
	Capabilities string
	Similar      string
}

var digestTmpl = template.Must(template.New("digest").Parse(digestTemplate))

// Compose renders the digest for the run. Every draft field has a string
// fallback, so any well-formed entry list renders without error.
func Compose(entries []Entry, thresholdDays int, now time.Time) (string, error) {
	data := digestData{
		Date:          now.Format("January 02, 2006 at 03:04 PM"),
		Count:         len(entries),
		ThresholdDays: thresholdDays,
		Cards:         make([]card, 0, len(entries)),
	}

	for _, e := range entries {
		data.Cards = append(data.Cards, card{
			DealName:      e.Bundle.DealName,
			Stage:         e.Bundle.Stage,
			ContactName:   e.Bundle.ContactName,
			ContactEmail:  e.Bundle.ContactEmail,
			CompanyName:   e.Bundle.CompanyName,
			DaysSince:     e.Bundle.Age.Display(),
			Research:      researchRows(e.Draft.ResearchSummary),
			Flags:         e.Draft.Flags,
			Subject:       orDefault(e.Draft.Subject, "Follow-up"),
			Body:          e.Draft.Body,
			TalkingPoints: e.Draft.TalkingPoints,
		})
	}

	var buf strings.Builder
	if err := digestTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return buf.String(), nil
}

// researchRows maps a summary to its display rows, or nil when the model
// returned no summary at all. The call, internal, and web rows only render
// when the model had something to say.
func researchRows(rs drafter.ResearchSummary) *researchView {
	if rs == (drafter.ResearchSummary{}) {
		return nil
	}
	return &researchView{
		Situation:    orDefault(rs.TheirSituation, "N/A"),
		Problems:     orDefault(rs.ProblemsBlockers, "N/A"),
		Call:         optionalRow(rs.CallInsights),
		Internal:     optionalRow(rs.InternalInsights),
		Web:          optionalRow(rs.WebInsights),
		Capabilities: orDefault(rs.ApplicableCapabilities, "N/A"),
		Similar:      orDefault(rs.SimilarInsights, "N/A"),
	}
}

func optionalRow(v string) string {
	if v == "" || v == "N/A" {
		return ""
	}
	return v
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
