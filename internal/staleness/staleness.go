// Package staleness decides which deals have gone quiet. It is pure
// computation over already-fetched email records; no I/O.
package staleness

import (
	"strconv"
	"time"

	"github.com/sneurgaonkar/sales-ai-agents/internal/hubspot"
)

// LastOutbound returns the most recent outbound-send instant across the
// deal's own email history and its company's, with the source that won.
// Ties prefer the deal-level history. ok is false when neither history
// contains a parseable outbound send.
func LastOutbound(dealEmails, companyEmails []hubspot.Email) (last time.Time, source string, ok bool) {
	dealLast, dealOK := latestOutbound(dealEmails)
	companyLast, companyOK := latestOutbound(companyEmails)

	switch {
	case dealOK && companyOK:
		if !dealLast.Before(companyLast) {
			return dealLast, "deal", true
		}
		return companyLast, "company", true
	case dealOK:
		return dealLast, "deal", true
	case companyOK:
		return companyLast, "company", true
	}
	return time.Time{}, "", false
}

func latestOutbound(emails []hubspot.Email) (time.Time, bool) {
	var best time.Time
	found := false
	for _, e := range emails {
		if !e.Outbound() {
			continue
		}
		t, ok := e.SentAt()
		if !ok {
			continue
		}
		if !found || t.After(best) {
			best = t
			found = true
		}
	}
	return best, found
}

// IsStale classifies a deal against the threshold. No outbound email ever
// always counts as stale, regardless of threshold. The boundary is strict:
// a send exactly thresholdDays old is still fresh.
func IsStale(last time.Time, ok bool, now time.Time, thresholdDays int) bool {
	if !ok {
		return true
	}
	return last.Before(now.AddDate(0, 0, -thresholdDays))
}

// Age is the days-since-last-contact value carried into prompts and the
// digest. Known is false when the deal has no outbound history at all.
type Age struct {
	Days  int
	Known bool
}

// AgeSince computes whole days elapsed between the last outbound send and now.
func AgeSince(now, last time.Time, ok bool) Age {
	if !ok {
		return Age{}
	}
	return Age{Days: int(now.Sub(last).Hours() / 24), Known: true}
}

// Display renders the age for humans; unknown ages show the "30+" bucket the
// sales team reads.
func (a Age) Display() string {
	if !a.Known {
		return "30+"
	}
	return strconv.Itoa(a.Days)
}

// VeryCold reports whether the deal has sat quiet for more than 180 days.
// Unknown ages are not very cold; the sentinel is presentation only.
func (a Age) VeryCold() bool {
	return a.Known && a.Days > 180
}
