package hubspot

import (
	"strconv"
	"strings"
	"time"
)

// CRM objects arrive as an id plus a flat property bag; every property value
// is a string on the wire.

type Deal struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

func (d Deal) Name() string {
	return propOr(d.Properties, "dealname", "Unknown Deal")
}

func (d Deal) Stage() string {
	return d.Properties["dealstage"]
}

type Contact struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

func (c Contact) FullName() string {
	name := strings.TrimSpace(c.Properties["firstname"] + " " + c.Properties["lastname"])
	if name == "" {
		return "Unknown"
	}
	return name
}

func (c Contact) Email() string {
	return propOr(c.Properties, "email", "No email")
}

func (c Contact) Title() string {
	return propOr(c.Properties, "jobtitle", "Unknown")
}

type Company struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

func (c Company) Name() string {
	return propOr(c.Properties, "name", "Unknown Company")
}

func (c Company) Industry() string {
	return propOr(c.Properties, "industry", "Unknown")
}

func (c Company) Employees() string {
	return propOr(c.Properties, "numberofemployees", "Unknown")
}

type Email struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

// Sent reports whether the record's delivery status is SENT. The last-subject
// scan keys off this alone.
func (e Email) Sent() bool {
	return e.Properties["hs_email_status"] == "SENT"
}

// Outbound reports whether the record counts as an outbound send for
// staleness purposes: status SENT or direction EMAIL.
func (e Email) Outbound() bool {
	return e.Sent() || e.Properties["hs_email_direction"] == "EMAIL"
}

func (e Email) Subject() string {
	return propOr(e.Properties, "hs_email_subject", "No subject")
}

// SentAt returns the send time, falling back to the create time when the
// dedicated send timestamp is missing or unparseable.
func (e Email) SentAt() (time.Time, bool) {
	if t, ok := ParseTimestamp(e.Properties["hs_timestamp"]); ok {
		return t, true
	}
	return ParseTimestamp(e.Properties["hs_createdate"])
}

type Note struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

func (n Note) Body() string {
	return n.Properties["hs_note_body"]
}

// ParseTimestamp normalizes a CRM timestamp property. Values arrive either as
// ISO-8601 strings (with or without a time component) or as epoch
// milliseconds rendered as digits.
func ParseTimestamp(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t.UTC(), true
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), true
	}
	return time.Time{}, false
}

func propOr(props map[string]string, key, fallback string) string {
	if v := props[key]; v != "" {
		return v
	}
	return fallback
}
