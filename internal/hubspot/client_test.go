package hubspot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSearchDealsByStage_FollowsPagination(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/crm/v3/objects/deals/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer pat-test" {
			t.Errorf("expected Bearer pat-test, got %q", r.Header.Get("Authorization"))
		}

		body, _ := io.ReadAll(r.Body)
		var payload struct {
			FilterGroups []struct {
				Filters []struct {
					PropertyName string   `json:"propertyName"`
					Operator     string   `json:"operator"`
					Values       []string `json:"values"`
				} `json:"filters"`
			} `json:"filterGroups"`
			Limit int    `json:"limit"`
			After string `json:"after"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("bad request body: %v", err)
		}

		calls++
		if calls == 1 {
			f := payload.FilterGroups[0].Filters[0]
			if f.PropertyName != "dealstage" || f.Operator != "IN" {
				t.Errorf("expected dealstage IN filter, got %+v", f)
			}
			if len(f.Values) != 2 || f.Values[0] != "appointmentscheduled" {
				t.Errorf("unexpected stage values %v", f.Values)
			}
			if payload.Limit != 100 {
				t.Errorf("expected page limit 100, got %d", payload.Limit)
			}
			if payload.After != "" {
				t.Errorf("first page should not carry a cursor, got %q", payload.After)
			}
			fmt.Fprint(w, `{"results":[{"id":"1","properties":{"dealname":"Acme - New"}}],"paging":{"next":{"after":"p2"}}}`)
			return
		}
		if payload.After != "p2" {
			t.Errorf("expected cursor p2, got %q", payload.After)
		}
		fmt.Fprint(w, `{"results":[{"id":"2","properties":{"dealname":"Beta - Renewal"}}]}`)
	}))
	defer server.Close()

	c := NewClient("pat-test", discardLogger())
	c.baseURL = server.URL

	deals, err := c.SearchDealsByStage(context.Background(), []string{"appointmentscheduled", "qualifiedtobuy"}, DealProperties)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 pages fetched, got %d", calls)
	}
	if len(deals) != 2 || deals[0].ID != "1" || deals[1].ID != "2" {
		t.Errorf("expected deals 1,2 in provider order, got %+v", deals)
	}
}

func TestSearchDealsByStage_ErrorStatusIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"status":"error","message":"upstream broke"}`)
	}))
	defer server.Close()

	c := NewClient("pat-test", discardLogger())
	c.baseURL = server.URL

	_, err := c.SearchDealsByStage(context.Background(), []string{"appointmentscheduled"}, nil)
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestSearchDealsByName_UsesLeadingToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload struct {
			FilterGroups []struct {
				Filters []struct {
					PropertyName string `json:"propertyName"`
					Operator     string `json:"operator"`
					Value        string `json:"value"`
				} `json:"filters"`
			} `json:"filterGroups"`
			Limit int `json:"limit"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		f := payload.FilterGroups[0].Filters[0]
		if f.PropertyName != "dealname" || f.Operator != "CONTAINS_TOKEN" {
			t.Errorf("expected dealname CONTAINS_TOKEN filter, got %+v", f)
		}
		if f.Value != "Acme Corp" {
			t.Errorf("expected leading token %q, got %q", "Acme Corp", f.Value)
		}
		if payload.Limit != 10 {
			t.Errorf("expected limit 10, got %d", payload.Limit)
		}
		fmt.Fprint(w, `{"results":[{"id":"9","properties":{"dealname":"Acme Corp - Expansion"}}]}`)
	}))
	defer server.Close()

	c := NewClient("pat-test", discardLogger())
	c.baseURL = server.URL

	deals, err := c.SearchDealsByName(context.Background(), "Acme Corp - Expansion", DealProperties)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deals) != 1 || deals[0].ID != "9" {
		t.Errorf("expected one match, got %+v", deals)
	}
}

func TestDealContacts_BatchReadsAssociatedIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/crm/v4/objects/deals/42/associations/contacts":
			fmt.Fprint(w, `{"results":[{"toObjectId":101},{"toObjectId":102}]}`)
		case "/crm/v3/objects/contacts/batch/read":
			body, _ := io.ReadAll(r.Body)
			var payload struct {
				Inputs []struct {
					ID string `json:"id"`
				} `json:"inputs"`
				Properties []string `json:"properties"`
			}
			json.Unmarshal(body, &payload)
			if len(payload.Inputs) != 2 || payload.Inputs[0].ID != "101" || payload.Inputs[1].ID != "102" {
				t.Errorf("unexpected batch inputs %+v", payload.Inputs)
			}
			if len(payload.Properties) == 0 || payload.Properties[0] != "email" {
				t.Errorf("expected contact properties projection, got %v", payload.Properties)
			}
			fmt.Fprint(w, `{"results":[{"id":"101","properties":{"firstname":"Dana","lastname":"Reyes","email":"dana@acme.test"}},{"id":"102","properties":{"firstname":"Lee"}}]}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := NewClient("pat-test", discardLogger())
	c.baseURL = server.URL

	contacts, err := c.DealContacts(context.Background(), "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(contacts))
	}
	if contacts[0].FullName() != "Dana Reyes" || contacts[0].Email() != "dana@acme.test" {
		t.Errorf("unexpected primary contact %+v", contacts[0])
	}
}

func TestDealContacts_NoAssociations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer server.Close()

	c := NewClient("pat-test", discardLogger())
	c.baseURL = server.URL

	contacts, err := c.DealContacts(context.Background(), "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contacts) != 0 {
		t.Errorf("expected no contacts, got %+v", contacts)
	}
}

func TestDealCompany_FirstAssociationWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/crm/v4/objects/deals/42/associations/companies":
			fmt.Fprint(w, `{"results":[{"toObjectId":7},{"toObjectId":8}]}`)
		case "/crm/v3/objects/companies/7":
			if !strings.Contains(r.URL.RawQuery, "properties=name") {
				t.Errorf("expected properties projection in query, got %q", r.URL.RawQuery)
			}
			fmt.Fprint(w, `{"id":"7","properties":{"name":"Acme Corp","industry":"Logistics"}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := NewClient("pat-test", discardLogger())
	c.baseURL = server.URL

	company, err := c.DealCompany(context.Background(), "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if company == nil || company.Name() != "Acme Corp" {
		t.Errorf("expected Acme Corp, got %+v", company)
	}
}

func TestDealCompany_NoneIsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer server.Close()

	c := NewClient("pat-test", discardLogger())
	c.baseURL = server.URL

	company, err := c.DealCompany(context.Background(), "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if company != nil {
		t.Errorf("expected nil company, got %+v", company)
	}
}

func TestDealEmails_CapsAssociationList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/crm/v3/objects/deals/42/associations/emails":
			var sb strings.Builder
			sb.WriteString(`{"results":[`)
			for i := 0; i < 12; i++ {
				if i > 0 {
					sb.WriteString(",")
				}
				fmt.Fprintf(&sb, `{"id":"%d"}`, 200+i)
			}
			sb.WriteString(`]}`)
			fmt.Fprint(w, sb.String())
		case "/crm/v3/objects/emails/batch/read":
			body, _ := io.ReadAll(r.Body)
			var payload struct {
				Inputs []struct {
					ID string `json:"id"`
				} `json:"inputs"`
			}
			json.Unmarshal(body, &payload)
			if len(payload.Inputs) != 10 {
				t.Errorf("expected email fetch capped at 10, got %d", len(payload.Inputs))
			}
			fmt.Fprint(w, `{"results":[{"id":"200","properties":{"hs_email_status":"SENT","hs_email_subject":"Intro"}}]}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	c := NewClient("pat-test", discardLogger())
	c.baseURL = server.URL

	emails, err := c.DealEmails(context.Background(), "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(emails) != 1 || !emails[0].Sent() {
		t.Errorf("unexpected emails %+v", emails)
	}
}

func TestParseTimestamp(t *testing.T) {
	if got, ok := ParseTimestamp("2024-11-05T12:00:00Z"); !ok || !got.Equal(time.Date(2024, 11, 5, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("ISO parse failed: %v %v", got, ok)
	}
	if got, ok := ParseTimestamp("1730831400000"); !ok || !got.Equal(time.UnixMilli(1730831400000).UTC()) {
		t.Errorf("epoch-millis parse failed: %v %v", got, ok)
	}
	if got, ok := ParseTimestamp("2024-11-05"); !ok || !got.Equal(time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date-only parse failed: %v %v", got, ok)
	}
	if _, ok := ParseTimestamp(""); ok {
		t.Error("empty value should not parse")
	}
	if _, ok := ParseTimestamp("next tuesday"); ok {
		t.Error("garbage should not parse")
	}
}

func TestEmailSentAt_FallsBackToCreateDate(t *testing.T) {
	e := Email{Properties: map[string]string{"hs_createdate": "2024-10-01T08:00:00Z"}}
	got, ok := e.SentAt()
	if !ok || !got.Equal(time.Date(2024, 10, 1, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("expected create-date fallback, got %v %v", got, ok)
	}

	e = Email{Properties: map[string]string{
		"hs_timestamp":  "2024-10-02T08:00:00Z",
		"hs_createdate": "2024-10-01T08:00:00Z",
	}}
	got, _ = e.SentAt()
	if !got.Equal(time.Date(2024, 10, 2, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("expected hs_timestamp preferred, got %v", got)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
