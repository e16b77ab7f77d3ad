package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL  = "https://api.hubapi.com"
	searchPageLimit = 100
	nameSearchLimit = 10
	emailFetchLimit = 10
	noteFetchLimit  = 5
)

// Property projections requested for each object type.
var (
	DealProperties    = []string{"dealname", "dealstage", "amount", "closedate", "notes_last_contacted", "hs_lastmodifieddate"}
	ContactProperties = []string{"email", "firstname", "lastname", "jobtitle", "company", "notes_last_contacted", "hs_sales_email_last_replied"}
	CompanyProperties = []string{"name", "industry", "numberofemployees", "description", "website"}
	EmailProperties   = []string{"hs_email_subject", "hs_email_status", "hs_email_direction", "hs_timestamp", "hs_email_text", "hs_createdate"}
	NoteProperties    = []string{"hs_note_body", "hs_timestamp", "hs_createdate"}
)

type Client struct {
	token   string
	client  *http.Client
	logger  *slog.Logger
	baseURL string
}

func NewClient(token string, logger *slog.Logger) *Client {
	return &Client{
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultBaseURL,
		logger:  logger,
	}
}

type filter struct {
	PropertyName string   `json:"propertyName"`
	Operator     string   `json:"operator"`
	Value        string   `json:"value,omitempty"`
	Values       []string `json:"values,omitempty"`
}

type filterGroup struct {
	Filters []filter `json:"filters"`
}

type searchRequest struct {
	FilterGroups []filterGroup `json:"filterGroups"`
	Properties   []string      `json:"properties"`
	Limit        int           `json:"limit"`
	After        string        `json:"after,omitempty"`
}

type searchResponse struct {
	Results []Deal `json:"results"`
	Paging  struct {
		Next struct {
			After string `json:"after"`
		} `json:"next"`
	} `json:"paging"`
}

// SearchDealsByStage returns every deal currently in one of the given stages,
// following the cursor pagination until exhausted. Provider order is kept.
func (c *Client) SearchDealsByStage(ctx context.Context, stages, properties []string) ([]Deal, error) {
	var deals []Deal
	after := ""
	for {
		payload := searchRequest{
			FilterGroups: []filterGroup{{Filters: []filter{{
				PropertyName: "dealstage",
				Operator:     "IN",
				Values:       stages,
			}}}},
			Properties: properties,
			Limit:      searchPageLimit,
			After:      after,
		}
		var resp searchResponse
		if err := c.doJSON(ctx, http.MethodPost, "/crm/v3/objects/deals/search", payload, &resp); err != nil {
			return nil, fmt.Errorf("search deals: %w", err)
		}
		deals = append(deals, resp.Results...)
		after = resp.Paging.Next.After
		if after == "" {
			break
		}
		c.logger.Debug("following deal search cursor", "after", after, "fetched", len(deals))
	}
	return deals, nil
}

// SearchDealsByName looks up deals whose name contains the leading token of
// the given name (the part before any " - " suffix).
func (c *Client) SearchDealsByName(ctx context.Context, name string, properties []string) ([]Deal, error) {
	token := strings.TrimSpace(strings.Split(name, " - ")[0])
	payload := searchRequest{
		FilterGroups: []filterGroup{{Filters: []filter{{
			PropertyName: "dealname",
			Operator:     "CONTAINS_TOKEN",
			Value:        token,
		}}}},
		Properties: properties,
		Limit:      nameSearchLimit,
	}
	var resp searchResponse
	if err := c.doJSON(ctx, http.MethodPost, "/crm/v3/objects/deals/search", payload, &resp); err != nil {
		return nil, fmt.Errorf("search deals by name: %w", err)
	}
	return resp.Results, nil
}

// DealContacts returns the contacts associated with a deal, in association
// order.
func (c *Client) DealContacts(ctx context.Context, dealID string) ([]Contact, error) {
	ids, err := c.associationIDs(ctx, "/crm/v4/objects/deals/"+dealID+"/associations/contacts")
	if err != nil {
		return nil, fmt.Errorf("deal contacts: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var out struct {
		Results []Contact `json:"results"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/crm/v3/objects/contacts/batch/read", batchReadRequest{Inputs: batchInputs(ids), Properties: ContactProperties}, &out); err != nil {
		return nil, fmt.Errorf("read contacts: %w", err)
	}
	return out.Results, nil
}

// DealCompany returns the deal's first associated company, or nil when the
// deal has none.
func (c *Client) DealCompany(ctx context.Context, dealID string) (*Company, error) {
	ids, err := c.associationIDs(ctx, "/crm/v4/objects/deals/"+dealID+"/associations/companies")
	if err != nil {
		return nil, fmt.Errorf("deal company: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	path := "/crm/v3/objects/companies/" + ids[0] + "?properties=" + strings.Join(CompanyProperties, "&properties=")
	var company Company
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &company); err != nil {
		return nil, fmt.Errorf("read company: %w", err)
	}
	return &company, nil
}

// DealEmails returns up to the first ten email records associated with a deal.
func (c *Client) DealEmails(ctx context.Context, dealID string) ([]Email, error) {
	return c.associatedEmails(ctx, "deals", dealID)
}

// CompanyEmails returns up to the first ten email records associated with a
// company.
func (c *Client) CompanyEmails(ctx context.Context, companyID string) ([]Email, error) {
	return c.associatedEmails(ctx, "companies", companyID)
}

func (c *Client) associatedEmails(ctx context.Context, objectType, id string) ([]Email, error) {
	ids, err := c.associationIDs(ctx, "/crm/v3/objects/"+objectType+"/"+id+"/associations/emails")
	if err != nil {
		return nil, fmt.Errorf("%s emails: %w", objectType, err)
	}
	if len(ids) > emailFetchLimit {
		ids = ids[:emailFetchLimit]
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var out struct {
		Results []Email `json:"results"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/crm/v3/objects/emails/batch/read", batchReadRequest{Inputs: batchInputs(ids), Properties: EmailProperties}, &out); err != nil {
		return nil, fmt.Errorf("read emails: %w", err)
	}
	return out.Results, nil
}

// DealNotes returns up to the first five notes associated with a deal, in
// association order (not re-sorted by timestamp).
func (c *Client) DealNotes(ctx context.Context, dealID string) ([]Note, error) {
	ids, err := c.associationIDs(ctx, "/crm/v3/objects/deals/"+dealID+"/associations/notes")
	if err != nil {
		return nil, fmt.Errorf("deal notes: %w", err)
	}
	if len(ids) > noteFetchLimit {
		ids = ids[:noteFetchLimit]
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var out struct {
		Results []Note `json:"results"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/crm/v3/objects/notes/batch/read", batchReadRequest{Inputs: batchInputs(ids), Properties: NoteProperties}, &out); err != nil {
		return nil, fmt.Errorf("read notes: %w", err)
	}
	return out.Results, nil
}

// Association listings return either a numeric toObjectId (v4) or a string id
// (v3) per result.
type association struct {
	ToObjectID json.Number `json:"toObjectId"`
	ID         string      `json:"id"`
}

func (a association) objectID() string {
	if s := a.ToObjectID.String(); s != "" {
		return s
	}
	return a.ID
}

func (c *Client) associationIDs(ctx context.Context, path string) ([]string, error) {
	var resp struct {
		Results []association `json:"results"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(resp.Results))
	for _, a := range resp.Results {
		if id := a.objectID(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type batchInput struct {
	ID string `json:"id"`
}

type batchReadRequest struct {
	Inputs     []batchInput `json:"inputs"`
	Properties []string     `json:"properties"`
}

func batchInputs(ids []string) []batchInput {
	inputs := make([]batchInput, len(ids))
	for i, id := range ids {
		inputs[i] = batchInput{ID: id}
	}
	return inputs
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("hubspot call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, trimBody(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

func trimBody(b []byte) string {
	const max = 300
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
