package fireflies

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const defaultAPIURL = "https://api.fireflies.ai/graphql"

const transcriptsQuery = `query TranscriptsByTitle($title: String!, $limit: Int) {
    transcripts(title: $title, limit: $limit) {
        id
        title
        date
        duration
        summary {
            overview
            action_items
            keywords
        }
    }
}`

type Summary struct {
	Overview    string   `json:"overview"`
	ActionItems []string `json:"action_items"`
	Keywords    []string `json:"keywords"`
}

// Transcript is a summarized meeting record. Date stays raw because the API
// returns it as either an epoch number or an ISO string.
type Transcript struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Date     json.RawMessage `json:"date"`
	Duration float64         `json:"duration"`
	Summary  Summary         `json:"summary"`
}

type Client struct {
	apiKey string
	client *http.Client
	logger *slog.Logger
	apiURL string
}

func NewClient(apiKey string, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
		apiURL: defaultAPIURL,
		logger: logger,
	}
}

// SearchByTitle finds meeting transcripts whose title matches the term.
// GraphQL-level errors are logged and treated as no matches; transport
// failures surface as errors.
func (c *Client) SearchByTitle(ctx context.Context, term string, limit int) ([]Transcript, error) {
	payload, err := json.Marshal(map[string]any{
		"query": transcriptsQuery,
		"variables": map[string]any{
			"title": term,
			"limit": limit,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fireflies call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fireflies call: status %d", resp.StatusCode)
	}

	var gqlResp struct {
		Data struct {
			Transcripts []Transcript `json:"transcripts"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return nil, fmt.Errorf("parse fireflies response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		c.logger.Warn("fireflies query returned errors", "error", gqlResp.Errors[0].Message, "term", term)
		return nil, nil
	}
	return gqlResp.Data.Transcripts, nil
}

// FormatContext renders transcripts as prompt-ready blocks.
func FormatContext(transcripts []Transcript) string {
	if len(transcripts) == 0 {
		return "No call transcripts found for this contact."
	}

	blocks := make([]string, 0, len(transcripts))
	for _, tr := range transcripts {
		title := tr.Title
		if title == "" {
			title = "Untitled Meeting"
		}
		mins := 0
		if tr.Duration > 0 {
			mins = int(math.Round(tr.Duration / 60))
		}
		overview := tr.Summary.Overview
		if overview == "" {
			overview = "No summary available"
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "📞 **%s** (%s, %d mins)\n", title, formatDate(tr.Date), mins)
		if r := []rune(overview); len(r) > 500 {
			fmt.Fprintf(&sb, "   Summary: %s...\n", string(r[:500]))
		} else {
			fmt.Fprintf(&sb, "   Summary: %s\n", overview)
		}
		if items := tr.Summary.ActionItems; len(items) > 0 {
			if len(items) > 5 {
				items = items[:5]
			}
			fmt.Fprintf(&sb, "   Action Items: %s\n", strings.Join(items, ", "))
		}
		if kws := tr.Summary.Keywords; len(kws) > 0 {
			if len(kws) > 10 {
				kws = kws[:10]
			}
			fmt.Fprintf(&sb, "   Keywords: %s\n", strings.Join(kws, ", "))
		}
		blocks = append(blocks, sb.String())
	}
	return strings.Join(blocks, "\n")
}

// formatDate handles the three shapes the API sends: epoch seconds or
// milliseconds (numbers past 1e12 are milliseconds), ISO-8601 strings, and
// anything else falls back to the raw value.
func formatDate(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return "Unknown date"
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		sec := n
		if n > 1e12 {
			sec = n / 1000
		}
		return time.Unix(int64(sec), 0).Format("2006-01-02")
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if t, err := time.Parse(time.RFC3339, str); err == nil {
			return t.Format("2006-01-02")
		}
		if str == "" {
			return "Unknown date"
		}
		return str
	}
	return s
}
