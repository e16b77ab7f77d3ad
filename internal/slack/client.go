package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultSearchURL = "https://slack.com/api/search.messages"
	maxMessageLen    = 500
)

type Message struct {
	Text      string
	User      string
	Channel   string
	Timestamp string
	Permalink string
}

type Client struct {
	token  string
	client *http.Client
	logger *slog.Logger
	apiURL string
}

func NewClient(token string, logger *slog.Logger) *Client {
	return &Client{
		token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
		apiURL: defaultSearchURL,
		logger: logger,
	}
}

// SearchMessages runs a message search scoped to the given channels and
// returns up to limit matches, newest first. A Slack-side "not ok" reply is
// logged and treated as no matches; only transport failures surface as
// errors.
func (c *Client) SearchMessages(ctx context.Context, query string, channels []string, limit int) ([]Message, error) {
	full := query
	for _, ch := range channels {
		full += " in:#" + ch
	}

	params := url.Values{}
	params.Set("query", full)
	params.Set("count", strconv.Itoa(limit))
	params.Set("sort", "timestamp")
	params.Set("sort_dir", "desc")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("slack search: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("slack search: status %d", resp.StatusCode)
	}

	var searchResp struct {
		OK       bool   `json:"ok"`
		Error    string `json:"error"`
		Messages struct {
			Matches []struct {
				Text     string `json:"text"`
				Username string `json:"username"`
				User     string `json:"user"`
				Channel  struct {
					Name string `json:"name"`
				} `json:"channel"`
				TS        string `json:"ts"`
				Permalink string `json:"permalink"`
			} `json:"matches"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(respBody, &searchResp); err != nil {
		return nil, fmt.Errorf("parse slack response: %w", err)
	}

	if !searchResp.OK {
		c.logger.Warn("slack search returned an error", "error", searchResp.Error, "query", query)
		return nil, nil
	}

	matches := searchResp.Messages.Matches
	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]Message, 0, len(matches))
	for _, m := range matches {
		user := m.Username
		if user == "" {
			user = m.User
		}
		if user == "" {
			user = "Unknown"
		}
		channel := m.Channel.Name
		if channel == "" {
			channel = "unknown"
		}
		out = append(out, Message{
			Text:      truncate(m.Text, maxMessageLen),
			User:      user,
			Channel:   channel,
			Timestamp: m.TS,
			Permalink: m.Permalink,
		})
	}
	return out, nil
}

// FormatContext renders messages as one prompt-ready line each.
func FormatContext(messages []Message) string {
	if len(messages) == 0 {
		return "No relevant Slack discussions found."
	}

	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		date := "Unknown date"
		if ts, err := strconv.ParseFloat(m.Timestamp, 64); err == nil {
			date = time.Unix(int64(ts), 0).Format("2006-01-02")
		}
		lines = append(lines, fmt.Sprintf("- [%s] #%s - @%s: %s", date, m.Channel, m.User, m.Text))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
