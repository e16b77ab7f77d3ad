package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const sendGridURL = "https://api.sendgrid.com/v3/mail/send"

const senderName = "Follow-up Agent"

// SendGrid delivers mail through the SendGrid v3 send API.
type SendGrid struct {
	apiKey string
	from   string
	client *http.Client
	apiURL string
}

func NewSendGrid(apiKey, from string) *SendGrid {
	return &SendGrid{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: 30 * time.Second},
		apiURL: sendGridURL,
	}
}

type sgAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sgPersonalization struct {
	To []sgAddress `json:"to"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sgRequest struct {
	Personalizations []sgPersonalization `json:"personalizations"`
	From             sgAddress           `json:"from"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
}

func (s *SendGrid) Send(ctx context.Context, recipients []string, subject, html string) error {
	to := make([]sgAddress, 0, len(recipients))
	for _, r := range recipients {
		to = append(to, sgAddress{Email: r})
	}

	body, err := json.Marshal(sgRequest{
		Personalizations: []sgPersonalization{{To: to}},
		From:             sgAddress{Email: s.from, Name: senderName},
		Subject:          subject,
		Content:          []sgContent{{Type: "text/html", Value: html}},
	})
	if err != nil {
		return fmt.Errorf("marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, trimBody(respBody))
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
