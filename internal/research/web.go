package research

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sneurgaonkar/sales-ai-agents/internal/anthropic"
)

const webSearchMaxUses = 3

const newsPromptFmt = `Search for recent news about "%s" related to:
- AI initiatives or investments
- New AI/ML leadership hires (CTO, CDO, VP of AI, etc.)
- Digital transformation projects
- Technology partnerships or vendor selections
- Recent funding, acquisitions, or growth announcements
- Strategic initiatives that might benefit from AI agents

Return a brief, bullet-pointed summary of the most relevant findings for a B2B sales context.
Focus on information that would be useful for selling an AI agent platform.
If no relevant news is found, say so briefly.`

// Researcher looks up recent company intelligence through Claude's hosted
// web-search tool. The tool has to be enabled per organization in the
// Anthropic Console, so a 400 from the API is treated as "not enabled"
// rather than a failure.
type Researcher struct {
	client *anthropic.Client
	logger *slog.Logger
}

func NewResearcher(client *anthropic.Client, logger *slog.Logger) *Researcher {
	return &Researcher{client: client, logger: logger}
}

// CompanyNews searches the web for recent news about a company and returns
// a short bullet summary for sales context. A missing company name
// short-circuits without calling the API.
func (r *Researcher) CompanyNews(ctx context.Context, companyName string) (string, error) {
	if companyName == "" || companyName == "Unknown Company" {
		return "No company name available for web search.", nil
	}

	messages := []anthropic.Message{{Role: "user", Content: fmt.Sprintf(newsPromptFmt, companyName)}}
	tools := []anthropic.Tool{anthropic.WebSearchTool(webSearchMaxUses)}

	text, err := r.client.CompleteWithTools(ctx, messages, tools, 1024)
	if err != nil {
		var apiErr *anthropic.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest {
			r.logger.Warn("web search not enabled for organization", "error", apiErr.Message)
			return "Web search not available: Please enable web search in your Anthropic Console (https://console.anthropic.com/settings/organization/features). Error: " + apiErr.Error(), nil
		}
		return "", fmt.Errorf("company news search: %w", err)
	}

	if text == "" {
		return "No relevant news found.", nil
	}
	return text, nil
}
