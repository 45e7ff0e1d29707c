package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const duckDuckGoEndpoint = "https://api.duckduckgo.com/"

// WebSearch queries the DuckDuckGo instant answer API. Results are best
// effort: the API returns abstracts and related topics, not full web
// results.
type WebSearch struct {
	Client *http.Client
}

// NewWebSearch builds the tool with a bounded-timeout HTTP client.
func NewWebSearch() *WebSearch {
	return &WebSearch{Client: &http.Client{Timeout: 10 * time.Second}}
}

func (t *WebSearch) Name() string { return "web_search" }

func (t *WebSearch) Description() string {
	return "Search the web for information. Returns instant answers and related topics."
}

func (t *WebSearch) Schema() Schema {
	return Schema{
		Properties: map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Search query",
			},
			"max_results": map[string]any{
				"type":        "integer",
				"description": "Maximum number of results (default: 5)",
			},
		},
		Required: []string{"query"},
	}
}

func (t *WebSearch) RequiresConfirmation() bool { return false }

func (t *WebSearch) ConfirmationMessage(args map[string]any) string {
	return fmt.Sprintf("Execute %s?", t.Name())
}

type duckDuckGoResponse struct {
	Abstract      string `json:"Abstract"`
	AbstractURL   string `json:"AbstractURL"`
	Heading       string `json:"Heading"`
	Answer        string `json:"Answer"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

func (t *WebSearch) Execute(ctx context.Context, args map[string]any) Result {
	query := stringArg(args, "query")
	if query == "" {
		return Failf("query is required")
	}
	maxResults := intArg(args, "max_results", 5)

	endpoint := duckDuckGoEndpoint + "?" + url.Values{
		"q":             {query},
		"format":        {"json"},
		"no_redirect":   {"1"},
		"skip_disambig": {"1"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Failf("Build request failed: %v", err)
	}
	resp, err := t.Client.Do(req)
	if err != nil {
		return Failf("Web search failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Failf("Web search failed: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Failf("Read response failed: %v", err)
	}
	var parsed duckDuckGoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Failf("Parse response failed: %v", err)
	}

	var results []map[string]any
	if parsed.Answer != "" {
		results = append(results, map[string]any{"title": "Answer", "snippet": parsed.Answer})
	}
	if parsed.Abstract != "" {
		results = append(results, map[string]any{
			"title":   parsed.Heading,
			"snippet": parsed.Abstract,
			"url":     parsed.AbstractURL,
		})
	}
	for _, topic := range parsed.RelatedTopics {
		if len(results) >= maxResults {
			break
		}
		if topic.Text == "" {
			continue
		}
		results = append(results, map[string]any{
			"title":   truncate(topic.Text, 80),
			"snippet": topic.Text,
			"url":     topic.FirstURL,
		})
	}

	if len(results) == 0 {
		return Okf([]map[string]any{}, "No results for '%s'", query)
	}
	return Okf(results, "Found %d results for '%s'", len(results), query)
}
