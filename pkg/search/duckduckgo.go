package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	duckDuckGoEndpoint = "https://api.duckduckgo.com/"
	maxResults         = 5
)

// DuckDuckGo queries the DuckDuckGo instant-answer API. No key required.
type DuckDuckGo struct {
	endpoint   string
	httpClient *http.Client
}

func NewDuckDuckGo(timeout time.Duration) *DuckDuckGo {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &DuckDuckGo{
		endpoint: duckDuckGoEndpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type ddgResponse struct {
	Heading       string     `json:"Heading"`
	AbstractText  string     `json:"AbstractText"`
	AbstractURL   string     `json:"AbstractURL"`
	RelatedTopics []ddgTopic `json:"RelatedTopics"`
}

type ddgTopic struct {
	Text     string     `json:"Text"`
	FirstURL string     `json:"FirstURL"`
	Topics   []ddgTopic `json:"Topics"`
}

func (d *DuckDuckGo) Search(ctx context.Context, query string) (string, error) {
	endpoint := d.endpoint + "?" + url.Values{
		"q":             {query},
		"format":        {"json"},
		"no_redirect":   {"1"},
		"skip_disambig": {"1"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build duckduckgo request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("duckduckgo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("duckduckgo status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", fmt.Errorf("read duckduckgo response: %w", err)
	}

	var parsed ddgResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode duckduckgo response: %w", err)
	}

	blocks := formatDDG(parsed)
	if len(blocks) == 0 {
		return "No results found.", nil
	}
	return strings.Join(blocks, "\n---\n"), nil
}

func formatDDG(parsed ddgResponse) []string {
	var blocks []string
	if strings.TrimSpace(parsed.AbstractText) != "" {
		blocks = append(blocks, formatResult(parsed.Heading, parsed.AbstractURL, parsed.AbstractText))
	}

	for _, topic := range flattenTopics(parsed.RelatedTopics) {
		if len(blocks) >= maxResults {
			break
		}
		if strings.TrimSpace(topic.Text) == "" || topic.FirstURL == "" {
			continue
		}
		title := topic.Text
		if idx := strings.Index(title, " - "); idx > 0 {
			title = title[:idx]
		}
		blocks = append(blocks, formatResult(title, topic.FirstURL, topic.Text))
	}
	return blocks
}

func flattenTopics(topics []ddgTopic) []ddgTopic {
	var flat []ddgTopic
	for _, t := range topics {
		if len(t.Topics) > 0 {
			flat = append(flat, flattenTopics(t.Topics)...)
			continue
		}
		flat = append(flat, t)
	}
	return flat
}

func formatResult(title, link, summary string) string {
	if strings.TrimSpace(title) == "" {
		title = "No Title"
	}
	return fmt.Sprintf("Title: %s\nURL: %s\nSummary: %s\n", title, link, summary)
}
