package search

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

// Parallel queries the Parallel.AI search MCP endpoint over JSON-RPC.
type Parallel struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewParallel(endpoint, apiKey string, timeout time.Duration) *Parallel {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Parallel{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type parallelRequest struct {
	JSONRPC string         `json:"jsonrpc"`
	Method  string         `json:"method"`
	ID      int            `json:"id"`
	Params  parallelParams `json:"params"`
}

type parallelParams struct {
	Name      string       `json:"name"`
	Arguments parallelArgs `json:"arguments"`
}

type parallelArgs struct {
	Objective     string   `json:"objective"`
	SearchQueries []string `json:"search_queries"`
}

type parallelResponse struct {
	Result *parallelResult `json:"result"`
	Error  *parallelError  `json:"error"`
}

type parallelResult struct {
	Content []parallelBlock `json:"content"`
}

type parallelBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type parallelError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (p *Parallel) Search(ctx context.Context, query string) (string, error) {
	payload := parallelRequest{
		JSONRPC: "2.0",
		Method:  "tools/call",
		ID:      1,
		Params: parallelParams{
			Name: "web_search_preview",
			Arguments: parallelArgs{
				Objective:     fmt.Sprintf("Find detailed information about: %s", query),
				SearchQueries: []string{query},
			},
		},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal parallel request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build parallel request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("parallel request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("parallel status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", fmt.Errorf("read parallel response: %w", err)
	}

	var parsed parallelResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode parallel response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("parallel rpc error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if parsed.Result == nil {
		return "", fmt.Errorf("parallel response has no result")
	}

	var out []string
	for _, block := range parsed.Result.Content {
		if block.Type == "text" && block.Text != "" {
			out = append(out, block.Text)
		}
	}
	return strings.Join(out, "\n\n"), nil
}
