package retrieval

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

// JinaSearchClient calls the Jina search API (s.jina.ai), requesting its
// JSON response mode rather than the Markdown mode so results arrive as
// structured {title, url, content} triples without ad-hoc text parsing.
type JinaSearchClient struct {
	apiKey     string
	topK       int
	httpClient *http.Client
	baseURL    string
}

// NewJinaSearchClient creates a client against the Jina search endpoint.
// topK bounds how many hits are kept per query.
func NewJinaSearchClient(apiKey string, topK int, timeout time.Duration) *JinaSearchClient {
	if topK <= 0 {
		topK = 5
	}
	return &JinaSearchClient{
		apiKey:     apiKey,
		topK:       topK,
		baseURL:    "https://s.jina.ai/",
		httpClient: &http.Client{Timeout: timeout},
	}
}

type jinaResponse struct {
	Data []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"data"`
}

func (c *JinaSearchClient) Search(ctx context.Context, query string) ([]Hit, error) {
	reqURL := c.baseURL + url.PathEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &searchError{query: query, err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Retain-Images", "none")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &searchError{query: query, err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &searchError{query: query, err: fmt.Errorf("rate limited")}
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, &searchError{query: query, err: fmt.Errorf("invalid or missing API key")}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &searchError{query: query, err: fmt.Errorf("status %d: %s", resp.StatusCode, string(body))}
	}

	var parsed jinaResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &searchError{query: query, err: fmt.Errorf("decode response: %w", err)}
	}

	hits := make([]Hit, 0, len(parsed.Data))
	for _, d := range parsed.Data {
		content := strings.TrimSpace(d.Content)
		if len(content) > 1000 {
			content = content[:1000]
		}
		if d.Title == "" || d.URL == "" {
			continue
		}
		hits = append(hits, Hit{Title: d.Title, URL: d.URL, Content: content})
		if len(hits) >= c.topK {
			break
		}
	}
	return hits, nil
}
