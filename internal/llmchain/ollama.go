package llmchain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// defaultLLMTimeout is used when the caller passes a non-positive timeout.
const defaultLLMTimeout = 60 * time.Second

// OllamaChatClient calls a local Ollama chat model.
type OllamaChatClient struct {
	baseURL    string
	model      string
	timeout    time.Duration
	httpClient *http.Client
}

func NewOllamaChatClient(baseURL, model string, timeout time.Duration) *OllamaChatClient {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if timeout <= 0 {
		timeout = defaultLLMTimeout
	}
	return &OllamaChatClient{
		baseURL: baseURL,
		model:   model,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout + 5*time.Second,
		},
	}
}

type ollamaChatRequest struct {
	Model     string              `json:"model"`
	Messages  []ollamaChatMessage `json:"messages"`
	Stream    bool                `json:"stream"`
	KeepAlive string              `json:"keep_alive,omitempty"`
}

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

func (c *OllamaChatClient) Chat(ctx context.Context, messages []Message) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqMessages := make([]ollamaChatMessage, len(messages))
	for i, m := range messages {
		reqMessages[i] = ollamaChatMessage{Role: m.Role, Content: m.Content}
	}
	body, err := json.Marshal(ollamaChatRequest{
		Model:     c.model,
		Messages:  reqMessages,
		Stream:    false,
		KeepAlive: "72h",
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat client: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ollama chat client: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama chat client: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &RateLimitError{Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))}
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("ollama chat client: status %d: %s", resp.StatusCode, string(respBody))
	}

	var result ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("ollama chat client: decode response: %w", err)
	}
	return result.Message.Content, nil
}
