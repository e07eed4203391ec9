package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultAnthropicEndpoint = "https://api.anthropic.com/v1/messages"
	DefaultAnthropicModel    = "claude-sonnet-4-20250514"
	DefaultMaxTokens         = 1000

	anthropicVersion = "2023-06-01"
)

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// AnthropicClient вызывает Messages API. Без APIKey запрос уходит без
// заголовков авторизации.
type AnthropicClient struct {
	Endpoint  string
	Model     string
	MaxTokens int
	APIKey    string
	HTTP      *http.Client
}

// NewAnthropicClient creates a client with the default endpoint and model
// for any empty argument.
func NewAnthropicClient(endpoint, model string, maxTokens int, apiKey string, timeout time.Duration) *AnthropicClient {
	if endpoint == "" {
		endpoint = DefaultAnthropicEndpoint
	}
	if model == "" {
		model = DefaultAnthropicModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &AnthropicClient{
		Endpoint:  endpoint,
		Model:     model,
		MaxTokens: maxTokens,
		APIKey:    apiKey,
		HTTP:      &http.Client{Timeout: timeout},
	}
}

func (c *AnthropicClient) Provider() string { return "anthropic" }

func (c *AnthropicClient) Translate(ctx context.Context, req Request) (string, error) {
	req = normalize(req)

	body, err := json.Marshal(messagesRequest{
		Model:     c.Model,
		MaxTokens: c.MaxTokens,
		Messages:  []message{{Role: "user", Content: Prompt(req)}},
	})
	if err != nil {
		return "", c.fail(KindDecode, 0, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", c.fail(KindTransport, 0, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		httpReq.Header.Set("x-api-key", c.APIKey)
		httpReq.Header.Set("anthropic-version", anthropicVersion)
	}

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return "", c.fail(KindTransport, 0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.fail(KindTransport, resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", c.fail(KindStatus, resp.StatusCode, errors.New(strings.TrimSpace(string(raw))))
	}

	var out messagesResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", c.fail(KindDecode, resp.StatusCode, err)
	}
	if len(out.Content) == 0 || strings.TrimSpace(out.Content[0].Text) == "" {
		return "", c.fail(KindEmpty, resp.StatusCode, nil)
	}
	return out.Content[0].Text, nil
}

func (c *AnthropicClient) fail(kind Kind, status int, err error) error {
	return &Error{Kind: kind, Provider: c.Provider(), Status: status, Err: err}
}
