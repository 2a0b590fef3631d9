package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/phamducminh/relay-cli/internal/config"
	"github.com/phamducminh/relay-cli/internal/constants"
	"github.com/phamducminh/relay-cli/internal/logging"
	"github.com/phamducminh/relay-cli/internal/provider"
)

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
}

// chatRequest is the chat completions wire request.
type chatRequest struct {
	Model            string            `json:"model"`
	Messages         []Message         `json:"messages"`
	MaxTokens        int               `json:"max_tokens,omitempty"`
	Stream           bool              `json:"stream,omitempty"`
	ReasoningEffort  string            `json:"reasoning_effort,omitempty"`
	WebSearchOptions *webSearchOptions `json:"web_search_options,omitempty"`
}

// webSearchOptions enables provider-side web grounding. An empty object
// selects the provider's defaults.
type webSearchOptions struct{}

// Usage represents token usage statistics
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Delta represents streaming delta content
type Delta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// Choice represents a response choice
type Choice struct {
	Index        int     `json:"index"`
	Delta        Delta   `json:"delta,omitempty"`
	Message      Message `json:"message,omitempty"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// ChatResponse represents the API response
type ChatResponse struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// GetContent extracts the content from the response
func (r *ChatResponse) GetContent() string {
	if len(r.Choices) > 0 {
		if r.Choices[0].Message.Content != "" {
			return r.Choices[0].Message.Content
		}
		return r.Choices[0].Delta.Content
	}
	return ""
}

// errorResponse is the provider's error envelope.
type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// APIError represents a provider error with its HTTP status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// ChatClient executes prompts against one OpenAI-compatible provider
// endpoint. A single instance serves one invocation; it is not safe for
// concurrent use because key rotation and usage tracking are unsynchronized.
type ChatClient struct {
	prov       provider.Provider
	baseURL    string
	keys       *config.KeyRotator
	httpClient *http.Client
	lastUsage  Usage
}

// NewChatClient creates a client for the given endpoint and key pool.
func NewChatClient(p provider.Provider, baseURL string, keys *config.KeyRotator, cfg *config.Config) *ChatClient {
	transport := http.DefaultTransport
	if cfg != nil && cfg.Verbose {
		transport = logging.NewLoggingRoundTripper(http.DefaultTransport, logging.DefaultLogger, true)
	}
	return &ChatClient{
		prov:    p,
		baseURL: baseURL,
		keys:    keys,
		httpClient: &http.Client{
			Timeout:   constants.DefaultAPITimeout,
			Transport: transport,
		},
	}
}

// completionsURL builds the full chat completions endpoint URL.
func (c *ChatClient) completionsURL() string {
	return c.baseURL + "/chat/completions"
}

func buildRequest(req Request, stream bool) chatRequest {
	system := req.SystemPrompt
	if system == "" {
		system = constants.DefaultSystemMessage
	}
	return chatRequest{
		Model: req.Model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: req.UserMessage},
		},
		MaxTokens:        req.MaxTokens,
		Stream:           stream,
		ReasoningEffort:  req.ReasoningEffort,
		WebSearchOptions: webSearchOpts(req.WebSearch),
	}
}

func webSearchOpts(enabled bool) *webSearchOptions {
	if !enabled {
		return nil
	}
	return &webSearchOptions{}
}

// Query sends a prompt and returns the complete response (non-streaming).
func (c *ChatClient) Query(ctx context.Context, req Request) (*ChatResponse, error) {
	jsonData, err := json.Marshal(buildRequest(req, false))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	for {
		resp, err := WithRetry(ctx, func() (*ChatResponse, error) {
			return c.doQuery(ctx, jsonData)
		})
		if err != nil {
			if c.rotateIfRejected(err) {
				continue
			}
			return nil, err
		}
		c.lastUsage = resp.Usage
		return resp, nil
	}
}

// QueryStream sends a prompt and streams content fragments to onChunk.
func (c *ChatClient) QueryStream(ctx context.Context, req Request, onChunk func(content string)) (*ChatResponse, error) {
	jsonData, err := json.Marshal(buildRequest(req, true))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	for {
		resp, err := WithStreamRetry(ctx, func() (*http.Response, error) {
			return c.openStream(ctx, jsonData)
		}, onChunk)
		if err != nil {
			if c.rotateIfRejected(err) {
				continue
			}
			return nil, err
		}
		c.lastUsage = resp.Usage
		return resp, nil
	}
}

// LastUsage returns the token usage of the most recent call.
func (c *ChatClient) LastUsage() Usage {
	return c.lastUsage
}

// Close is a no-op; the client holds no background resources.
func (c *ChatClient) Close() {}

// rotateIfRejected advances to the next API key when the provider rejected
// the current one (401/403/429). Returns true when the caller should retry
// with the new key.
func (c *ChatClient) rotateIfRejected(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || !config.ShouldRotateKey(apiErr.StatusCode) {
		return false
	}
	if _, rerr := c.keys.Rotate(); rerr != nil {
		return false
	}
	logging.Debug("rotated API key after rejection", logging.Fields{
		"provider": string(c.prov),
		"status":   apiErr.StatusCode,
	})
	return true
}

func (c *ChatClient) newHTTPRequest(ctx context.Context, jsonData []byte, stream bool) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.completionsURL(), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.keys.CurrentKey())
	req.Header.Set("X-Request-Id", uuid.New().String())
	if stream {
		req.Header.Set("Accept", "text/event-stream")
	}
	return req, nil
}

func (c *ChatClient) doQuery(ctx context.Context, jsonData []byte) (*ChatResponse, error) {
	req, err := c.newHTTPRequest(ctx, jsonData, false)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp.StatusCode, body)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &chatResp, nil
}

func (c *ChatClient) openStream(ctx context.Context, jsonData []byte) (*http.Response, error) {
	req, err := c.newHTTPRequest(ctx, jsonData, true)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, c.apiError(resp.StatusCode, body)
	}
	return resp, nil
}

func (c *ChatClient) apiError(statusCode int, body []byte) *APIError {
	errMsg := fmt.Sprintf("status code %d", statusCode)
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		errMsg = errResp.Error.Message
	}
	return &APIError{
		StatusCode: statusCode,
		Message:    fmt.Sprintf("%s API error: %s", c.prov, errMsg),
	}
}
