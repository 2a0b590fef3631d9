// Package api provides the HTTP clients that execute prompts against AI
// providers. All configured backends speak the OpenAI-compatible chat
// completions protocol, so one client implementation serves every provider,
// parameterized by the registry's endpoint and credential metadata. The
// package handles streaming (SSE), retry of transient failures within a
// single provider call, and API-key rotation; choosing a different provider
// after a failure is the command layer's decision, not this package's.
package api

import (
	"context"
	"fmt"

	"github.com/phamducminh/relay-cli/internal/config"
	"github.com/phamducminh/relay-cli/internal/provider"
)

// Request describes one prompt execution.
type Request struct {
	Model           string
	SystemPrompt    string
	UserMessage     string
	MaxTokens       int
	ReasoningEffort string // "low", "medium", "high", or "" for provider default
	WebSearch       bool   // ask the provider to ground the answer in web results
}

// Client executes prompts against a single provider.
type Client interface {
	// Query sends a prompt and returns the complete response.
	Query(ctx context.Context, req Request) (*ChatResponse, error)

	// QueryStream sends a prompt and delivers content fragments to onChunk
	// in arrival order, returning the accumulated response.
	QueryStream(ctx context.Context, req Request, onChunk func(content string)) (*ChatResponse, error)

	// LastUsage returns the token usage of the most recent call.
	LastUsage() Usage

	// Close releases any resources held by the client.
	Close()
}

// Ensure the chat client implements the Client interface.
var _ Client = (*ChatClient)(nil)

// NewClient creates a client for the given provider. It fails when the
// provider's credential is absent; callers normally pre-check availability
// through the resolver, so this guards against races and programmer error.
func NewClient(p provider.Provider, cfg *config.Config) (Client, error) {
	baseURL, err := provider.BaseURL(p)
	if err != nil {
		return nil, err
	}
	envKey, err := provider.EnvKey(p)
	if err != nil {
		return nil, err
	}
	keys, err := cfg.KeysFor(p)
	if err != nil {
		return nil, err
	}
	if !keys.HasKeys() {
		return nil, fmt.Errorf("provider %s is not configured: set %s", p, envKey)
	}
	return NewChatClient(p, baseURL, keys, cfg), nil
}
