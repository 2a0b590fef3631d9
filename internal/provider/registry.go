// Package provider defines the closed set of AI backends the CLI can route
// tasks to, along with their static metadata (default model, credential
// environment variable, API endpoint) and live availability resolution.
package provider

import (
	"errors"
	"fmt"
)

// Provider identifies a backend integration. The set is closed: every valid
// value is declared below, and lookups for anything else fail.
type Provider string

const (
	OpenAI Provider = "openai"
	Gemini Provider = "gemini"
	Apizh  Provider = "apizh"

	// Variants of apizh. They share APIZH_API_KEY but default to models
	// tuned for different purposes.
	ApizhCost   Provider = "apizh-cost"   // cost-optimized
	ApizhReason Provider = "apizh-reason" // reasoning-optimized
)

// ErrUnknownProvider is returned for identifiers outside the closed set.
var ErrUnknownProvider = errors.New("unknown provider")

// entry holds the static defaults for a known provider.
type entry struct {
	defaultModel string
	envKey       string
	baseURL      string
	variantOf    Provider // empty for base providers
}

// registry maps provider identifiers to their static defaults.
// Variants never introduce new credentials: their envKey always matches
// the base provider's.
var registry = map[Provider]entry{
	OpenAI: {
		defaultModel: "gpt-4.1",
		envKey:       "OPENAI_API_KEY",
		baseURL:      "https://api.openai.com/v1",
	},
	Gemini: {
		defaultModel: "gemini-2.5-flash",
		envKey:       "GEMINI_API_KEY",
		baseURL:      "https://generativelanguage.googleapis.com/v1beta/openai",
	},
	Apizh: {
		defaultModel: "deepseek-v3",
		envKey:       "APIZH_API_KEY",
		baseURL:      "https://api.apizh.com/v1",
	},
	ApizhCost: {
		defaultModel: "deepseek-v3-lite",
		envKey:       "APIZH_API_KEY",
		baseURL:      "https://api.apizh.com/v1",
		variantOf:    Apizh,
	},
	ApizhReason: {
		defaultModel: "deepseek-r1",
		envKey:       "APIZH_API_KEY",
		baseURL:      "https://api.apizh.com/v1",
		variantOf:    Apizh,
	},
}

// order fixes the enumeration order for All and for user-facing listings.
var order = []Provider{OpenAI, Gemini, Apizh, ApizhCost, ApizhReason}

// All returns every known provider, including variants, in registry order.
func All() []Provider {
	out := make([]Provider, len(order))
	copy(out, order)
	return out
}

// Known reports whether p is in the closed provider set.
func Known(p Provider) bool {
	_, ok := registry[p]
	return ok
}

// Parse validates a user-supplied provider name.
func Parse(s string) (Provider, error) {
	p := Provider(s)
	if !Known(p) {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
	}
	return p, nil
}

// DefaultModel returns the model used when the caller does not override it.
// An unknown identifier is a programmer error surfaced as ErrUnknownProvider.
func DefaultModel(p Provider) (string, error) {
	e, ok := registry[p]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, p)
	}
	return e.defaultModel, nil
}

// EnvKey returns the environment variable whose presence marks p as
// available. Variants report their base provider's key.
func EnvKey(p Provider) (string, error) {
	e, ok := registry[p]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, p)
	}
	return e.envKey, nil
}

// BaseURL returns the chat-completions endpoint root for p.
func BaseURL(p Provider) (string, error) {
	e, ok := registry[p]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, p)
	}
	return e.baseURL, nil
}

// VariantOf returns the base provider p specializes, or p itself when it is
// a base provider.
func VariantOf(p Provider) Provider {
	if e, ok := registry[p]; ok && e.variantOf != "" {
		return e.variantOf
	}
	return p
}
