// Package constants provides shared constants used across the application
// to avoid circular dependencies between packages.
package constants

import "time"

// Timeout constants used across the application
const (
	// DefaultAPITimeout is the timeout for AI API requests (streaming can take a while)
	DefaultAPITimeout = 120 * time.Second
)

// Application defaults
const (
	DefaultSystemMessage = "Be precise and concise."
	DefaultMaxTokens     = 4096
)
