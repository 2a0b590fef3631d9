package route

import (
	"fmt"
	"strings"

	"github.com/phamducminh/relay-cli/internal/logging"
	"github.com/phamducminh/relay-cli/internal/provider"
)

// Next returns the most preferred available provider for task, or, when
// current is non-empty, the next available provider strictly after current's
// first occurrence in the preference list. Providers before and including
// current are excluded outright, not merely deprioritized.
//
// If current does not appear in the list at all, the scan starts at the head,
// the same as when current is empty. (Callers passing a provider obtained
// from an earlier Next call never hit this case; it only matters for
// explicit --provider overrides outside the list.)
//
// The second return is false when no listed provider is available — that is
// option exhaustion, not an error, and the caller owns the user-facing
// message. ErrUnknownTask is returned for tasks with no preference list.
//
// Selection is deterministic: for a fixed credential snapshot the same
// (task, current) pair always yields the same provider.
func Next(res *provider.Resolver, task Task, current provider.Provider) (provider.Provider, bool, error) {
	prefs, ok := preferences[task]
	if !ok {
		return "", false, fmt.Errorf("%w: %q", ErrUnknownTask, task)
	}

	start := 0
	if current != "" {
		for i, p := range prefs {
			if p == current {
				start = i + 1
				break
			}
		}
	}

	for _, p := range prefs[start:] {
		if res.IsAvailable(p) {
			return p, true, nil
		}
		envKey, _ := provider.EnvKey(p)
		logging.Debug("skipping unavailable provider", logging.Fields{
			"task":     string(task),
			"provider": string(p),
			"env":      envKey,
		})
	}
	return "", false, nil
}

// Describe renders the availability of every provider in task's preference
// list, one line per provider, for user-facing fatal and exhaustion
// messages. Users should be able to see which credential is missing without
// reading logs.
func Describe(res *provider.Resolver, task Task) (string, error) {
	prefs, ok := preferences[task]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTask, task)
	}

	var sb strings.Builder
	for _, p := range prefs {
		envKey, _ := provider.EnvKey(p)
		state := "unavailable (set " + envKey + ")"
		if res.IsAvailable(p) {
			state = "available"
		}
		fmt.Fprintf(&sb, "  %-14s %s\n", p, state)
	}
	return sb.String(), nil
}
