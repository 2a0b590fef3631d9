package provider

import "os"

// Env is a credential snapshot: it maps an environment variable name to its
// value at the moment the caller captured it. Injecting it (instead of
// reading ambient process state inside the resolver) keeps availability
// resolution pure and testable.
type Env func(key string) string

// OSEnv returns an Env backed by the live process environment. Because the
// resolver re-reads it on every query, credentials set mid-session in a
// long-running process are observed without invalidation.
func OSEnv() Env {
	return os.Getenv
}

// Info describes one provider's state at query time. It is derived fresh on
// each call and never cached.
type Info struct {
	Provider     Provider
	Available    bool
	DefaultModel string
}

// Resolver computes live provider availability against a credential
// snapshot. It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	env Env
}

// NewResolver creates a Resolver over the given credential snapshot.
// A nil env falls back to the process environment.
func NewResolver(env Env) *Resolver {
	if env == nil {
		env = OSEnv()
	}
	return &Resolver{env: env}
}

// All enumerates every known provider (variants included) with its current
// availability. Pure function of the snapshot; no network I/O.
func (r *Resolver) All() []Info {
	infos := make([]Info, 0, len(order))
	for _, p := range order {
		e := registry[p]
		infos = append(infos, Info{
			Provider:     p,
			Available:    r.env(e.envKey) != "",
			DefaultModel: e.defaultModel,
		})
	}
	return infos
}

// Available filters All to providers whose credential is present.
func (r *Resolver) Available() []Info {
	var infos []Info
	for _, in := range r.All() {
		if in.Available {
			infos = append(infos, in)
		}
	}
	return infos
}

// Info looks up a single provider. The second return is false for
// identifiers outside the closed set; that is an absent result, not an
// error.
func (r *Resolver) Info(p Provider) (Info, bool) {
	e, ok := registry[p]
	if !ok {
		return Info{}, false
	}
	return Info{
		Provider:     p,
		Available:    r.env(e.envKey) != "",
		DefaultModel: e.defaultModel,
	}, true
}

// IsAvailable reports whether p's credential is present. Unrecognized
// identifiers are simply unavailable.
func (r *Resolver) IsAvailable(p Provider) bool {
	in, ok := r.Info(p)
	return ok && in.Available
}
