package config

import (
	"context"
	"sync"
)

// resolverKey is the context key for ConfigResolver
type resolverKey struct{}

// ConfigResolver provides lazy per-root config resolution with caching.
// It loads and merges .gitscan.toml files with the global config on demand.
type ConfigResolver struct {
	global *Config

	mu    sync.Mutex
	cache map[string]*Config // root -> merged config
}

// NewResolver creates a new ConfigResolver backed by the given global config.
func NewResolver(global *Config) *ConfigResolver {
	return &ConfigResolver{
		global: global,
		cache:  make(map[string]*Config),
	}
}

// ConfigForRoot returns the effective config for a search root, merging any
// .gitscan.toml found there with the global config. Results are cached per root.
func (r *ConfigResolver) ConfigForRoot(root string) (*Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.cache[root]; ok {
		return cached, nil
	}

	local, err := LoadLocal(root)
	if err != nil {
		return nil, err
	}

	merged := MergeLocal(r.global, local)
	r.cache[root] = merged
	return merged, nil
}

// SkipForRoot returns the merged skip patterns for root. A root whose
// .gitscan.toml cannot be loaded falls back to the global patterns.
func (r *ConfigResolver) SkipForRoot(root string) []string {
	cfg, err := r.ConfigForRoot(root)
	if err != nil {
		return r.global.Skip
	}
	return cfg.Skip
}

// WithResolver returns a new context with the ConfigResolver stored in it.
func WithResolver(ctx context.Context, r *ConfigResolver) context.Context {
	return context.WithValue(ctx, resolverKey{}, r)
}

// ResolverFromContext returns the ConfigResolver from context.
// Returns nil if no resolver is stored.
func ResolverFromContext(ctx context.Context) *ConfigResolver {
	if r, ok := ctx.Value(resolverKey{}).(*ConfigResolver); ok {
		return r
	}
	return nil
}
