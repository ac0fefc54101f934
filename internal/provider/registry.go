package provider

import (
	"context"
	"log/slog"
)

// Registry holds the process-wide, read-only-after-initialization set of
// registered providers: an explicit value constructed once via
// NewRegistry and passed by reference, never a global singleton.
type Registry struct {
	byName  map[string]Provider
	ordered []Provider
}

// NewRegistry initializes every candidate provider. Initialization
// failure for one provider does not abort startup: it is logged and the
// provider is excluded.
func NewRegistry(ctx context.Context, candidates ...Provider) *Registry {
	r := &Registry{byName: make(map[string]Provider, len(candidates))}

	for _, p := range candidates {
		if err := p.Initialize(ctx); err != nil {
			slog.Warn("provider: initialization failed, excluding", "provider", p.Name(), "error", err)
			continue
		}
		r.byName[p.Name()] = p
		r.ordered = append(r.ordered, p)
	}

	return r
}

// Get returns the registered provider with the given name.
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Len reports how many providers successfully initialized.
func (r *Registry) Len() int {
	return len(r.ordered)
}

// Names returns registered provider names in stable registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.ordered))
	for i, p := range r.ordered {
		names[i] = p.Name()
	}
	return names
}

// Select implements the selection policy:
//  1. a pre-resolved provider id, if given, wins outright;
//  2. else, if the request needs emotion control, prefer a provider
//     reporting SupportsEmotions();
//  3. else, the first registered provider in stable order.
func (r *Registry) Select(preferredID string, needsEmotion bool) (Provider, error) {
	if preferredID != "" {
		if p, ok := r.byName[preferredID]; ok {
			return p, nil
		}
	}

	if needsEmotion {
		for _, p := range r.ordered {
			if p.SupportsEmotions() {
				return p, nil
			}
		}
	}

	if len(r.ordered) == 0 {
		return nil, &NoProviderAvailableError{}
	}

	return r.ordered[0], nil
}
