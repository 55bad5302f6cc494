package provider

import (
	"sort"
	"sync"
)

// Constructor builds a provider from an API key.
type Constructor func(apiKey string) Provider

// Registry maps provider names to constructors, so new backends can be added
// at runtime without touching the orchestration code.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewRegistry returns a registry pre-populated with the built-in providers.
func NewRegistry() *Registry {
	r := &Registry{constructors: make(map[string]Constructor)}
	r.Register("openrouter", NewOpenRouter)
	r.Register("tachyon", NewTachyon)
	r.Register("custom", func(apiKey string) Provider {
		return NewCustom(apiKey, CustomSettings{})
	})
	return r
}

// Register adds a constructor under name. Registration is additive and
// idempotent: re-registering an existing name overwrites it, last write
// wins.
func (r *Registry) Register(name string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[name] = ctor
}

// Create instantiates the named provider with the given API key.
func (r *Registry) Create(name, apiKey string) (Provider, error) {
	r.mu.RLock()
	ctor, ok := r.constructors[name]
	r.mu.RUnlock()
	if !ok {
		return nil, NewError(KindUnknownProvider, "unknown provider %q (registered: %v)", name, r.Names())
	}
	return ctor(apiKey), nil
}

// Names lists the registered provider names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
