package responder

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a Responder from configuration.
type Factory func(cfg *Config) (Responder, error)

// Registry maps responder type names to factories. The built-in types
// "demo" and "connect" are registered by NewRegistry. Thread-safe for
// concurrent access.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a Registry holding the built-in responder types.
func NewRegistry() *Registry {
	return &Registry{
		factories: map[string]Factory{
			TypeDemo:    newDemo,
			TypeConnect: newConnect,
		},
	}
}

// Create builds the responder named by cfg.Type.
func (r *Registry) Create(cfg *Config) (Responder, error) {
	r.mu.RLock()
	factory, exists := r.factories[cfg.Type]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, cfg.Type)
	}

	resp, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create responder %q: %w", cfg.Type, err)
	}
	return resp, nil
}

// List returns the registered type names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds a factory under a new type name.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return ErrEmptyType
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s", ErrTypeExists, name)
	}

	r.factories[name] = factory
	return nil
}

// Replace swaps the factory of an existing type name.
func (r *Registry) Replace(name string, factory Factory) error {
	if name == "" {
		return ErrEmptyType
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; !exists {
		return fmt.Errorf("%w: %s", ErrUnknownType, name)
	}

	r.factories[name] = factory
	return nil
}

// Unregister removes a type name.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; !exists {
		return fmt.Errorf("%w: %s", ErrUnknownType, name)
	}

	delete(r.factories, name)
	return nil
}

func newDemo(cfg *Config) (Responder, error) {
	return Demo{Delay: cfg.Delay.Std()}, nil
}

func newConnect(cfg *Config) (Responder, error) {
	if cfg.Address == "" {
		return nil, ErrMissingAddress
	}
	return NewConnectClient(nil, cfg.Address), nil
}
