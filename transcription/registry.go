package transcription

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kbukum/mediascribe/logger"
)

// Factory creates a provider from configuration.
type Factory func(cfg Config, log *logger.Logger) (Provider, error)

// Registry manages named provider factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register registers a named factory. A later registration replaces an
// earlier one with the same name.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Create instantiates the provider named by cfg.Backend.
func (r *Registry) Create(cfg Config, log *logger.Logger) (Provider, error) {
	r.mu.RLock()
	factory, ok := r.factories[cfg.Backend]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("transcription backend %q not registered (have %v)", cfg.Backend, r.List())
	}
	return factory(cfg, log)
}

// List returns sorted names of all registered factories.
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
