package strategy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/trademaster/trademaster/internal/core"
)

// Factory builds a fresh strategy instance. Strategies keep per-run state
// set in OnInit, so each backtest gets its own instance.
type Factory func() Strategy

// Registry manages strategy plugins by name.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new strategy registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a strategy factory under name.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Create instantiates the strategy registered under name.
func (r *Registry) Create(name string) (Strategy, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, core.WrapError(core.ErrUnknownStrategy,
			fmt.Errorf("unknown strategy: %s", name))
	}
	return f(), nil
}

// Names returns all registered strategy names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
