package hooks

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-lazyform/pkg/lazy"
)

// Registry stores final hooks by name so definitions can reference them
// without importing the code that implements them.
type Registry struct {
	mu    sync.RWMutex
	hooks map[string]lazy.FinalHook
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		hooks: make(map[string]lazy.FinalHook),
	}
}

// Register adds hook under name. Duplicate names return an error.
func (r *Registry) Register(name string, hook lazy.FinalHook) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("hooks: hook name is required")
	}
	if hook == nil {
		return fmt.Errorf("hooks: hook %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.hooks[name]; exists {
		return fmt.Errorf("hooks: hook %q already registered", name)
	}
	r.hooks[name] = hook
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, hook lazy.FinalHook) {
	if err := r.Register(name, hook); err != nil {
		panic(err)
	}
}

// Get retrieves a hook by name.
func (r *Registry) Get(name string) (lazy.FinalHook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hook, ok := r.hooks[name]
	if !ok {
		return nil, fmt.Errorf("hooks: hook %q not found", name)
	}
	return hook, nil
}

// List returns a sorted list of hook names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.hooks))
	for name := range r.hooks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a hook is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.hooks[name]
	return ok
}
