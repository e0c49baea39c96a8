package tools

import (
	"fmt"
	"sort"
	"sync"

	"github.com/inkwell-ai/inkwell/internal/inkwell/pkg/errno"
)

// Registry is a thread-safe name → ToolDefinition map. It is populated
// during process init and treated as read-only for the process lifetime;
// no invocation may mutate it.
type Registry struct {
	mu       sync.RWMutex
	registry map[string]ToolDefinition
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{registry: make(map[string]ToolDefinition)}
}

// Register adds a tool definition. Registering a duplicate name or a nil
// handler is an error.
func (r *Registry) Register(def ToolDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("tool name must not be empty")
	}
	if def.Handler == nil {
		return fmt.Errorf("tool %q has a nil handler", def.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.registry[def.Name]; ok {
		return fmt.Errorf("tool %q is already registered", def.Name)
	}
	r.registry[def.Name] = def
	return nil
}

// MustRegister panics on registration failure. Intended for process-init
// wiring of the builtin set.
func (r *Registry) MustRegister(def ToolDefinition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Has reports whether a tool name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.registry[name]
	return ok
}

// Get returns the definition for a tool name.
func (r *Registry) Get(name string) (ToolDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.registry[name]
	if !ok {
		return ToolDefinition{}, fmt.Errorf("tool %q: %w", name, errno.ErrToolNotFound)
	}
	return def, nil
}

// Resolve looks up every name, failing on the first unknown one.
func (r *Registry) Resolve(names []string) ([]ToolDefinition, error) {
	defs := make([]ToolDefinition, 0, len(names))
	for _, name := range names {
		def, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.registry))
	for name := range r.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all definitions, sorted by name.
func (r *Registry) All() []ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]ToolDefinition, 0, len(r.registry))
	for _, def := range r.registry {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.registry)
}
