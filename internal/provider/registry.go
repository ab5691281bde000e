package provider

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrUnknownProvider is returned by Select for a name nothing was registered under.
var ErrUnknownProvider = errors.New("unknown model provider")

// Registry maps provider names to Provider implementations.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider under name, replacing any previous one.
func (r *Registry) Register(name string, p Provider) {
	r.providers[name] = p
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// Select returns the provider registered under name, or an error listing the
// known names.
func (r *Registry) Select(name string) (Provider, error) {
	p, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w %q (registered: %v)", ErrUnknownProvider, name, r.Names())
	}
	return p, nil
}

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.providers))
}
