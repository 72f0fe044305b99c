package scraper

import (
	"fmt"
	"strings"

	apperr "github.com/AxelMcKenna/Liquorfy-sub000/pkg/errors"
)

// Registry is the static mapping from chain slug to adapter. Adding a
// chain means registering another adapter, never touching the
// pipeline.
type Registry struct {
	adapters map[string]*Adapter
	order    []string
}

// NewRegistry builds a registry over the given adapters, preserving
// their order for listings
func NewRegistry(adapters ...*Adapter) *Registry {
	r := &Registry{adapters: make(map[string]*Adapter, len(adapters))}
	for _, a := range adapters {
		if _, exists := r.adapters[a.Chain()]; exists {
			continue
		}
		r.adapters[a.Chain()] = a
		r.order = append(r.order, a.Chain())
	}
	return r
}

// Get returns the adapter for a chain slug; unknown slugs error with
// the registered ones listed
func (r *Registry) Get(chain string) (*Adapter, error) {
	a, ok := r.adapters[chain]
	if !ok {
		return nil, apperr.NewConfiguration(
			fmt.Sprintf("unknown chain %q, registered chains: %s", chain, strings.Join(r.order, ", ")), nil)
	}
	return a, nil
}

// Chains lists the registered chain slugs in registration order
func (r *Registry) Chains() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns every registered adapter in registration order
func (r *Registry) All() []*Adapter {
	out := make([]*Adapter, 0, len(r.order))
	for _, chain := range r.order {
		out = append(out, r.adapters[chain])
	}
	return out
}
