package solution

import (
	"fmt"
	"sort"

	"github.com/san-kum/acidbase/internal/chem"
)

// Registry builds solutions by name.
type Registry struct {
	kinds map[string]chem.Kind
	info  map[string]string
}

func NewRegistry() *Registry {
	r := &Registry{
		kinds: make(map[string]chem.Kind),
		info:  make(map[string]string),
	}
	r.register(chem.Water, "pure water, self-ionization")
	r.register(chem.StrongAcid, "HA -> H3O+ + A-, complete")
	r.register(chem.WeakAcid, "HA <-> H3O+ + A-, partial")
	r.register(chem.StrongBase, "MOH -> M+ + OH-, complete")
	r.register(chem.WeakBase, "B <-> BH+ + OH-, partial")
	return r
}

func (r *Registry) register(kind chem.Kind, desc string) {
	r.kinds[kind.String()] = kind
	r.info[kind.String()] = desc
}

// Get returns a fresh solution for name.
func (r *Registry) Get(name string) (*Solution, error) {
	kind, ok := r.kinds[name]
	if !ok {
		return nil, fmt.Errorf("unknown solution: %s", name)
	}
	return New(kind)
}

// Describe returns a one-line description of the named solution.
func (r *Registry) Describe(name string) string {
	return r.info[name]
}

// List returns the registered names in kind order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return r.kinds[names[i]] < r.kinds[names[j]]
	})
	return names
}
