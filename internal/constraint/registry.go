// internal/constraint/registry.go
//
// The registry owns the ordered lens catalog for a run and decides which
// subset of lenses a council of size n receives.

package constraint

import (
	"fmt"
	"math/rand"
	"strings"
)

// Registry holds an ordered, read-only lens catalog plus the random source
// used to pick optional lenses. The source is injected so tests can seed it.
type Registry struct {
	lenses []Lens
	rng    *rand.Rand
}

// NewRegistry validates the catalog and wires it to a random source.
// Lens names must be non-empty and unique; order is preserved.
func NewRegistry(lenses []Lens, rng *rand.Rand) (*Registry, error) {
	if len(lenses) == 0 {
		return nil, fmt.Errorf("constraint: catalog is empty")
	}
	if rng == nil {
		return nil, fmt.Errorf("constraint: random source is required")
	}
	seen := make(map[string]struct{}, len(lenses))
	for i, lens := range lenses {
		name := strings.TrimSpace(lens.Name)
		if name == "" {
			return nil, fmt.Errorf("constraint: lens %d has no name", i)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("constraint: duplicate lens %q", name)
		}
		seen[name] = struct{}{}
	}
	catalog := make([]Lens, len(lenses))
	copy(catalog, lenses)
	return &Registry{lenses: catalog, rng: rng}, nil
}

// Len reports the catalog size.
func (r *Registry) Len() int {
	return len(r.lenses)
}

// Mandatory returns the mandatory lenses in catalog order.
func (r *Registry) Mandatory() []Lens {
	var out []Lens
	for _, lens := range r.lenses {
		if lens.Mandatory {
			out = append(out, lens)
		}
	}
	return out
}

// Select picks the lenses for a council of size n. The full mandatory set
// always comes first, in catalog order. If n exceeds the mandatory count the
// remainder is filled from a uniform shuffle of the optional lenses. No lens
// appears twice. When n is smaller than the mandatory count the mandatory
// set is still returned whole, so the selection can be larger than n.
func (r *Registry) Select(n int) []Lens {
	selected := r.Mandatory()
	if n <= len(selected) {
		return selected
	}

	var optional []Lens
	for _, lens := range r.lenses {
		if !lens.Mandatory {
			optional = append(optional, lens)
		}
	}
	r.rng.Shuffle(len(optional), func(i, j int) {
		optional[i], optional[j] = optional[j], optional[i]
	})

	remaining := n - len(selected)
	if remaining > len(optional) {
		remaining = len(optional)
	}
	return append(selected, optional[:remaining]...)
}
