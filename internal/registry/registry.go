package registry

import (
	"fmt"
	"sort"

	"github.com/vk/policyc/internal/schema"
)

// Registry holds the directive schemas for a single application instance.
// It is read-only after Build returns.
type Registry struct {
	directives map[string]*schema.Directive
}

// Build validates every schema and assembles the registry. It returns a
// *schema.Error for any authoring defect: a duplicate directive name, an
// empty variant list, duplicate field names within a variant, or a composite
// type descriptor missing its element type. Callers must treat a non-nil
// error as fatal.
func Build(schemas ...*schema.Directive) (*Registry, error) {
	reg := &Registry{directives: make(map[string]*schema.Directive, len(schemas))}
	for _, d := range schemas {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, exists := reg.directives[d.Name]; exists {
			return nil, &schema.Error{
				Directive: d.Name,
				Detail:    fmt.Sprintf("directive %q registered twice", d.Name),
			}
		}
		reg.directives[d.Name] = d
	}
	return reg, nil
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (*schema.Directive, bool) {
	d, ok := r.directives[name]
	return d, ok
}

// Names returns every registered directive name in sorted order, used for
// deterministic listings and did-you-mean suggestions.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.directives))
	for name := range r.directives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports how many directives are registered.
func (r *Registry) Len() int {
	return len(r.directives)
}
