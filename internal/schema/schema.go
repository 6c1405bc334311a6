// Package schema defines the declarative model of the configuration
// language: which directives exist, what argument shapes (variants) each
// accepts, and what type every argument must have. Schemas are pure data,
// built once at startup through the builder API in builder.go and never
// mutated afterward.
package schema

import (
	"fmt"

	"github.com/vk/policyc/internal/policy"
	"github.com/vk/policyc/internal/typedesc"
)

// Constructor turns a completed name→value mapping of validated fields into
// a domain object. Constructors must be pure: same input, same output.
type Constructor func(fields map[string]any) (policy.Object, error)

// Field pairs an argument name with the type its value must satisfy.
type Field struct {
	Name string
	Type typedesc.Type
}

// Variant is one accepted argument shape for a directive: an ordered list of
// required fields plus an optional constructor. A nil constructor means the
// variant exists for validation only and the resolver returns the validated
// field mapping itself.
type Variant struct {
	Fields    []Field
	Construct Constructor
}

// FieldNamed returns the variant's field with the given name.
func (v *Variant) FieldNamed(name string) (Field, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Directive is a named configuration directive together with its accepted
// variants. Variants are tried in declaration order during resolution; the
// first structural-and-type match wins, so authors list the most specific
// shape first.
type Directive struct {
	Name     string
	Variants []*Variant
}

// Error is the fatal startup-only class of schema authoring defects:
// duplicate registrations, empty variant lists, duplicate field names, or a
// composite type descriptor without an element type. It never results from
// user configuration.
type Error struct {
	Directive string
	Detail    string
}

func (e *Error) Error() string {
	if e.Directive == "" {
		return "schema definition error: " + e.Detail
	}
	return fmt.Sprintf("schema definition error in directive %q: %s", e.Directive, e.Detail)
}

// Validate checks the directive's construction-time invariants. It is called
// by registry.Build; a non-nil result must abort startup.
func (d *Directive) Validate() error {
	if d.Name == "" {
		return &Error{Detail: "directive name must not be empty"}
	}
	if len(d.Variants) == 0 {
		return &Error{Directive: d.Name, Detail: "at least one variant is required"}
	}
	for vi, variant := range d.Variants {
		seen := make(map[string]struct{}, len(variant.Fields))
		for _, field := range variant.Fields {
			if field.Name == "" {
				return &Error{Directive: d.Name, Detail: fmt.Sprintf("variant %d declares a field with an empty name", vi)}
			}
			if _, dup := seen[field.Name]; dup {
				return &Error{Directive: d.Name, Detail: fmt.Sprintf("variant %d declares field %q twice", vi, field.Name)}
			}
			seen[field.Name] = struct{}{}
			if err := validateType(field.Type); err != nil {
				return &Error{Directive: d.Name, Detail: fmt.Sprintf("variant %d field %q: %v", vi, field.Name, err)}
			}
		}
	}
	return nil
}

// validateType rejects descriptors that must never appear in a shipped
// schema: the Unknown placeholder, and composites whose element type is
// missing or itself invalid.
func validateType(t typedesc.Type) error {
	switch t.Kind() {
	case typedesc.KindUnknown:
		return fmt.Errorf("type 'any' is a placeholder and cannot be used in a schema")
	case typedesc.KindArray, typedesc.KindMap:
		elem, ok := t.Elem()
		if !ok {
			return fmt.Errorf("composite type %s is missing its element type", t.FriendlyName())
		}
		return validateType(elem)
	default:
		return nil
	}
}
