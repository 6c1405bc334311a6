package schema

import "github.com/vk/policyc/internal/typedesc"

// DirectiveBuilder assembles a Directive through a fluent API. Invariants
// are not checked here; registry.Build calls Directive.Validate on every
// schema it receives and fails startup on the first defect.
type DirectiveBuilder struct {
	d Directive
}

// NewDirective starts building a directive schema with the given name.
func NewDirective(name string) *DirectiveBuilder {
	return &DirectiveBuilder{d: Directive{Name: name}}
}

// Variant appends one accepted argument shape. Order matters: resolution
// tries variants first to last.
func (b *DirectiveBuilder) Variant(v *VariantBuilder) *DirectiveBuilder {
	b.d.Variants = append(b.d.Variants, &v.v)
	return b
}

// Build returns the finished directive schema.
func (b *DirectiveBuilder) Build() *Directive {
	d := b.d
	return &d
}

// VariantBuilder assembles one Variant.
type VariantBuilder struct {
	v Variant
}

// NewVariant starts building a variant. A variant with no fields matches any
// supplied body.
func NewVariant() *VariantBuilder {
	return &VariantBuilder{}
}

// Field appends a required field with its type descriptor.
func (b *VariantBuilder) Field(name string, t typedesc.Type) *VariantBuilder {
	b.v.Fields = append(b.v.Fields, Field{Name: name, Type: t})
	return b
}

// Construct sets the constructor invoked once every field has validated.
func (b *VariantBuilder) Construct(fn Constructor) *VariantBuilder {
	b.v.Construct = fn
	return b
}
