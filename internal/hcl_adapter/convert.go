package hcl_adapter

import (
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/policyc/internal/value"
)

// blockToMapping translates one HCL block into the mapping value that forms
// a directive body. A single label becomes the "name" field unless the body
// already sets one.
func (l *Loader) blockToMapping(block *hclsyntax.Block) (value.Value, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	if len(block.Labels) > 1 {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Too many block labels",
			Detail:   fmt.Sprintf("A %q block takes at most one label.", block.Type),
			Subject:  block.LabelRanges[1].Ptr(),
		})
		return value.Value{}, diags
	}

	fields, bodyDiags := l.bodyFields(block.Body)
	diags = append(diags, bodyDiags...)
	if diags.HasErrors() {
		return value.Value{}, diags
	}

	if len(block.Labels) == 1 {
		if _, exists := fields["name"]; !exists {
			fields["name"] = value.String(block.Labels[0]).WithRange(block.LabelRanges[0])
		}
	}

	return value.Mapping(fields).WithRange(block.DefRange()), diags
}

// bodyFields collects a body's attributes and nested blocks into one field
// map. Repeated blocks of the same type collapse into an array, in source
// order.
func (l *Loader) bodyFields(body *hclsyntax.Body) (map[string]value.Value, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	fields := make(map[string]value.Value)

	for name, attr := range body.Attributes {
		v, attrDiags := l.exprToValue(attr.Expr)
		diags = append(diags, attrDiags...)
		if attrDiags.HasErrors() {
			continue
		}
		fields[name] = v
	}

	grouped := make(map[string][]value.Value)
	var order []string
	for _, nested := range body.Blocks {
		if _, attrClash := fields[nested.Type]; attrClash {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate field",
				Detail:   fmt.Sprintf("%q is defined both as an attribute and a block.", nested.Type),
				Subject:  nested.DefRange().Ptr(),
			})
			continue
		}
		mapping, blockDiags := l.blockToMapping(nested)
		diags = append(diags, blockDiags...)
		if blockDiags.HasErrors() {
			continue
		}
		if _, seen := grouped[nested.Type]; !seen {
			order = append(order, nested.Type)
		}
		grouped[nested.Type] = append(grouped[nested.Type], mapping)
	}
	for _, name := range order {
		group := grouped[name]
		if len(group) == 1 {
			fields[name] = group[0]
		} else {
			fields[name] = value.Array(group...).WithRange(group[0].Range())
		}
	}

	return fields, diags
}

// exprToValue evaluates an expression with no evaluation context (literals
// only) and converts the result.
func (l *Loader) exprToValue(expr hclsyntax.Expression) (value.Value, hcl.Diagnostics) {
	ctyVal, diags := expr.Value(nil)
	if diags.HasErrors() {
		return value.Value{}, diags
	}
	return ctyToValue(ctyVal, expr.Range())
}

// ctyToValue converts an evaluated cty value into the resolver's untyped
// tree representation. Numbers that are exactly representable as integers
// become int literals; everything else numeric becomes a double.
func ctyToValue(v cty.Value, rng hcl.Range) (value.Value, hcl.Diagnostics) {
	fail := func(summary, detail string) (value.Value, hcl.Diagnostics) {
		return value.Value{}, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  summary,
			Detail:   detail,
			Subject:  rng.Ptr(),
		}}
	}

	if v.IsNull() {
		return fail("Null value", "Policy fields cannot be null.")
	}
	if !v.IsKnown() {
		return fail("Unknown value", "Policy fields must be literal values.")
	}

	ty := v.Type()
	switch {
	case ty == cty.Bool:
		return value.Bool(v.True()).WithRange(rng), nil

	case ty == cty.Number:
		bf := v.AsBigFloat()
		if i, acc := bf.Int64(); acc == big.Exact {
			return value.Int(i).WithRange(rng), nil
		}
		f, _ := bf.Float64()
		return value.Double(f).WithRange(rng), nil

	case ty == cty.String:
		return value.String(v.AsString()).WithRange(rng), nil

	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		var elems []value.Value
		it := v.ElementIterator()
		for it.Next() {
			_, ev := it.Element()
			converted, diags := ctyToValue(ev, rng)
			if diags.HasErrors() {
				return value.Value{}, diags
			}
			elems = append(elems, converted)
		}
		return value.Array(elems...).WithRange(rng), nil

	case ty.IsObjectType() || ty.IsMapType():
		fields := make(map[string]value.Value)
		for key, ev := range v.AsValueMap() {
			converted, diags := ctyToValue(ev, rng)
			if diags.HasErrors() {
				return value.Value{}, diags
			}
			fields[key] = converted
		}
		return value.Mapping(fields).WithRange(rng), nil

	default:
		return fail("Unsupported value", fmt.Sprintf("Values of type %s cannot appear in a policy file.", ty.FriendlyName()))
	}
}
