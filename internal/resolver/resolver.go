package resolver

import (
	"fmt"
	"sort"

	"github.com/agext/levenshtein"
	str2duration "github.com/xhit/go-str2duration/v2"

	"github.com/vk/policyc/internal/fieldpath"
	"github.com/vk/policyc/internal/registry"
	"github.com/vk/policyc/internal/typedesc"
	"github.com/vk/policyc/internal/value"
)

// maxDepth is a defensive bound on nesting. Parser output is finite and
// acyclic by construction, so hitting it indicates pathological input.
const maxDepth = 64

// Options control the resolver's policy choices.
type Options struct {
	// Strict turns supplied fields that no variant declares into errors.
	// The default treats a variant's field list as a minimum shape and
	// ignores extras.
	Strict bool
}

// Resolver validates untyped configuration trees against the directive
// registry and constructs the typed domain objects. It holds no mutable
// state; one Resolver may serve concurrent validations.
type Resolver struct {
	reg  *registry.Registry
	opts Options
}

// New creates a resolver bound to an immutable registry.
func New(reg *registry.Registry, opts Options) *Resolver {
	return &Resolver{reg: reg, opts: opts}
}

// Resolve validates the body of one directive and constructs its domain
// object. The body must be a mapping value (the directive's field set). The
// result is the constructor's policy object, or the validated name→value map
// for constructor-less variants.
//
// Failures are structured: *UnknownDirectiveError, *NoMatchingVariantError,
// *TypeMismatchError, *UnexpectedFieldError, or *DepthError.
func (r *Resolver) Resolve(name string, body value.Value) (any, error) {
	if body.Kind() != value.KindMapping {
		return nil, fmt.Errorf("directive %q: body must be a mapping, got %s", name, body.Describe())
	}
	return r.resolveDirective(name, body, fieldpath.Root(), 0)
}

// Input is one top-level directive awaiting validation.
type Input struct {
	Name string
	Body value.Value
}

// Resolved pairs a directive name with its constructed object.
type Resolved struct {
	Name   string
	Object any
}

// ResolveAll validates every input and accumulates failures instead of
// stopping at the first, so one load reports every invalid directive.
// The returned slice holds the successfully resolved directives; the error,
// if non-nil, joins every individual failure.
func (r *Resolver) ResolveAll(inputs []Input) ([]Resolved, []error) {
	var resolved []Resolved
	var errs []error
	for _, in := range inputs {
		obj, err := r.Resolve(in.Name, in.Body)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		resolved = append(resolved, Resolved{Name: in.Name, Object: obj})
	}
	return resolved, errs
}

func (r *Resolver) resolveDirective(name string, body value.Value, base fieldpath.Path, depth int) (any, error) {
	if depth > maxDepth {
		return nil, &DepthError{Directive: name, Path: base}
	}

	dir, ok := r.reg.Lookup(name)
	if !ok {
		return nil, &UnknownDirectiveError{
			Name:       name,
			Suggestion: suggestName(name, r.reg.Names()),
			Subject:    body.Range(),
		}
	}

	supplied := body.Fields()
	var candidates []VariantDiagnosis

	for vi, variant := range dir.Variants {
		diag := VariantDiagnosis{Index: vi}

		for _, f := range variant.Fields {
			if _, present := supplied[f.Name]; !present {
				diag.Missing = append(diag.Missing, f.Name)
			}
		}
		if len(diag.Missing) > 0 {
			candidates = append(candidates, diag)
			continue
		}

		validated := make(map[string]any, len(variant.Fields))
		var failure error
		for _, f := range variant.Fields {
			got, err := r.validateValue(dir.Name, f.Name, f.Type, supplied[f.Name], base.Child(f.Name), depth+1)
			if err != nil {
				if !failsVariantSelection(err) {
					// Depth overruns and constructor failures abort
					// resolution outright.
					return nil, err
				}
				failure = err
				break
			}
			validated[f.Name] = got
		}
		if failure != nil {
			if tm, ok := failure.(*TypeMismatchError); ok {
				diag.Mismatch = tm
			} else {
				diag.Nested = failure
			}
			candidates = append(candidates, diag)
			continue
		}

		if r.opts.Strict {
			declared := make(map[string]struct{}, len(variant.Fields))
			for _, f := range variant.Fields {
				declared[f.Name] = struct{}{}
			}
			for _, fname := range body.FieldNames() {
				if _, ok := declared[fname]; !ok {
					diag.Extra = append(diag.Extra, fname)
				}
			}
			if len(diag.Extra) > 0 {
				candidates = append(candidates, diag)
				continue
			}
		}

		// First structurally-and-type-matching variant wins; declaration
		// order is the tie-break and must not be reordered.
		if variant.Construct == nil {
			return validated, nil
		}
		obj, err := variant.Construct(validated)
		if err != nil {
			return nil, fmt.Errorf("constructing directive %q: %w", dir.Name, err)
		}
		return obj, nil
	}

	return nil, r.selectionFailure(dir.Name, body, candidates)
}

// failsVariantSelection reports whether a field-validation failure means the
// current variant simply does not match, so selection continues with the next
// variant. A mismatched field, a nested block that satisfies no variant of
// its own schema, an unknown nested directive, and a strict-mode extra field
// all disqualify only the variant; depth overruns and constructor failures
// are not selection signals.
func failsVariantSelection(err error) bool {
	switch err.(type) {
	case *TypeMismatchError, *NoMatchingVariantError, *UnknownDirectiveError, *UnexpectedFieldError:
		return true
	default:
		return false
	}
}

// selectionFailure turns the per-variant diagnoses into the most specific
// error available. When exactly one variant had every required field present,
// its own failure (type mismatch, nested-block failure, or strict-mode extra
// field) is the real problem and is surfaced directly; otherwise the caller
// gets the full closest-match report.
func (r *Resolver) selectionFailure(directive string, body value.Value, candidates []VariantDiagnosis) error {
	var complete []VariantDiagnosis
	for _, c := range candidates {
		if len(c.Missing) == 0 {
			complete = append(complete, c)
		}
	}
	if len(complete) == 1 {
		if complete[0].Mismatch != nil {
			return complete[0].Mismatch
		}
		if complete[0].Nested != nil {
			return complete[0].Nested
		}
		if len(complete[0].Extra) > 0 {
			fv, _ := body.Field(complete[0].Extra[0])
			return &UnexpectedFieldError{
				Directive: directive,
				Field:     complete[0].Extra[0],
				Subject:   fv.Range(),
			}
		}
	}

	// Closest partial match first: fewest missing fields, then declaration
	// order.
	sorted := make([]VariantDiagnosis, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Missing) < len(sorted[j].Missing)
	})
	return &NoMatchingVariantError{
		Directive:  directive,
		Candidates: sorted,
		Subject:    body.Range(),
	}
}

// validateValue checks one value against its type descriptor and returns the
// coerced Go representation. hint is the field or map-key name the value was
// supplied under; nested directive-shaped mappings resolve against the
// schema registered under that name, falling back to the tag's canonical
// directive name.
func (r *Resolver) validateValue(directive, hint string, t typedesc.Type, v value.Value, path fieldpath.Path, depth int) (any, error) {
	if depth > maxDepth {
		return nil, &DepthError{Directive: directive, Path: path}
	}

	mismatch := func(detail string) error {
		return &TypeMismatchError{
			Directive: directive,
			Path:      path,
			Want:      t,
			Got:       v,
			Detail:    detail,
			Subject:   v.Range(),
		}
	}

	switch t.Kind() {
	case typedesc.KindBool:
		if v.Kind() == value.KindBool {
			return v.AsBool(), nil
		}
		return nil, mismatch("")

	case typedesc.KindInt:
		if v.Kind() == value.KindInt {
			return v.AsInt(), nil
		}
		return nil, mismatch("")

	case typedesc.KindDouble:
		switch v.Kind() {
		case value.KindDouble:
			return v.AsDouble(), nil
		case value.KindInt:
			// Explicit widening policy: an integer literal satisfies a
			// double field and is carried as float64.
			return float64(v.AsInt()), nil
		default:
			return nil, mismatch("")
		}

	case typedesc.KindString:
		if v.Kind() == value.KindString {
			return v.AsString(), nil
		}
		return nil, mismatch("")

	case typedesc.KindDuration:
		switch v.Kind() {
		case value.KindDuration:
			return v.AsDuration(), nil
		case value.KindString:
			// Explicit coercion policy: duration fields accept strings in
			// the "1s" / "250ms" / "1h30m" form.
			d, err := str2duration.ParseDuration(v.AsString())
			if err != nil {
				return nil, mismatch(fmt.Sprintf("not a valid duration: %v", err))
			}
			return d, nil
		default:
			return nil, mismatch("")
		}

	case typedesc.KindArray:
		if v.Kind() != value.KindArray {
			return nil, mismatch("")
		}
		elemType, _ := t.Elem()
		out := make([]any, 0, len(v.Elems()))
		for i, ev := range v.Elems() {
			got, err := r.validateValue(directive, hint, elemType, ev, path.Index(i), depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, got)
		}
		return out, nil

	case typedesc.KindMap:
		if v.Kind() != value.KindMapping {
			return nil, mismatch("")
		}
		elemType, _ := t.Elem()
		out := make(map[string]any, len(v.Fields()))
		for _, key := range v.FieldNames() {
			ev, _ := v.Field(key)
			got, err := r.validateValue(directive, key, elemType, ev, path.Key(key), depth+1)
			if err != nil {
				return nil, err
			}
			out[key] = got
		}
		return out, nil

	case typedesc.KindUnknown:
		// Placeholder type; schema validation rejects it in shipped schemas,
		// so this path only serves programmatic callers.
		return rawValue(v), nil

	default: // domain tags
		if v.Kind() == value.KindString {
			// A reference by name; the supervising runtime resolves it.
			return v.AsString(), nil
		}
		if t.Nestable() && v.Kind() == value.KindMapping {
			nested, ok := r.nestedDirectiveName(hint, t)
			if !ok {
				return nil, mismatch("no directive schema registered to validate this nested block")
			}
			return r.resolveDirective(nested, v, path, depth+1)
		}
		return nil, mismatch("")
	}
}

// nestedDirectiveName picks the schema a nested mapping is validated
// against: the enclosing field (or map key) name when registered, otherwise
// the type tag's canonical directive.
func (r *Resolver) nestedDirectiveName(hint string, t typedesc.Type) (string, bool) {
	if _, ok := r.reg.Lookup(hint); ok {
		return hint, true
	}
	if canonical, ok := t.DirectiveName(); ok {
		if _, registered := r.reg.Lookup(canonical); registered {
			return canonical, true
		}
	}
	return "", false
}

// rawValue converts a parsed value to its plain Go representation without
// any type checking.
func rawValue(v value.Value) any {
	switch v.Kind() {
	case value.KindBool:
		return v.AsBool()
	case value.KindInt:
		return v.AsInt()
	case value.KindDouble:
		return v.AsDouble()
	case value.KindString:
		return v.AsString()
	case value.KindDuration:
		return v.AsDuration()
	case value.KindArray:
		out := make([]any, 0, len(v.Elems()))
		for _, ev := range v.Elems() {
			out = append(out, rawValue(ev))
		}
		return out
	case value.KindMapping:
		out := make(map[string]any, len(v.Fields()))
		for name, fv := range v.Fields() {
			out[name] = rawValue(fv)
		}
		return out
	default:
		return nil
	}
}

// suggestName returns the registered directive name with the smallest edit
// distance to the given one, or "" when nothing is within distance 2.
// Candidates arrive sorted, so ties resolve to the alphabetically first name.
func suggestName(given string, candidates []string) string {
	best := ""
	bestDist := 3
	for _, candidate := range candidates {
		if dist := levenshtein.Distance(given, candidate, nil); dist < bestDist {
			best, bestDist = candidate, dist
		}
	}
	return best
}
