// Package builtin declares the fixed set of directive schemas the policy
// language ships with. The set is registered exactly once at startup via
// registry.Build(Schemas()...) and covers the full surface of the language:
// strategy, the three restart disciplines, retries, backoff, redirect,
// process, dispatcher, and cluster.
//
// The schema model has no optional-field concept; optional parts are
// expressed as alternate variants, listed most specific first so the
// resolver's first-match rule picks the richest shape the supplied body
// satisfies.
package builtin

import (
	"fmt"

	"github.com/vk/policyc/internal/policy"
	"github.com/vk/policyc/internal/schema"
	"github.com/vk/policyc/internal/typedesc"
)

// Schemas returns the built-in directive set in registration order.
func Schemas() []*schema.Directive {
	return []*schema.Directive{
		retriesSchema(),
		backoffSchema(),
		restartSchema(policy.OneForOne),
		restartSchema(policy.OneForAll),
		restartSchema(policy.RestForOne),
		redirectSchema(),
		strategySchema(),
		processSchema(),
		dispatcherSchema(),
		clusterSchema(),
	}
}

func retriesSchema() *schema.Directive {
	construct := func(fields map[string]any) (policy.Object, error) {
		var r policy.Retry
		if err := policy.Decode(fields, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}
	return schema.NewDirective("retries").
		Variant(schema.NewVariant().
			Field("count", typedesc.Int).
			Field("within", typedesc.Duration).
			Construct(construct)).
		Variant(schema.NewVariant().
			Field("count", typedesc.Int).
			Construct(construct)).
		Build()
}

func backoffSchema() *schema.Directive {
	ramp := func(fields map[string]any) (policy.Object, error) {
		var b policy.RampBackoff
		if err := policy.Decode(fields, &b); err != nil {
			return nil, err
		}
		return &b, nil
	}
	steps := func(fields map[string]any) (policy.Object, error) {
		var b policy.StepBackoff
		if err := policy.Decode(fields, &b); err != nil {
			return nil, err
		}
		return &b, nil
	}
	fixed := func(fields map[string]any) (policy.Object, error) {
		var b policy.FixedBackoff
		if err := policy.Decode(fields, &b); err != nil {
			return nil, err
		}
		return &b, nil
	}
	return schema.NewDirective("backoff").
		Variant(schema.NewVariant().
			Field("min", typedesc.Duration).
			Field("max", typedesc.Duration).
			Field("step", typedesc.Duration).
			Construct(ramp)).
		Variant(schema.NewVariant().
			Field("steps", typedesc.ArrayOf(typedesc.Duration)).
			Construct(steps)).
		Variant(schema.NewVariant().
			Field("duration", typedesc.Duration).
			Construct(fixed)).
		Build()
}

// restartSchema builds the directive for one restart discipline. The bare
// variant (no fields) means "use the mode with default intensity".
func restartSchema(mode policy.RestartMode) *schema.Directive {
	construct := func(fields map[string]any) (policy.Object, error) {
		r := policy.Restart{Mode: mode}
		if err := policy.Decode(fields, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}
	return schema.NewDirective(string(mode)).
		Variant(schema.NewVariant().
			Field("intensity", typedesc.Int).
			Field("period", typedesc.Duration).
			Construct(construct)).
		Variant(schema.NewVariant().
			Construct(construct)).
		Build()
}

func redirectSchema() *schema.Directive {
	construct := func(fields map[string]any) (policy.Object, error) {
		when, ok := fields["when"].(string)
		if !ok {
			return nil, fmt.Errorf("field %q: expected string, got %T", "when", fields["when"])
		}
		to, err := asObject("to", fields["to"])
		if err != nil {
			return nil, err
		}
		return &policy.Redirect{When: when, To: to}, nil
	}
	return schema.NewDirective("redirect").
		Variant(schema.NewVariant().
			Field("when", typedesc.String).
			Field("to", typedesc.Directive).
			Construct(construct)).
		Build()
}

// strategyFieldSets enumerates the accepted strategy shapes, most specific
// first. Each shape names one restart discipline block plus an optional
// ladder of refinements.
var strategyFieldSets = func() [][]string {
	modes := []string{string(policy.OneForOne), string(policy.OneForAll), string(policy.RestForOne)}
	ladders := [][]string{
		{"retries", "backoff", "redirect"},
		{"retries", "backoff"},
		{"retries"},
		{},
	}
	var sets [][]string
	for _, ladder := range ladders {
		for _, mode := range modes {
			sets = append(sets, append([]string{mode}, ladder...))
		}
	}
	return sets
}()

func strategySchema() *schema.Directive {
	b := schema.NewDirective("strategy")
	for _, fields := range strategyFieldSets {
		v := schema.NewVariant()
		for _, name := range fields {
			switch name {
			case "redirect":
				v.Field(name, typedesc.MapOf(typedesc.StrategyRedirect))
			default:
				v.Field(name, typedesc.Strategy)
			}
		}
		v.Construct(buildStrategy)
		b.Variant(v)
	}
	return b.Build()
}

func buildStrategy(fields map[string]any) (policy.Object, error) {
	s := &policy.Strategy{}

	for _, mode := range []policy.RestartMode{policy.OneForOne, policy.OneForAll, policy.RestForOne} {
		raw, ok := fields[string(mode)]
		if !ok {
			continue
		}
		restart, ok := raw.(*policy.Restart)
		if !ok {
			return nil, fmt.Errorf("field %q: expected restart block, got %T", mode, raw)
		}
		s.Restart = restart
		break
	}
	if s.Restart == nil {
		return nil, fmt.Errorf("strategy has no restart discipline")
	}

	if raw, ok := fields["retries"]; ok {
		retry, ok := raw.(*policy.Retry)
		if !ok {
			return nil, fmt.Errorf("field %q: expected retries block, got %T", "retries", raw)
		}
		s.Retry = retry
	}
	if raw, ok := fields["backoff"]; ok {
		backoff, err := asObject("backoff", raw)
		if err != nil {
			return nil, err
		}
		s.Backoff = backoff
	}
	if raw, ok := fields["redirect"]; ok {
		entries, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %q: expected redirect map, got %T", "redirect", raw)
		}
		s.Redirects = make(map[string]*policy.Redirect, len(entries))
		for key, entry := range entries {
			redirect, ok := entry.(*policy.Redirect)
			if !ok {
				return nil, fmt.Errorf("field %q, key %q: expected redirect rule, got %T", "redirect", key, entry)
			}
			s.Redirects[key] = redirect
		}
	}
	return s, nil
}

func processSchema() *schema.Directive {
	construct := func(fields map[string]any) (policy.Object, error) {
		name, ok := fields["name"].(string)
		if !ok {
			return nil, fmt.Errorf("field %q: expected string, got %T", "name", fields["name"])
		}
		p := &policy.Process{Name: name}
		if raw, ok := fields["strategy"]; ok {
			strategy, err := asObject("strategy", raw)
			if err != nil {
				return nil, err
			}
			p.Strategy = strategy
		}
		if raw, ok := fields["flags"]; ok {
			flags, err := asStrings("flags", raw)
			if err != nil {
				return nil, err
			}
			p.Flags = flags
		}
		return p, nil
	}
	return schema.NewDirective("process").
		Variant(schema.NewVariant().
			Field("name", typedesc.ProcessName).
			Field("strategy", typedesc.Strategy).
			Field("flags", typedesc.ArrayOf(typedesc.ProcessFlags)).
			Construct(construct)).
		Variant(schema.NewVariant().
			Field("name", typedesc.ProcessName).
			Field("strategy", typedesc.Strategy).
			Construct(construct)).
		Variant(schema.NewVariant().
			Field("name", typedesc.ProcessName).
			Construct(construct)).
		Build()
}

func dispatcherSchema() *schema.Directive {
	construct := func(fields map[string]any) (policy.Object, error) {
		var d policy.Dispatcher
		if err := policy.Decode(fields, &d); err != nil {
			return nil, err
		}
		return &d, nil
	}
	return schema.NewDirective("dispatcher").
		Variant(schema.NewVariant().
			Field("type", typedesc.DispatcherType).
			Field("throughput", typedesc.Int).
			Construct(construct)).
		Variant(schema.NewVariant().
			Field("type", typedesc.DispatcherType).
			Construct(construct)).
		Build()
}

func clusterSchema() *schema.Directive {
	construct := func(fields map[string]any) (policy.Object, error) {
		var c policy.Cluster
		if err := policy.Decode(fields, &c); err != nil {
			return nil, err
		}
		return &c, nil
	}
	return schema.NewDirective("cluster").
		Variant(schema.NewVariant().
			Field("name", typedesc.String).
			Field("processes", typedesc.ArrayOf(typedesc.ProcessName)).
			Construct(construct)).
		Build()
}

// asObject normalizes a validated domain-tag value: nested blocks arrive as
// constructed policy objects, by-name references as strings.
func asObject(field string, raw any) (policy.Object, error) {
	switch v := raw.(type) {
	case policy.Object:
		return v, nil
	case string:
		return policy.DirectiveRef(v), nil
	default:
		return nil, fmt.Errorf("field %q: expected directive or reference, got %T", field, raw)
	}
}

// asStrings converts a validated array of identifier-shaped values.
func asStrings(field string, raw any) ([]string, error) {
	elems, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("field %q: expected array, got %T", field, raw)
	}
	out := make([]string, 0, len(elems))
	for i, e := range elems {
		s, ok := e.(string)
		if !ok {
			return nil, fmt.Errorf("field %q[%d]: expected string, got %T", field, i, e)
		}
		out = append(out, s)
	}
	return out, nil
}
