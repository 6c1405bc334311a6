// Package typedesc defines the closed set of type descriptors the schema
// layer uses to describe what a configuration value must look like. A Type is
// pure immutable data: primitive descriptors are package-level singletons and
// the two composite constructors (ArrayOf, MapOf) carry exactly one element
// type. No operation on a Type can fail.
package typedesc

import (
	"github.com/vk/policyc/internal/value"
)

// Kind is the tag of a type descriptor.
type Kind int

const (
	KindUnknown Kind = iota
	KindBool
	KindInt
	KindDouble
	KindString
	KindDuration
	KindProcessID
	KindProcessName
	KindProcessFlags
	KindStrategy
	KindStrategyMatch
	KindStrategyRedirect
	KindDirective
	KindDispatcher
	KindDispatcherType
	KindCluster
	KindProcess
	KindArray
	KindMap
)

// Type describes the required shape of a single configuration value. The zero
// value is the Unknown placeholder, which matches anything and must never
// appear in a shipped schema.
type Type struct {
	kind Kind
	elem *Type
}

// Primitive and domain singletons. These are built once at package init and
// reused by every schema; they compare equal by value.
var (
	Unknown          = Type{kind: KindUnknown}
	Bool             = Type{kind: KindBool}
	Int              = Type{kind: KindInt}
	Double           = Type{kind: KindDouble}
	String           = Type{kind: KindString}
	Duration         = Type{kind: KindDuration}
	ProcessID        = Type{kind: KindProcessID}
	ProcessName      = Type{kind: KindProcessName}
	ProcessFlags     = Type{kind: KindProcessFlags}
	Strategy         = Type{kind: KindStrategy}
	StrategyMatch    = Type{kind: KindStrategyMatch}
	StrategyRedirect = Type{kind: KindStrategyRedirect}
	Directive        = Type{kind: KindDirective}
	Dispatcher       = Type{kind: KindDispatcher}
	DispatcherType   = Type{kind: KindDispatcherType}
	Cluster          = Type{kind: KindCluster}
	Process          = Type{kind: KindProcess}
)

// ArrayOf returns the descriptor for an ordered array whose every element
// must satisfy elem.
func ArrayOf(elem Type) Type {
	return Type{kind: KindArray, elem: &elem}
}

// MapOf returns the descriptor for a string-keyed mapping whose every value
// must satisfy elem.
func MapOf(elem Type) Type {
	return Type{kind: KindMap, elem: &elem}
}

// Kind reports the descriptor's tag.
func (t Type) Kind() Kind { return t.kind }

// Elem returns the element type of an ArrayOf/MapOf descriptor, or Unknown
// and false for every other tag.
func (t Type) Elem() (Type, bool) {
	if t.elem == nil {
		return Unknown, false
	}
	return *t.elem, true
}

// Equal reports structural equality: same tag, and for composites the same
// element type.
func (t Type) Equal(other Type) bool {
	if t.kind != other.kind {
		return false
	}
	if t.elem == nil && other.elem == nil {
		return true
	}
	if t.elem == nil || other.elem == nil {
		return false
	}
	return t.elem.Equal(*other.elem)
}

// IsDomain reports whether the tag names a domain concept (process reference,
// strategy, directive, dispatcher, cluster) rather than a literal or a
// generic composite.
func (t Type) IsDomain() bool {
	switch t.kind {
	case KindProcessID, KindProcessName, KindProcessFlags,
		KindStrategy, KindStrategyMatch, KindStrategyRedirect,
		KindDirective, KindDispatcher, KindDispatcherType,
		KindCluster, KindProcess:
		return true
	default:
		return false
	}
}

// Nestable reports whether a domain tag may be supplied as a nested
// directive-shaped mapping that the resolver validates recursively.
// Identifier-only references (process ids/names/flags, dispatcher type) must
// stay literals.
func (t Type) Nestable() bool {
	switch t.kind {
	case KindStrategy, KindStrategyMatch, KindStrategyRedirect,
		KindDirective, KindDispatcher, KindCluster, KindProcess:
		return true
	default:
		return false
	}
}

// Matches reports whether the parsed value structurally satisfies this
// descriptor. The check is exact: no numeric widening and no string-to-
// duration parsing happens here (those are explicit resolver policies).
// Domain tags accept an identifier-shaped string literal, or a nested
// directive-shaped mapping where nesting is allowed; the resolver performs
// the recursive schema validation of such mappings.
func (t Type) Matches(v value.Value) bool {
	switch t.kind {
	case KindUnknown:
		return true
	case KindBool:
		return v.Kind() == value.KindBool
	case KindInt:
		return v.Kind() == value.KindInt
	case KindDouble:
		return v.Kind() == value.KindDouble
	case KindString:
		return v.Kind() == value.KindString
	case KindDuration:
		return v.Kind() == value.KindDuration
	case KindArray:
		if v.Kind() != value.KindArray {
			return false
		}
		for _, ev := range v.Elems() {
			if !t.elem.Matches(ev) {
				return false
			}
		}
		return true
	case KindMap:
		if v.Kind() != value.KindMapping {
			return false
		}
		for _, name := range v.FieldNames() {
			fv, _ := v.Field(name)
			if !t.elem.Matches(fv) {
				return false
			}
		}
		return true
	default:
		if v.Kind() == value.KindString {
			return true
		}
		return t.Nestable() && v.Kind() == value.KindMapping
	}
}

// FriendlyName renders the descriptor for diagnostics, e.g. "duration" or
// "array(duration)".
func (t Type) FriendlyName() string {
	switch t.kind {
	case KindUnknown:
		return "any"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindDuration:
		return "duration"
	case KindProcessID:
		return "process-id"
	case KindProcessName:
		return "process-name"
	case KindProcessFlags:
		return "process-flags"
	case KindStrategy:
		return "strategy"
	case KindStrategyMatch:
		return "strategy-match"
	case KindStrategyRedirect:
		return "strategy-redirect"
	case KindDirective:
		return "directive"
	case KindDispatcher:
		return "dispatcher"
	case KindDispatcherType:
		return "dispatcher-type"
	case KindCluster:
		return "cluster"
	case KindProcess:
		return "process"
	case KindArray:
		return "array(" + t.elem.FriendlyName() + ")"
	case KindMap:
		return "map(" + t.elem.FriendlyName() + ")"
	default:
		return "invalid"
	}
}

// directiveNames maps nestable domain tags to the directive schema their
// nested mappings are validated against when the enclosing field's own name
// has no registration.
var directiveNames = map[Kind]string{
	KindStrategy:         "strategy",
	KindStrategyRedirect: "redirect",
	KindDispatcher:       "dispatcher",
	KindCluster:          "cluster",
	KindProcess:          "process",
}

// DirectiveName returns the canonical directive name a nested mapping of this
// tag resolves against, if the tag has one.
func (t Type) DirectiveName() (string, bool) {
	name, ok := directiveNames[t.kind]
	return name, ok
}
