// Package value defines the untyped tree produced by the configuration
// parser. A Value is either a literal (bool, int, double, string, duration),
// an ordered array of values, or a mapping of field names to values (the body
// of a nested directive block). The tree carries no guarantee that its shape
// matches any schema; that is the resolver's job.
package value

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/hashicorp/hcl/v2"
)

// Kind discriminates the variants of a Value.
type Kind int

const (
	// KindInvalid is the zero value; it matches no type descriptor and is
	// never produced by a successful parse.
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindDouble
	KindString
	KindDuration
	KindArray
	KindMapping
)

// String returns the lowercase name of the kind, as used in diagnostics.
func (k Kind) String() string {
	switch k {
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
	case KindArray:
		return "array"
	case KindMapping:
		return "mapping"
	default:
		return "invalid"
	}
}

// Value is one node of the untyped configuration tree. Values are immutable
// after construction; the resolver may share them freely across goroutines.
type Value struct {
	kind Kind

	boolVal     bool
	intVal      int64
	doubleVal   float64
	stringVal   string
	durationVal time.Duration

	elems  []Value
	fields map[string]Value

	rng hcl.Range
}

// Bool returns a bool literal.
func Bool(b bool) Value { return Value{kind: KindBool, boolVal: b} }

// Int returns an integer literal.
func Int(i int64) Value { return Value{kind: KindInt, intVal: i} }

// Double returns a floating-point literal.
func Double(f float64) Value { return Value{kind: KindDouble, doubleVal: f} }

// String returns a string literal.
func String(s string) Value { return Value{kind: KindString, stringVal: s} }

// Duration returns a duration literal.
func Duration(d time.Duration) Value { return Value{kind: KindDuration, durationVal: d} }

// Array returns an ordered array of values.
func Array(elems ...Value) Value { return Value{kind: KindArray, elems: elems} }

// Mapping returns a mapping of field names to values. The map is copied so
// later mutation by the caller cannot leak into the tree.
func Mapping(fields map[string]Value) Value {
	copied := make(map[string]Value, len(fields))
	for name, v := range fields {
		copied[name] = v
	}
	return Value{kind: KindMapping, fields: copied}
}

// WithRange returns a copy of the value annotated with its source position.
func (v Value) WithRange(rng hcl.Range) Value {
	v.rng = rng
	return v
}

// Kind reports which variant this value holds.
func (v Value) Kind() Kind { return v.kind }

// Range returns the source position attached to the value. A zero range
// means the value was built programmatically rather than parsed.
func (v Value) Range() hcl.Range { return v.rng }

// AsBool returns the bool literal. It panics if the kind is not KindBool;
// callers must check Kind first.
func (v Value) AsBool() bool {
	v.mustBe(KindBool)
	return v.boolVal
}

// AsInt returns the integer literal.
func (v Value) AsInt() int64 {
	v.mustBe(KindInt)
	return v.intVal
}

// AsDouble returns the floating-point literal.
func (v Value) AsDouble() float64 {
	v.mustBe(KindDouble)
	return v.doubleVal
}

// AsString returns the string literal.
func (v Value) AsString() string {
	v.mustBe(KindString)
	return v.stringVal
}

// AsDuration returns the duration literal.
func (v Value) AsDuration() time.Duration {
	v.mustBe(KindDuration)
	return v.durationVal
}

// Elems returns the elements of an array value. The returned slice must not
// be mutated.
func (v Value) Elems() []Value {
	v.mustBe(KindArray)
	return v.elems
}

// Fields returns the field map of a mapping value. The returned map must not
// be mutated.
func (v Value) Fields() map[string]Value {
	v.mustBe(KindMapping)
	return v.fields
}

// FieldNames returns the mapping's field names in sorted order, for
// deterministic iteration in diagnostics and tests.
func (v Value) FieldNames() []string {
	v.mustBe(KindMapping)
	names := make([]string, 0, len(v.fields))
	for name := range v.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Field looks up a single field of a mapping value.
func (v Value) Field(name string) (Value, bool) {
	v.mustBe(KindMapping)
	fv, ok := v.fields[name]
	return fv, ok
}

func (v Value) mustBe(k Kind) {
	if v.kind != k {
		panic(fmt.Sprintf("value: kind is %s, not %s", v.kind, k))
	}
}

// Describe renders a short human-readable description of the value's shape,
// used in "expected X, got Y" diagnostics.
func (v Value) Describe() string {
	switch v.kind {
	case KindBool:
		return fmt.Sprintf("bool literal %t", v.boolVal)
	case KindInt:
		return fmt.Sprintf("int literal %d", v.intVal)
	case KindDouble:
		return "double literal " + strconv.FormatFloat(v.doubleVal, 'g', -1, 64)
	case KindString:
		return fmt.Sprintf("string literal %q", v.stringVal)
	case KindDuration:
		return fmt.Sprintf("duration literal %s", v.durationVal)
	case KindArray:
		return fmt.Sprintf("array of %d elements", len(v.elems))
	case KindMapping:
		return fmt.Sprintf("mapping with %d fields", len(v.fields))
	default:
		return "invalid value"
	}
}
