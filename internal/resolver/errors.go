package resolver

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/policyc/internal/fieldpath"
	"github.com/vk/policyc/internal/typedesc"
	"github.com/vk/policyc/internal/value"
)

// UnknownDirectiveError reports a directive name with no registered schema.
type UnknownDirectiveError struct {
	Name       string
	Suggestion string // closest registered name, empty if nothing is close
	Subject    hcl.Range
}

func (e *UnknownDirectiveError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown directive %q; did you mean %q?", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown directive %q", e.Name)
}

// TypeMismatchError reports a single field whose value does not satisfy its
// declared type descriptor. Path is the full dotted/indexed location of the
// offending value inside the directive body, e.g. `retries.count` or
// `backoff.steps[2]`.
type TypeMismatchError struct {
	Directive string
	Path      fieldpath.Path
	Want      typedesc.Type
	Got       value.Value
	Detail    string // extra context, e.g. a duration parse failure
	Subject   hcl.Range
}

func (e *TypeMismatchError) Error() string {
	msg := fmt.Sprintf("directive %q, field %s: expected %s, got %s",
		e.Directive, e.Path, e.Want.FriendlyName(), e.Got.Describe())
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// UnexpectedFieldError reports a supplied field no variant declares. It is
// only produced in strict mode; the default policy ignores extra fields.
type UnexpectedFieldError struct {
	Directive string
	Field     string
	Subject   hcl.Range
}

func (e *UnexpectedFieldError) Error() string {
	return fmt.Sprintf("directive %q: unexpected field %q", e.Directive, e.Field)
}

// VariantDiagnosis records why one candidate variant was rejected, for the
// closest-match report carried by NoMatchingVariantError.
type VariantDiagnosis struct {
	Index    int
	Missing  []string           // required fields absent from the supplied body
	Mismatch *TypeMismatchError // first type failure, if all fields were present
	Nested   error              // failure inside a nested directive block
	Extra    []string           // undeclared fields, strict mode only
}

func (d VariantDiagnosis) describe() string {
	switch {
	case len(d.Missing) > 0:
		return fmt.Sprintf("variant %d: missing required field(s) %s", d.Index, strings.Join(d.Missing, ", "))
	case d.Mismatch != nil:
		return fmt.Sprintf("variant %d: %v", d.Index, d.Mismatch)
	case d.Nested != nil:
		return fmt.Sprintf("variant %d: %v", d.Index, d.Nested)
	case len(d.Extra) > 0:
		return fmt.Sprintf("variant %d: unexpected field(s) %s", d.Index, strings.Join(d.Extra, ", "))
	default:
		return fmt.Sprintf("variant %d: did not match", d.Index)
	}
}

// NoMatchingVariantError reports that the supplied fields satisfied none of
// a directive's declared variants. Candidates holds one diagnosis per
// variant, in declaration order, with the closest partial match first in the
// rendered message.
type NoMatchingVariantError struct {
	Directive  string
	Candidates []VariantDiagnosis
	Subject    hcl.Range
}

func (e *NoMatchingVariantError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "directive %q matches none of its %d variant(s)", e.Directive, len(e.Candidates))
	for _, c := range e.Candidates {
		sb.WriteString("\n  ")
		sb.WriteString(c.describe())
	}
	return sb.String()
}

// DepthError reports that a parsed tree nests deeper than the defensive
// maximum. Finite, acyclic parser output never triggers it.
type DepthError struct {
	Directive string
	Path      fieldpath.Path
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("directive %q, field %s: nesting exceeds the maximum depth of %d", e.Directive, e.Path, maxDepth)
}
