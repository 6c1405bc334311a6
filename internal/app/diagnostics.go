package app

import (
	"github.com/hashicorp/hcl/v2"

	"github.com/vk/policyc/internal/resolver"
)

// diagnosticFromError maps a structured resolver failure onto an HCL
// diagnostic, attaching the source range the resolver captured so the report
// points at the offending value.
func diagnosticFromError(err error) *hcl.Diagnostic {
	diag := &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Invalid directive",
		Detail:   err.Error(),
	}

	var subject hcl.Range
	switch e := err.(type) {
	case *resolver.UnknownDirectiveError:
		diag.Summary = "Unknown directive"
		subject = e.Subject
	case *resolver.TypeMismatchError:
		diag.Summary = "Type mismatch"
		subject = e.Subject
	case *resolver.NoMatchingVariantError:
		diag.Summary = "No matching variant"
		subject = e.Subject
	case *resolver.UnexpectedFieldError:
		diag.Summary = "Unexpected field"
		subject = e.Subject
	}
	if subject != (hcl.Range{}) {
		diag.Subject = subject.Ptr()
	}
	return diag
}
