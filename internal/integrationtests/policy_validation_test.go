package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatesMultiFilePolicy(t *testing.T) {
	files := map[string]string{
		"strategies.hcl": `
strategy "db" {
  one-for-one {
    intensity = 5
    period    = "10s"
  }

  retries {
    count = 5
  }

  backoff {
    min  = "1s"
    max  = "100s"
    step = "2s"
  }
}
`,
		"processes.hcl": `
process "writer" {
  strategy = "db"
  flags    = ["transient"]
}

dispatcher {
  type       = "pinned"
  throughput = 50
}

cluster "db" {
  name      = "db"
  processes = ["writer"]
}
`,
	}

	result := runValidation(t, files, false)

	require.NoError(t, result.Err)
	require.Contains(t, result.Output, "OK: 4 directive(s) validated")
	require.Contains(t, result.Output, "Discovered policy files.")
}

func TestReportsMismatchWithSourcePosition(t *testing.T) {
	files := map[string]string{
		"policy.hcl": `
retries {
  count = "five"
}
`,
	}

	result := runValidation(t, files, false)

	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "1 invalid directive(s)")
	require.Contains(t, result.Output, "Type mismatch")
	// The report points at the offending value in its file.
	require.Contains(t, result.Output, "policy.hcl")
}

func TestAccumulatesFailuresAcrossFiles(t *testing.T) {
	files := map[string]string{
		"a.hcl": `
retries {
  count = "bad"
}
`,
		"b.hcl": `
retrie {
  count = 5
}
`,
	}

	result := runValidation(t, files, false)

	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "2 invalid directive(s)")
	require.Contains(t, result.Output, "Type mismatch")
	require.Contains(t, result.Output, "Unknown directive")
	require.Contains(t, result.Output, `did you mean "retries"`)
}

func TestStrictModeFlipsExtraFieldPolicy(t *testing.T) {
	files := map[string]string{
		"policy.hcl": `
retries {
  count = 5
  note  = "tuned by ops"
}
`,
	}

	lenient := runValidation(t, files, false)
	require.NoError(t, lenient.Err)

	strict := runValidation(t, files, true)
	require.Error(t, strict.Err)
	require.Contains(t, strict.Output, "Unexpected field")
}

// Under the default lenient policy a strategy with a broken refinement block
// still matches a smaller variant; strict mode refuses the degradation and the
// closest-match report names the nested field.
func TestStrictSurfacesNestedMismatchPath(t *testing.T) {
	files := map[string]string{
		"policy.hcl": `
strategy {
  one-for-one {}

  retries {
    count = "5"
  }
}
`,
	}

	lenient := runValidation(t, files, false)
	require.NoError(t, lenient.Err)

	strict := runValidation(t, files, true)
	require.Error(t, strict.Err)
	require.Contains(t, strict.Output, "No matching variant")
	require.Contains(t, strict.Output, "retries.count")
}
