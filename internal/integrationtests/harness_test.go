package integration_tests

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/policyc/internal/app"
)

// runResult captures everything one full validation pass produced.
type runResult struct {
	App    *app.App
	Err    error
	Output string
}

// runValidation writes the given policy files into a temp workspace, runs the
// application against it, and returns the combined report/log output.
func runValidation(t *testing.T, files map[string]string, strict bool) runResult {
	t.Helper()

	dir := t.TempDir()
	for name, src := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	}

	cfg, err := app.NewConfig(app.Config{
		PolicyPath: dir,
		LogFormat:  "text",
		LogLevel:   "debug",
		Strict:     strict,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	a, err := app.NewApp(&buf, cfg)
	require.NoError(t, err)

	runErr := a.Run(context.Background())
	return runResult{App: a, Err: runErr, Output: buf.String()}
}
