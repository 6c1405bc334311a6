package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name         string
		args         []string
		expectPath   string
		expectStrict bool
		expectFormat string
		expectLevel  string
	}{
		{
			name:         "positional path",
			args:         []string{"policies/"},
			expectPath:   "policies/",
			expectFormat: "text",
			expectLevel:  "info",
		},
		{
			name:         "policy flag",
			args:         []string{"-policy", "prod.hcl"},
			expectPath:   "prod.hcl",
			expectFormat: "text",
			expectLevel:  "info",
		},
		{
			name:         "shorthand flag",
			args:         []string{"-p", "prod.hcl"},
			expectPath:   "prod.hcl",
			expectFormat: "text",
			expectLevel:  "info",
		},
		{
			name:         "flag wins over positional",
			args:         []string{"-policy", "flagged.hcl", "positional.hcl"},
			expectPath:   "flagged.hcl",
			expectFormat: "text",
			expectLevel:  "info",
		},
		{
			name:         "strict and logging options",
			args:         []string{"-strict", "-log-format", "json", "-log-level", "debug", "prod.hcl"},
			expectPath:   "prod.hcl",
			expectStrict: true,
			expectFormat: "json",
			expectLevel:  "debug",
		},
		{
			name:         "log options are case-insensitive",
			args:         []string{"-log-format", "Pretty", "-log-level", "WARN", "prod.hcl"},
			expectPath:   "prod.hcl",
			expectFormat: "pretty",
			expectLevel:  "warn",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			config, exitClean, err := Parse(tc.args, &out)
			require.NoError(t, err)
			require.False(t, exitClean)
			require.NotNil(t, config)
			assert.Equal(t, tc.expectPath, config.PolicyPath)
			assert.Equal(t, tc.expectStrict, config.Strict)
			assert.Equal(t, tc.expectFormat, config.LogFormat)
			assert.Equal(t, tc.expectLevel, config.LogLevel)
		})
	}
}

func TestParseRejectsInvalidOptions(t *testing.T) {
	testCases := []struct {
		name      string
		args      []string
		expectMsg string
	}{
		{
			name:      "bad log format",
			args:      []string{"-log-format", "xml", "prod.hcl"},
			expectMsg: "invalid log-format",
		},
		{
			name:      "bad log level",
			args:      []string{"-log-level", "verbose", "prod.hcl"},
			expectMsg: "invalid log-level",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			_, _, err := Parse(tc.args, &out)
			require.Error(t, err)

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, err.Error(), tc.expectMsg)
		})
	}
}

func TestParseNoArgsPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	config, exitClean, err := Parse(nil, &out)
	require.NoError(t, err)
	assert.True(t, exitClean)
	assert.Nil(t, config)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseHelpFlag(t *testing.T) {
	var out bytes.Buffer
	config, exitClean, err := Parse([]string{"-h"}, &out)
	require.NoError(t, err)
	assert.True(t, exitClean)
	assert.Nil(t, config)
}

func TestParseUnknownFlag(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"-bogus"}, &out)
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}
