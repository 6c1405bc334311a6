package builtin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/policyc/internal/policy"
	"github.com/vk/policyc/internal/registry"
	"github.com/vk/policyc/internal/resolver"
	"github.com/vk/policyc/internal/value"
)

func newResolver(t *testing.T) *resolver.Resolver {
	t.Helper()
	reg, err := registry.Build(Schemas()...)
	require.NoError(t, err)
	return resolver.New(reg, resolver.Options{})
}

func TestSchemasRegisterCleanly(t *testing.T) {
	reg, err := registry.Build(Schemas()...)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"backoff", "cluster", "dispatcher",
		"one-for-all", "one-for-one",
		"process", "redirect", "rest-for-one",
		"retries", "strategy",
	}, reg.Names())
}

func TestRetries(t *testing.T) {
	r := newResolver(t)

	testCases := []struct {
		name     string
		body     map[string]value.Value
		expected *policy.Retry
	}{
		{
			name:     "count only",
			body:     map[string]value.Value{"count": value.Int(5)},
			expected: &policy.Retry{Count: 5},
		},
		{
			name: "count with window",
			body: map[string]value.Value{
				"count":  value.Int(3),
				"within": value.String("10s"),
			},
			expected: &policy.Retry{Count: 3, Within: 10 * time.Second},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			obj, err := r.Resolve("retries", value.Mapping(tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, obj)
		})
	}
}

func TestBackoff(t *testing.T) {
	r := newResolver(t)

	testCases := []struct {
		name     string
		body     map[string]value.Value
		expected policy.Object
	}{
		{
			name:     "fixed",
			body:     map[string]value.Value{"duration": value.String("5s")},
			expected: &policy.FixedBackoff{Duration: 5 * time.Second},
		},
		{
			name: "ramp",
			body: map[string]value.Value{
				"min":  value.String("1s"),
				"max":  value.String("1m"),
				"step": value.String("5s"),
			},
			expected: &policy.RampBackoff{Min: time.Second, Max: time.Minute, Step: 5 * time.Second},
		},
		{
			name: "explicit steps",
			body: map[string]value.Value{
				"steps": value.Array(
					value.String("1s"),
					value.String("5s"),
					value.String("30s"),
				),
			},
			expected: &policy.StepBackoff{Steps: []time.Duration{
				time.Second, 5 * time.Second, 30 * time.Second,
			}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			obj, err := r.Resolve("backoff", value.Mapping(tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, obj)
		})
	}
}

func TestRestartDisciplines(t *testing.T) {
	r := newResolver(t)

	// Bare block means the mode with zero-valued tuning.
	obj, err := r.Resolve("one-for-one", value.Mapping(map[string]value.Value{}))
	require.NoError(t, err)
	assert.Equal(t, &policy.Restart{Mode: policy.OneForOne}, obj)

	obj, err = r.Resolve("one-for-all", value.Mapping(map[string]value.Value{
		"intensity": value.Int(10),
		"period":    value.String("1m"),
	}))
	require.NoError(t, err)
	assert.Equal(t, &policy.Restart{Mode: policy.OneForAll, Intensity: 10, Period: time.Minute}, obj)

	obj, err = r.Resolve("rest-for-one", value.Mapping(map[string]value.Value{}))
	require.NoError(t, err)
	assert.Equal(t, &policy.Restart{Mode: policy.RestForOne}, obj)
}

func TestRedirect(t *testing.T) {
	r := newResolver(t)

	obj, err := r.Resolve("redirect", value.Mapping(map[string]value.Value{
		"when": value.String("max_retries_exceeded"),
		"to":   value.String("escalate"),
	}))
	require.NoError(t, err)
	assert.Equal(t, &policy.Redirect{
		When: "max_retries_exceeded",
		To:   policy.DirectiveRef("escalate"),
	}, obj)
}

// The strategy schema lists its richest shapes first, so a body carrying a
// refinement ladder never degrades to the bare-mode variant.
func TestStrategyPicksRichestShape(t *testing.T) {
	r := newResolver(t)

	obj, err := r.Resolve("strategy", value.Mapping(map[string]value.Value{
		"rest-for-one": value.Mapping(map[string]value.Value{}),
		"retries":      value.Mapping(map[string]value.Value{"count": value.Int(2)}),
		"backoff":      value.Mapping(map[string]value.Value{"duration": value.String("3s")}),
	}))
	require.NoError(t, err)

	strategy, ok := obj.(*policy.Strategy)
	require.True(t, ok)
	assert.Equal(t, policy.RestForOne, strategy.Restart.Mode)
	require.NotNil(t, strategy.Retry)
	assert.Equal(t, int64(2), strategy.Retry.Count)
	assert.Equal(t, &policy.FixedBackoff{Duration: 3 * time.Second}, strategy.Backoff)
	assert.Nil(t, strategy.Redirects)
}

func TestStrategyBareMode(t *testing.T) {
	r := newResolver(t)

	obj, err := r.Resolve("strategy", value.Mapping(map[string]value.Value{
		"one-for-all": value.Mapping(map[string]value.Value{}),
	}))
	require.NoError(t, err)

	strategy, ok := obj.(*policy.Strategy)
	require.True(t, ok)
	assert.Equal(t, &policy.Restart{Mode: policy.OneForAll}, strategy.Restart)
	assert.Nil(t, strategy.Retry)
	assert.Nil(t, strategy.Backoff)
}

func TestProcess(t *testing.T) {
	r := newResolver(t)

	testCases := []struct {
		name     string
		body     map[string]value.Value
		expected func(t *testing.T, p *policy.Process)
	}{
		{
			name: "name only",
			body: map[string]value.Value{"name": value.String("worker")},
			expected: func(t *testing.T, p *policy.Process) {
				assert.Equal(t, "worker", p.Name)
				assert.Nil(t, p.Strategy)
			},
		},
		{
			name: "strategy by reference",
			body: map[string]value.Value{
				"name":     value.String("worker"),
				"strategy": value.String("db-strategy"),
			},
			expected: func(t *testing.T, p *policy.Process) {
				assert.Equal(t, policy.DirectiveRef("db-strategy"), p.Strategy)
			},
		},
		{
			name: "inline strategy with flags",
			body: map[string]value.Value{
				"name": value.String("worker"),
				"strategy": value.Mapping(map[string]value.Value{
					"one-for-one": value.Mapping(map[string]value.Value{}),
				}),
				"flags": value.Array(value.String("transient"), value.String("critical")),
			},
			expected: func(t *testing.T, p *policy.Process) {
				strategy, ok := p.Strategy.(*policy.Strategy)
				require.True(t, ok)
				assert.Equal(t, policy.OneForOne, strategy.Restart.Mode)
				assert.Equal(t, []string{"transient", "critical"}, p.Flags)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			obj, err := r.Resolve("process", value.Mapping(tc.body))
			require.NoError(t, err)
			p, ok := obj.(*policy.Process)
			require.True(t, ok)
			tc.expected(t, p)
		})
	}
}

func TestDispatcher(t *testing.T) {
	r := newResolver(t)

	obj, err := r.Resolve("dispatcher", value.Mapping(map[string]value.Value{
		"type":       value.String("pinned"),
		"throughput": value.Int(50),
	}))
	require.NoError(t, err)
	assert.Equal(t, &policy.Dispatcher{Type: "pinned", Throughput: 50}, obj)

	obj, err = r.Resolve("dispatcher", value.Mapping(map[string]value.Value{
		"type": value.String("shared"),
	}))
	require.NoError(t, err)
	assert.Equal(t, &policy.Dispatcher{Type: "shared"}, obj)
}

func TestCluster(t *testing.T) {
	r := newResolver(t)

	obj, err := r.Resolve("cluster", value.Mapping(map[string]value.Value{
		"name": value.String("db"),
		"processes": value.Array(
			value.String("writer"),
			value.String("reader-1"),
			value.String("reader-2"),
		),
	}))
	require.NoError(t, err)
	assert.Equal(t, &policy.Cluster{
		Name:      "db",
		Processes: []string{"writer", "reader-1", "reader-2"},
	}, obj)
}
