package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/policyc/internal/builtin"
	"github.com/vk/policyc/internal/ctxlog"
	"github.com/vk/policyc/internal/hcl_adapter"
	"github.com/vk/policyc/internal/registry"
	"github.com/vk/policyc/internal/resolver"
)

// App encapsulates the validator's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	resolver *resolver.Resolver
	loader   *hcl_adapter.Loader
	config   *Config
}

// NewApp constructs the application: isolated logger, built-in registry,
// resolver, and loader. A registry build failure is a defect in the shipped
// schema set and is returned as a fatal error.
func NewApp(outW io.Writer, config *Config) (*App, error) {
	logger := newLogger(config.LogLevel, config.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg, err := registry.Build(builtin.Schemas()...)
	if err != nil {
		return nil, fmt.Errorf("building directive registry: %w", err)
	}
	logger.Debug("Directive registry built.", "directives", reg.Len())

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		resolver: resolver.New(reg, resolver.Options{Strict: config.Strict}),
		loader:   hcl_adapter.NewLoader(),
		config:   config,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Run loads the configured policy path, validates every directive it finds,
// and writes a combined report. It returns an error when any directive is
// invalid so the CLI can exit non-zero.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	inputs, diags := a.loader.LoadPaths(ctx, a.config.PolicyPath)
	if diags.HasErrors() {
		a.writeDiagnostics(diags)
		return fmt.Errorf("policy files contain %d parse error(s)", countErrors(diags))
	}
	a.logger.Debug("Policy files loaded.", "directives", len(inputs))

	resolved, errs := a.resolver.ResolveAll(inputs)
	if len(errs) > 0 {
		var valDiags hcl.Diagnostics
		for _, err := range errs {
			valDiags = append(valDiags, diagnosticFromError(err))
		}
		a.writeDiagnostics(valDiags)
		return fmt.Errorf("%d invalid directive(s)", len(errs))
	}

	for _, r := range resolved {
		a.logger.Info("Directive validated.", "directive", r.Name, "object", fmt.Sprintf("%T", r.Object))
	}
	fmt.Fprintf(a.outW, "OK: %d directive(s) validated\n", len(resolved))
	return nil
}

func countErrors(diags hcl.Diagnostics) int {
	n := 0
	for _, d := range diags {
		if d.Severity == hcl.DiagError {
			n++
		}
	}
	return n
}

// writeDiagnostics renders diagnostics with source snippets from the
// loader's file table.
func (a *App) writeDiagnostics(diags hcl.Diagnostics) {
	writer := hcl.NewDiagnosticTextWriter(a.outW, a.loader.Files(), 100, false)
	// Write errors are best-effort; the report target is the user's terminal.
	_ = writer.WriteDiagnostics(diags)
}
