package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/vk/policyc/internal/ctxlog"
	"github.com/vk/policyc/internal/fsutil"
	"github.com/vk/policyc/internal/resolver"
)

// Loader discovers and parses policy configuration files.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a new HCL policy loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Files returns the parser's file table, used to render diagnostics with
// source snippets.
func (l *Loader) Files() map[string]*hcl.File {
	return l.parser.Files()
}

// LoadPaths walks every given path (file or directory), parses each .hcl
// file found, and returns the flattened list of top-level directive inputs.
// Syntax and literal-evaluation problems are accumulated as diagnostics
// rather than aborting at the first file.
func (l *Loader) LoadPaths(ctx context.Context, paths ...string) ([]resolver.Input, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Cannot read configuration path",
				Detail:   fmt.Sprintf("Error accessing %s: %s.", path, err),
			}}
		}
		files = append(files, found...)
	}
	logger.Debug("Discovered policy files.", "count", len(files))

	var inputs []resolver.Input
	var diags hcl.Diagnostics
	for _, file := range files {
		fileInputs, fileDiags := l.LoadFile(ctx, file)
		diags = append(diags, fileDiags...)
		inputs = append(inputs, fileInputs...)
	}
	return inputs, diags
}

// LoadFile parses a single file into directive inputs.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]resolver.Input, hcl.Diagnostics) {
	file, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, diags
	}
	return l.fileInputs(ctx, file, diags)
}

// ParseSource parses in-memory source, for tests and embedded use.
func (l *Loader) ParseSource(ctx context.Context, filename string, src []byte) ([]resolver.Input, hcl.Diagnostics) {
	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	return l.fileInputs(ctx, file, diags)
}

func (l *Loader) fileInputs(ctx context.Context, file *hcl.File, diags hcl.Diagnostics) ([]resolver.Input, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		// hclparse on native syntax always yields *hclsyntax.Body.
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unsupported configuration syntax",
			Detail:   "Policy files must use HCL native syntax.",
		})
	}

	var inputs []resolver.Input
	for _, attr := range body.Attributes {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unexpected top-level attribute",
			Detail:   fmt.Sprintf("Only directive blocks are allowed at the top level, but %q is an attribute.", attr.Name),
			Subject:  attr.NameRange.Ptr(),
		})
	}
	for _, block := range body.Blocks {
		mapping, blockDiags := l.blockToMapping(block)
		diags = append(diags, blockDiags...)
		if blockDiags.HasErrors() {
			continue
		}
		inputs = append(inputs, resolver.Input{Name: block.Type, Body: mapping})
	}
	logger.Debug("Translated policy file.", "directives", len(inputs))
	return inputs, diags
}
