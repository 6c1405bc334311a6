// Package hcl_adapter is the concrete parser boundary: it turns policy
// configuration written in HCL into the untyped value trees the resolver
// consumes. Each top-level block becomes one directive input (block type =
// directive name, body = field mapping); nested blocks surface as mapping
// fields, repeated blocks of the same type as arrays. A single block label,
// when present, is injected as the "name" field unless the body already
// defines one.
//
// The adapter evaluates expressions without an evaluation context, so only
// literal values are accepted; anything needing variables or functions is a
// parse-time diagnostic. All problems are reported as hcl.Diagnostics with
// source positions, and every produced value carries its range so the
// resolver's diagnostics can point back into the file.
package hcl_adapter
