// Package resolver implements the core validation engine: given a directive
// name and the untyped field mapping the parser produced for its body, it
// selects the first matching variant of the registered schema, validates
// every supplied value against its declared type descriptor (recursing into
// arrays, maps, and nested directive blocks), and invokes the variant's
// constructor to produce the typed domain object.
//
// Resolution is a pure computation: it performs no I/O, holds no mutable
// state, and never blocks, so one Resolver can serve any number of
// concurrent validation passes against the same immutable registry. Callers
// validating untrusted or very large input wrap the call in their own
// timeout.
//
// Validation failures are returned as structured errors, never panics; the
// caller decides whether one bad directive aborts the load or is collected
// alongside others (see ResolveAll). Schema authoring defects never surface
// here; registry.Build rejects them at startup.
package resolver
