// Package app wires the pieces of the policy validator together: it builds
// the immutable directive registry from the built-in schema set, loads and
// parses the configured policy paths, runs every directive through the
// resolver, and reports all failures in one pass with source positions.
//
// Registry construction errors are schema authoring defects and abort
// startup; user-configuration problems are accumulated and reported, never
// fatal to the process beyond a non-zero exit.
package app
