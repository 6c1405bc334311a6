// Package registry provides the process-wide table of directive schemas.
//
// The Registry maps directive names (e.g. "retries", "backoff", "strategy")
// to their schema definitions. It is populated exactly once, at startup, from
// a fixed built-in set, and is immutable afterward: concurrent lookups from
// parallel validation passes need no locking because no mutation occurs past
// initialization.
//
// Duplicate registrations, empty variant lists, and the other schema
// authoring defects are detected during Build and abort startup; they are
// programmer errors, never user-configuration errors.
package registry
