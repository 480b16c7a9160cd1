// Package mock provides deterministic test doubles for the ai interfaces.
//
// The default behaviors are deterministic (hash-derived vectors, canned
// answers) so tests are repeatable; function fields allow per-test overrides
// for error injection and latency simulation.
package mock
