// Package testutil provides deterministic data generators for tests and
// benchmarks.
package testutil
