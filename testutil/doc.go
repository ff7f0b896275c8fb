// Package testutil generates reproducible grid datasets for tests and
// benchmarks.
//
//	rng := testutil.NewRNG(42)
//	b, err := rng.UpdateBatch(100, 4, true) // ragged sym_load updates
package testutil
