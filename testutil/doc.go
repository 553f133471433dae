// Package testutil provides testing utilities for seqmap.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random references and reads and for
// planting known edits in them.
//
// # Random Sequences
//
//	rng := testutil.NewRNG(seed)
//	ref := rng.Bases(10_000)          // uniform over ACGT
//	read := rng.Substitute(ref[500:600], 3)
//
// # Planted Edits
//
//	testutil.Delete(read, 40, 2)      // drop two bases at offset 40
//	testutil.Insert(read, 40, "GG")   // insert two bases at offset 40
//	testutil.ReverseComplement(read)
package testutil
