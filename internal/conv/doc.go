// Package conv provides checked integer conversions and fixed-width
// little-endian packing for block-store payloads.
//
// Use it where a value crosses from an unbounded Go int into a stored width
// (block indexes, packed positions). Loop indices and other provably bounded
// values use plain casts.
package conv
