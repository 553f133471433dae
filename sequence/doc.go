// Package sequence provides 4-bit basepair codes and immutable packed sequences.
//
// Every symbol is a bitmask over the four canonical bases:
//
//	A = 0001, C = 0010, G = 0100, T = 1000
//
// Ambiguity codes (IUPAC R, Y, S, W, K, M, B, D, H, V, N) set two or more bits and
// are the bitwise union of the bases they may represent. Two codes can match iff
// their intersection is non-zero.
//
// Sequences store four codes per uint16 and are shared read-only after Build.
package sequence
