// Package hashblock derives content-defined blocks from a sequence.
//
// A block is identified by a 64-bit key that depends only on the bases it
// covers, so identical content anywhere in any sequence yields the same key.
// Blocks are organised in levels: level 0 holds single bases and each higher
// level merges two or three adjacent blocks of the level below. Whether a
// third block is appended is decided by the merged key, which makes block
// boundaries a function of content rather than of position.
//
// Ambiguous bases expand into one conditional possibility per canonical base
// they stand for. A MultiHashBlock carries either a single plain block or the
// set of conditional possibilities that start at one position.
package hashblock
