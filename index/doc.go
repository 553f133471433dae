// Package index maps hashblock keys to the reference positions where the
// keyed content occurs.
//
// One table is kept per indexed pyramid level. A key seen once is stored as
// a single position in a block store; a key seen again is promoted to a
// roaring bitmap of positions. Keys that occur more often than the
// configured match limit are reported as uninformative by Lookup.
//
// Positions are global: the offset of the block start within the
// concatenation of all reference sequences. Locate converts them back.
package index
