// Package blockstore provides compact key→byte-array storage for fixed-size blocks.
//
// New picks one of three tiers from the expected block count and width:
//
//   - DirectStore (bytesPerBlock ≤ 4): the block bytes are the index. Nothing is stored.
//   - RowStore: one contiguous row per block in a single growable buffer, bounded by maxBlocks.
//   - ColumnStore: one growable column per in-block offset, used when
//     maxBlocks×bytesPerBlock would exceed math.MaxInt32/2 so no single
//     allocation approaches the signed 32-bit limit.
//
// All tiers support concurrent reads once built. Writes (Put, Write, Clear) must be
// serialized by the caller. Slices returned by Get alias internal storage for the
// row tier and must be treated as read-only.
package blockstore
