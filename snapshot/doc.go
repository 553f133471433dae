// Package snapshot persists an index so that it can be loaded without
// recomputing the hashblock pyramids.
//
// A snapshot is a header followed by sections:
//
//	magic "SQMI" | version u32 | codec name (u8 length + bytes) | compression u8
//	section*     | end marker
//
// Each section is [type u8][level u8][raw length u64][stored length u64]
// [crc32c of raw u32] followed by the stored payload. The manifest section
// holds the index parameters and sequence names, encoded with the codec
// named in the header. Sequence sections carry the packed bases; singles
// and repeats sections carry the key tables of one level.
//
//	err := snapshot.Save(ctx, store, "hg38.snap", idx)
//	idx, err := snapshot.Load(ctx, store, "hg38.snap")
package snapshot
