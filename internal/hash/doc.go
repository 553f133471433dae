// Package hash provides the content hashing used across seqmap.
//
// # Content keys
//
// Hashblock keys are 64-bit values derived only from sequence content, so the
// same subsequence produces the same key in any sequence and any process:
//
//	k := hash.BaseKey(code)
//	k = hash.Combine(k, other)
//
// Combine is order-sensitive and seeded from CRC32-Castagnoli of a fixed tag.
//
// # Checksums
//
// Snapshot sections are checksummed with CRC32-Castagnoli (CRC32C), which Go's
// crc32 package accelerates in hardware on x86 (SSE4.2) and ARM (CRC extension).
package hash
