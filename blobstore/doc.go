// Package blobstore abstracts where index snapshots and reference files are
// kept.
//
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests
//   - LocalStore: local directory; reads are memory mapped
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible services
//
// Writes through Create become visible only when the blob is closed.
package blobstore
