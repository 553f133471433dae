// Package s3 stores blobs in Amazon S3.
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "indexes/")
//
// Reads use ranged GETs, streaming writes go through the multipart
// uploader, and whole-blob writes carry a CRC32C checksum.
package s3
