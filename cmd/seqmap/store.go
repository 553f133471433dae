package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/seqmap/blobstore"
	miniostore "github.com/hupe1980/seqmap/blobstore/minio"
	s3store "github.com/hupe1980/seqmap/blobstore/s3"
)

// openStore resolves a store location. Supported forms are a local
// directory, s3://bucket/prefix and minio://host:port/bucket/prefix
// (miniossl:// for TLS). MinIO credentials come from MINIO_ACCESS_KEY and
// MINIO_SECRET_KEY.
func openStore(ctx context.Context, loc string) (blobstore.BlobStore, error) {
	u, err := url.Parse(loc)
	if err != nil || len(u.Scheme) <= 1 || u.Scheme == "file" {
		// Plain paths, including Windows drive letters.
		dir := loc
		if err == nil && u.Scheme == "file" {
			dir = u.Path
		}
		return blobstore.NewLocalStore(filepath.Clean(dir)), nil
	}

	switch u.Scheme {
	case "s3":
		if u.Host == "" {
			return nil, fmt.Errorf("store %q: missing bucket", loc)
		}
		return s3store.New(ctx, u.Host, strings.Trim(u.Path, "/"))
	case "minio", "miniossl":
		bucket, prefix, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
		if u.Host == "" || bucket == "" {
			return nil, fmt.Errorf("store %q: expected minio://host/bucket[/prefix]", loc)
		}
		client, err := minio.New(u.Host, &minio.Options{
			Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
			Secure: u.Scheme == "miniossl",
		})
		if err != nil {
			return nil, err
		}
		return miniostore.NewStore(client, bucket, prefix), nil
	}
	return nil, fmt.Errorf("store %q: unsupported scheme %q", loc, u.Scheme)
}
