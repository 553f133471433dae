// Package minio stores blobs on MinIO or any S3-compatible service through
// the MinIO client.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "genomes", "indexes/")
//	err = snapshot.Save(ctx, store, "hg38.snap", idx)
//
// Streaming writes use an unsized PutObject, so large snapshots are
// uploaded in parts without buffering the whole file.
package minio
