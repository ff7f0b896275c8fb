// Package s3 stores snapshots in Amazon S3.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("grid/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	err = snapshot.Save(ctx, store, "batch-0001.pgd", ds)
//
// Credentials come from the AWS default chain. Reads use HTTP range
// requests. Create streams a multipart upload. Put sends one request with a
// CRC32C checksum.
package s3
