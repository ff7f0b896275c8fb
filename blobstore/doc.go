// Package blobstore abstracts where snapshots live.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process, for tests and short-lived pipelines
//   - LocalStore: local filesystem, memory-mapped reads
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible services
//
// Blobs from MemoryStore and LocalStore implement Mappable, which lets
// uncompressed snapshots be loaded without copying.
package blobstore
