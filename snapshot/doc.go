// Package snapshot persists datasets as self-describing binary blobs.
//
// A snapshot is a fixed header, the codec name, an encoded manifest and the
// body holding every attached buffer. Sections in the body are aligned so
// an uncompressed snapshot can back a ConstDataset directly from a memory
// mapping. Compressed snapshots and non-mappable stores are decoded into
// owned, aligned buffers.
package snapshot
