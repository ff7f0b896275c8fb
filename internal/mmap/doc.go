// Package mmap maps snapshot files read-only so that datasets can be built
// directly over the file contents without copying.
//
//	m, err := mmap.Open("batch.pgd")
//	if err != nil { ... }
//	defer m.Close()
//
//	data, err := m.Bytes()
//
// Unix uses mmap(2) with madvise(2) for access hints. Windows uses
// CreateFileMapping/MapViewOfFile and ignores hints.
//
// Close is idempotent. Slices obtained from Bytes must not be used after
// Close returns.
package mmap
