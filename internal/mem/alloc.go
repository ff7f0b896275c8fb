package mem

import (
	"unsafe"
)

// Alignment is the byte alignment of every allocation. It satisfies the
// alignment of every record and column type.
const Alignment = 64

// AllocAligned allocates a byte slice of the given size with 64-byte alignment.
// The returned slice starts at a memory address divisible by 64.
//
// The allocation is slightly larger than requested. The underlying array is
// kept alive by the returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	buf := make([]byte, size+Alignment)

	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // unsafe is required for memory alignment
	offset := (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)

	return buf[offset : offset+uintptr(size)]
}

// AllocAlignedOf allocates n zeroed values of T with 64-byte alignment.
func AllocAlignedOf[T any](n int) []T {
	if n <= 0 {
		return nil
	}
	b := AllocAligned(n * int(unsafe.Sizeof(*new(T))))
	if b == nil {
		return make([]T, n)
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n) //nolint:gosec // unsafe is required for memory alignment
}

// IsAligned reports whether p is divisible by align.
func IsAligned(p unsafe.Pointer, align uintptr) bool {
	return align == 0 || uintptr(p)%align == 0
}
