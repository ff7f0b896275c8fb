package gridbuf

import (
	"unsafe"

	"github.com/hupe1980/gridbuf/meta"
)

// Idx is the signed element index used for counts and offset-index entries.
type Idx = int64

// AllScenarios selects the whole batch in span accessors.
const AllScenarios Idx = -1

// Ragged is the ElementsPerScenario marker of a component whose element
// count varies per scenario.
const Ragged Idx = -1

// Data is a non-owning handle to caller memory. The zero value is null.
type Data struct {
	ptr   unsafe.Pointer
	size  uintptr
	sized bool
	set   bool
}

// DataOf wraps a Go slice. The byte length is known and checked on attach.
// An empty slice is a valid, non-null handle.
func DataOf[T any](s []T) Data {
	return Data{
		ptr:   unsafe.Pointer(unsafe.SliceData(s)),
		size:  uintptr(len(s)) * unsafe.Sizeof(*new(T)),
		sized: true,
		set:   true,
	}
}

// RawData wraps foreign memory of unknown length. A nil pointer is null.
func RawData(p unsafe.Pointer) Data {
	if p == nil {
		return Data{}
	}
	return Data{ptr: p, set: true}
}

// IsNull reports whether d references no memory.
func (d Data) IsNull() bool { return !d.set }

// Pointer returns the start address.
func (d Data) Pointer() unsafe.Pointer { return d.ptr }

// Len returns the byte length and whether it is known.
func (d Data) Len() (uintptr, bool) { return d.size, d.sized }

// Bytes returns the memory as a byte slice. It is nil unless the length is
// known.
func (d Data) Bytes() []byte {
	if !d.sized || d.size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(d.ptr), d.size)
}

// advance returns d shifted by off bytes and bounded to n bytes.
func (d Data) advance(off, n uintptr) Data {
	if d.IsNull() {
		return d
	}
	out := Data{ptr: d.ptr, size: n, sized: d.sized, set: true}
	if d.ptr != nil && off > 0 && n > 0 {
		out.ptr = unsafe.Add(d.ptr, off)
	}
	return out
}

// fits reports whether d can hold n bytes. Unknown lengths always fit.
func (d Data) fits(n uintptr) bool {
	return !d.sized || d.size >= n
}

// AttributeBuffer is one column of a columnar component.
type AttributeBuffer struct {
	Attribute *meta.Attribute
	Data      Data
}

// Buffer is the memory attached for one component. Data is null in
// columnar mode. Indptr is nil for uniform components.
type Buffer struct {
	Data       Data
	Attributes []AttributeBuffer
	Indptr     []Idx
}

// IsColumnar reports whether the buffer is in columnar mode.
func (b *Buffer) IsColumnar() bool { return b.Data.IsNull() }

// Attribute returns the column attached for the named attribute.
func (b *Buffer) Attribute(name string) (AttributeBuffer, bool) {
	for _, a := range b.Attributes {
		if a.Attribute.Name == name {
			return a, true
		}
	}
	return AttributeBuffer{}, false
}

func (b Buffer) clone() Buffer {
	if b.Attributes != nil {
		attrs := make([]AttributeBuffer, len(b.Attributes))
		copy(attrs, b.Attributes)
		b.Attributes = attrs
	}
	return b
}

// ComponentInfo describes the cardinality of one attached component.
type ComponentInfo struct {
	Component *meta.Component
	// ElementsPerScenario is >= 0 for uniform layouts and Ragged otherwise.
	ElementsPerScenario Idx
	TotalElements       Idx
}

// IsRagged reports whether the element count varies per scenario.
func (c ComponentInfo) IsRagged() bool { return c.ElementsPerScenario == Ragged }

// Description is the shape of a dataset.
type Description struct {
	IsBatch   bool
	BatchSize Idx
	Dataset   *meta.Dataset
	// ComponentInfo is in attach order.
	ComponentInfo []ComponentInfo
}
