package columnar

import (
	"fmt"
	"unsafe"

	"github.com/hupe1980/gridbuf/meta"
)

// Column binds one attribute to the first element of its array.
type Column struct {
	Attribute *meta.Attribute
	Data      unsafe.Pointer
}

// Advance returns the column shifted by n elements.
func (c Column) Advance(n int) Column {
	return Column{Attribute: c.Attribute, Data: unsafe.Add(c.Data, uintptr(n)*c.Attribute.Size)}
}

func (c Column) at(i int) []byte {
	return unsafe.Slice((*byte)(unsafe.Add(c.Data, uintptr(i)*c.Attribute.Size)), c.Attribute.Size)
}

// view is the state shared by every range, proxy and iterator.
type view struct {
	comp *meta.Component
	cols []Column
	base int
	n    int
}

func newView[T any](comp *meta.Component, n int, cols []Column) view {
	if size := unsafe.Sizeof(*new(T)); size != comp.Size {
		panic(fmt.Sprintf("columnar: record size %d does not match component %q size %d", size, comp.Name, comp.Size))
	}
	if n < 0 {
		panic("columnar: negative length")
	}
	return view{comp: comp, cols: cols, n: n}
}

func (v *view) check(i int) {
	if i < 0 || i >= v.n {
		panic(fmt.Sprintf("columnar: index %d out of range [0, %d)", i, v.n))
	}
}

func (v *view) gather(i int, dst unsafe.Pointer) {
	v.comp.SetNaN(dst, 1)
	pos := v.base + i
	for _, c := range v.cols {
		a := c.Attribute
		copy(unsafe.Slice((*byte)(unsafe.Add(dst, a.Offset)), a.Size), c.at(pos))
	}
}

func (v *view) scatter(i int, src unsafe.Pointer) {
	pos := v.base + i
	for _, c := range v.cols {
		a := c.Attribute
		copy(c.at(pos), unsafe.Slice((*byte)(unsafe.Add(src, a.Offset)), a.Size))
	}
}

func (v view) slice(lo, hi int) view {
	if lo < 0 || hi < lo || hi > v.n {
		panic(fmt.Sprintf("columnar: slice bounds [%d:%d] out of range [0, %d]", lo, hi, v.n))
	}
	v.base += lo
	v.n = hi - lo
	return v
}

// sameColumns reports whether both views read the same arrays.
func (v *view) sameColumns(o *view) bool {
	if len(v.cols) != len(o.cols) {
		return false
	}
	for i := range v.cols {
		if v.cols[i].Data != o.cols[i].Data || v.cols[i].Attribute.Offset != o.cols[i].Attribute.Offset {
			return false
		}
	}
	return true
}

func (v *view) columns() []Column {
	out := make([]Column, len(v.cols))
	for i, c := range v.cols {
		out[i] = c.Advance(v.base)
	}
	return out
}
