package columnar

import (
	"iter"
	"unsafe"

	"github.com/hupe1980/gridbuf/meta"
)

// ConstRange is a read-only sequence of n records of type T.
type ConstRange[T any] struct {
	v view
}

// NewConstRange builds a read-only range over n records. T must have the
// component's row size. Each column must hold at least n elements.
func NewConstRange[T any](comp *meta.Component, n int, cols []Column) ConstRange[T] {
	return ConstRange[T]{v: newView[T](comp, n, cols)}
}

// Len returns the number of records.
func (r ConstRange[T]) Len() int { return r.v.n }

// At returns a proxy bound to record i.
func (r ConstRange[T]) At(i int) ConstProxy[T] {
	r.v.check(i)
	return ConstProxy[T]{v: r.v, i: i}
}

// Get gathers record i.
func (r ConstRange[T]) Get(i int) T {
	r.v.check(i)
	var out T
	r.v.gather(i, unsafe.Pointer(&out))
	return out
}

// Begin returns an iterator at the first record.
func (r ConstRange[T]) Begin() ConstIterator[T] { return ConstIterator[T]{cursor{v: r.v}} }

// End returns an iterator one past the last record.
func (r ConstRange[T]) End() ConstIterator[T] { return ConstIterator[T]{cursor{v: r.v, i: r.v.n}} }

// Slice returns records [lo, hi).
func (r ConstRange[T]) Slice(lo, hi int) ConstRange[T] {
	return ConstRange[T]{v: r.v.slice(lo, hi)}
}

// Columns returns the attached columns advanced to the first record.
func (r ConstRange[T]) Columns() []Column { return r.v.columns() }

// All yields every index with its proxy.
func (r ConstRange[T]) All() iter.Seq2[int, ConstProxy[T]] {
	return func(yield func(int, ConstProxy[T]) bool) {
		for i := 0; i < r.v.n; i++ {
			if !yield(i, ConstProxy[T]{v: r.v, i: i}) {
				return
			}
		}
	}
}

// Values yields every gathered record.
func (r ConstRange[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < r.v.n; i++ {
			var out T
			r.v.gather(i, unsafe.Pointer(&out))
			if !yield(out) {
				return
			}
		}
	}
}

// Range is a read-write sequence of n records of type T.
type Range[T any] struct {
	v view
}

// NewRange builds a mutable range over n records.
func NewRange[T any](comp *meta.Component, n int, cols []Column) Range[T] {
	return Range[T]{v: newView[T](comp, n, cols)}
}

// Const narrows the range to read-only.
func (r Range[T]) Const() ConstRange[T] { return ConstRange[T](r) }

// Len returns the number of records.
func (r Range[T]) Len() int { return r.v.n }

// At returns a proxy bound to record i.
func (r Range[T]) At(i int) Proxy[T] {
	r.v.check(i)
	return Proxy[T]{v: r.v, i: i}
}

// Get gathers record i.
func (r Range[T]) Get(i int) T { return r.Const().Get(i) }

// Set scatters value into record i.
func (r Range[T]) Set(i int, value T) {
	r.v.check(i)
	r.v.scatter(i, unsafe.Pointer(&value))
}

// Begin returns an iterator at the first record.
func (r Range[T]) Begin() Iterator[T] { return Iterator[T]{cursor{v: r.v}} }

// End returns an iterator one past the last record.
func (r Range[T]) End() Iterator[T] { return Iterator[T]{cursor{v: r.v, i: r.v.n}} }

// Slice returns records [lo, hi).
func (r Range[T]) Slice(lo, hi int) Range[T] {
	return Range[T]{v: r.v.slice(lo, hi)}
}

// Columns returns the attached columns advanced to the first record.
func (r Range[T]) Columns() []Column { return r.v.columns() }

// All yields every index with its proxy.
func (r Range[T]) All() iter.Seq2[int, Proxy[T]] {
	return func(yield func(int, Proxy[T]) bool) {
		for i := 0; i < r.v.n; i++ {
			if !yield(i, Proxy[T]{v: r.v, i: i}) {
				return
			}
		}
	}
}

// Values yields every gathered record.
func (r Range[T]) Values() iter.Seq[T] { return r.Const().Values() }

// ConstProxy is a read-only handle to one record.
type ConstProxy[T any] struct {
	v view
	i int
}

// Get gathers the record.
func (p ConstProxy[T]) Get() T {
	var out T
	p.v.gather(p.i, unsafe.Pointer(&out))
	return out
}

// Proxy is a read-write handle to one record.
type Proxy[T any] struct {
	v view
	i int
}

// Get gathers the record.
func (p Proxy[T]) Get() T { return ConstProxy[T](p).Get() }

// Set scatters value into the attached columns.
func (p Proxy[T]) Set(value T) {
	p.v.scatter(p.i, unsafe.Pointer(&value))
}
