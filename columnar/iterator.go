package columnar

// cursor is a position within a view. Positions are absolute over the
// underlying columns, so iterators reached by different paths compare equal.
type cursor struct {
	v view
	i int
}

func (c cursor) pos() int { return c.v.base + c.i }

// Index returns the position relative to the range start.
func (c cursor) Index() int { return c.i }

// Distance returns c - other.
func (c cursor) Distance(other cursor) int { return c.pos() - other.pos() }

// Equal reports whether both cursors address the same record.
func (c cursor) Equal(other cursor) bool {
	return c.pos() == other.pos() && c.v.sameColumns(&other.v)
}

// Less reports whether c precedes other.
func (c cursor) Less(other cursor) bool { return c.pos() < other.pos() }

// ConstIterator is a random-access iterator over a ConstRange.
type ConstIterator[T any] struct {
	cursor
}

// Add returns the iterator moved forward by n.
func (it ConstIterator[T]) Add(n int) ConstIterator[T] {
	it.i += n
	return it
}

// Sub returns the iterator moved backward by n.
func (it ConstIterator[T]) Sub(n int) ConstIterator[T] {
	it.i -= n
	return it
}

// Distance returns it - other.
func (it ConstIterator[T]) Distance(other ConstIterator[T]) int { return it.cursor.Distance(other.cursor) }

// Equal reports whether both iterators address the same record.
func (it ConstIterator[T]) Equal(other ConstIterator[T]) bool { return it.cursor.Equal(other.cursor) }

// Less reports whether it precedes other.
func (it ConstIterator[T]) Less(other ConstIterator[T]) bool { return it.cursor.Less(other.cursor) }

// Inc advances it and returns the new position.
func (it *ConstIterator[T]) Inc() ConstIterator[T] {
	it.i++
	return *it
}

// Dec moves it back and returns the new position.
func (it *ConstIterator[T]) Dec() ConstIterator[T] {
	it.i--
	return *it
}

// PostInc advances it and returns the old position.
func (it *ConstIterator[T]) PostInc() ConstIterator[T] {
	old := *it
	it.i++
	return old
}

// PostDec moves it back and returns the old position.
func (it *ConstIterator[T]) PostDec() ConstIterator[T] {
	old := *it
	it.i--
	return old
}

// Proxy dereferences the iterator.
func (it ConstIterator[T]) Proxy() ConstProxy[T] {
	it.v.check(it.i)
	return ConstProxy[T]{v: it.v, i: it.i}
}

// Get gathers the record at the iterator.
func (it ConstIterator[T]) Get() T { return it.Proxy().Get() }

// Iterator is a random-access iterator over a Range.
type Iterator[T any] struct {
	cursor
}

// Add returns the iterator moved forward by n.
func (it Iterator[T]) Add(n int) Iterator[T] {
	it.i += n
	return it
}

// Sub returns the iterator moved backward by n.
func (it Iterator[T]) Sub(n int) Iterator[T] {
	it.i -= n
	return it
}

// Distance returns it - other.
func (it Iterator[T]) Distance(other Iterator[T]) int { return it.cursor.Distance(other.cursor) }

// Equal reports whether both iterators address the same record.
func (it Iterator[T]) Equal(other Iterator[T]) bool { return it.cursor.Equal(other.cursor) }

// Less reports whether it precedes other.
func (it Iterator[T]) Less(other Iterator[T]) bool { return it.cursor.Less(other.cursor) }

// Inc advances it and returns the new position.
func (it *Iterator[T]) Inc() Iterator[T] {
	it.i++
	return *it
}

// Dec moves it back and returns the new position.
func (it *Iterator[T]) Dec() Iterator[T] {
	it.i--
	return *it
}

// PostInc advances it and returns the old position.
func (it *Iterator[T]) PostInc() Iterator[T] {
	old := *it
	it.i++
	return old
}

// PostDec moves it back and returns the old position.
func (it *Iterator[T]) PostDec() Iterator[T] {
	old := *it
	it.i--
	return old
}

// Proxy dereferences the iterator.
func (it Iterator[T]) Proxy() Proxy[T] {
	it.v.check(it.i)
	return Proxy[T]{v: it.v, i: it.i}
}

// Get gathers the record at the iterator.
func (it Iterator[T]) Get() T { return it.Proxy().Get() }

// Const narrows the iterator to read-only.
func (it Iterator[T]) Const() ConstIterator[T] { return ConstIterator[T](it) }
