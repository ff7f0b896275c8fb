package columnar

import (
	"math"
	"testing"
	"unsafe"

	"github.com/hupe1980/gridbuf/meta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID     int32   `pgm:"id"`
	U      float64 `pgm:"u"`
	Status int8    `pgm:"status"`
}

type fixture struct {
	comp *meta.Component
	id   []int32
	u    []float64
	cols []Column
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c, err := meta.NewComponent[record]("rec")
	require.NoError(t, err)

	f := &fixture{
		comp: &c,
		id:   []int32{1, 2, 3, 4},
		u:    []float64{10, 20, 30, 40},
	}
	idAttr, err := c.Attribute("id")
	require.NoError(t, err)
	uAttr, err := c.Attribute("u")
	require.NoError(t, err)
	f.cols = []Column{
		{Attribute: idAttr, Data: unsafe.Pointer(&f.id[0])},
		{Attribute: uAttr, Data: unsafe.Pointer(&f.u[0])},
	}
	return f
}

func TestConstRangeGather(t *testing.T) {
	f := newFixture(t)
	r := NewConstRange[record](f.comp, 4, f.cols)

	assert.Equal(t, 4, r.Len())
	got := r.Get(2)
	assert.Equal(t, int32(3), got.ID)
	assert.Equal(t, 30.0, got.U)
	assert.Equal(t, meta.NaNInt8, got.Status, "missing column reads as not-a-value")

	assert.Equal(t, got, r.At(2).Get())

	var ids []int32
	for v := range r.Values() {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []int32{1, 2, 3, 4}, ids)

	for i, p := range r.All() {
		assert.Equal(t, f.u[i], p.Get().U)
	}

	assert.Panics(t, func() { r.Get(4) })
	assert.Panics(t, func() { r.At(-1) })
}

func TestRangeScatter(t *testing.T) {
	f := newFixture(t)
	r := NewRange[record](f.comp, 4, f.cols)

	r.Set(1, record{ID: 7, U: 7.5, Status: 1})
	assert.Equal(t, int32(7), f.id[1])
	assert.Equal(t, 7.5, f.u[1])

	got := r.Get(1)
	assert.Equal(t, int32(7), got.ID)
	assert.Equal(t, 7.5, got.U)
	assert.Equal(t, meta.NaNInt8, got.Status, "absent field dropped on write")

	p := r.At(3)
	v := p.Get()
	v.U = math.Pi
	p.Set(v)
	assert.Equal(t, math.Pi, f.u[3])
	assert.Equal(t, int32(4), f.id[3])

	// partial write through a record with NaN fields still overwrites
	r.Set(0, record{ID: meta.NaNInt32, U: 1})
	assert.Equal(t, meta.NaNInt32, f.id[0])
}

func TestRangeSlice(t *testing.T) {
	f := newFixture(t)
	r := NewRange[record](f.comp, 4, f.cols)

	s := r.Slice(1, 3)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, int32(2), s.Get(0).ID)
	assert.Equal(t, int32(3), s.Get(1).ID)
	assert.Panics(t, func() { s.Get(2) })
	assert.Panics(t, func() { r.Slice(3, 5) })

	cols := s.Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, unsafe.Pointer(&f.id[1]), cols[0].Data)

	empty := r.Slice(2, 2)
	assert.Equal(t, 0, empty.Len())
	assert.True(t, empty.Begin().Equal(empty.End()))
}

func TestIterator(t *testing.T) {
	f := newFixture(t)
	r := NewRange[record](f.comp, 4, f.cols)

	begin, end := r.Begin(), r.End()
	assert.Equal(t, 4, end.Distance(begin))
	assert.Equal(t, -4, begin.Distance(end))
	assert.True(t, begin.Less(end))
	assert.False(t, end.Less(begin))

	it := begin
	assert.True(t, it.Inc().Equal(begin.Add(1)))
	old := it.PostInc()
	assert.Equal(t, 1, old.Index())
	assert.Equal(t, 2, it.Index())
	assert.Equal(t, int32(3), it.Get().ID)

	it.Dec()
	assert.Equal(t, 1, it.Index())
	old = it.PostDec()
	assert.Equal(t, 1, old.Index())
	assert.True(t, it.Equal(begin))

	assert.True(t, end.Sub(4).Equal(begin))

	it.Add(2).Proxy().Set(record{ID: 99, U: 9})
	assert.Equal(t, int32(99), f.id[2])

	assert.Panics(t, func() { end.Proxy() })

	n := 0
	for i := r.Begin(); !i.Equal(r.End()); i.Inc() {
		n++
	}
	assert.Equal(t, 4, n)
}

func TestIteratorPathIndependence(t *testing.T) {
	f := newFixture(t)
	a := NewConstRange[record](f.comp, 4, f.cols)
	b := NewConstRange[record](f.comp, 4, f.cols)

	direct := a.Begin().Add(3)
	viaSlice := a.Slice(2, 4).Begin().Add(1)
	other := b.End().Sub(1)

	assert.True(t, direct.Equal(viaSlice))
	assert.True(t, direct.Equal(other))
	assert.Equal(t, 0, direct.Distance(viaSlice))
	assert.Equal(t, direct.Get(), viaSlice.Get())
	assert.Equal(t, a.Get(3), other.Get())

	g := newFixture(t)
	c := NewConstRange[record](g.comp, 4, g.cols)
	assert.False(t, direct.Equal(c.Begin().Add(3)), "different arrays")

	m := NewRange[record](f.comp, 4, f.cols)
	assert.True(t, m.Begin().Add(3).Const().Equal(direct))
}

func TestNewRangeSizeMismatch(t *testing.T) {
	f := newFixture(t)
	assert.Panics(t, func() { NewConstRange[int64](f.comp, 1, nil) })
	assert.Panics(t, func() { NewRange[record](f.comp, -1, nil) })
}

func TestColumnAdvance(t *testing.T) {
	f := newFixture(t)
	c := f.cols[1].Advance(2)
	assert.Equal(t, 30.0, *(*float64)(c.Data))
}
