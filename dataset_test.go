package gridbuf

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/hupe1980/gridbuf/internal/layout"
	"github.com/hupe1980/gridbuf/meta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recA struct {
	ID int32   `pgm:"id"`
	A1 float64 `pgm:"a1"`
}

type recB struct {
	ID int32 `pgm:"id"`
}

type rawRec struct {
	ID int32
	_  int32
	U  float64
}

func testMetaData(t testing.TB) *meta.MetaData {
	t.Helper()
	a := meta.MustComponent[recA]("A")
	b := meta.MustComponent[recB]("B")
	raw, err := meta.NewComponentFromAttributes("raw", 16, 8, []meta.Attribute{
		{Name: "id", CType: meta.CTypeInt32, Offset: 0},
		{Name: "u", CType: meta.CTypeDouble, Offset: 8},
	})
	require.NoError(t, err)

	input, err := meta.NewDataset("input", a, b, raw)
	require.NoError(t, err)
	update, err := meta.NewDataset("update", a, b)
	require.NoError(t, err)
	md, err := meta.New(input, update)
	require.NoError(t, err)
	return md
}

func TestNewDataset(t *testing.T) {
	md := testMetaData(t)

	t.Run("batch sizes", func(t *testing.T) {
		for _, batch := range []Idx{0, 1, 2} {
			ds, err := NewConstDataset(md, true, batch, "input")
			require.NoError(t, err)
			assert.Equal(t, "input", ds.Name())
			assert.True(t, ds.IsBatch())
			assert.Equal(t, batch, ds.BatchSize())
			assert.True(t, ds.Empty())
			assert.Equal(t, 0, ds.NComponents())
			assert.Equal(t, "input", ds.Dataset().Name)
			assert.Same(t, md, ds.MetaData())
		}
	})

	t.Run("non-batch", func(t *testing.T) {
		ds, err := NewMutableDataset(md, false, 1, "input")
		require.NoError(t, err)
		assert.False(t, ds.IsBatch())
		assert.Equal(t, Idx(1), ds.BatchSize())

		for _, batch := range []Idx{0, 2} {
			_, err := NewWritableDataset(md, false, batch, "input")
			assert.ErrorIs(t, err, ErrDataset)
		}
	})

	t.Run("negative batch", func(t *testing.T) {
		_, err := NewConstDataset(md, true, -1, "input")
		assert.ErrorIs(t, err, ErrDataset)
	})

	t.Run("unknown dataset", func(t *testing.T) {
		_, err := NewConstDataset(md, true, 1, "sym_output")
		assert.ErrorIs(t, err, ErrSchema)
		assert.False(t, errors.Is(err, ErrDataset))
	})
}

func TestAddBuffer(t *testing.T) {
	md := testMetaData(t)
	a := make([]recA, 4)
	b := make([]recB, 3)

	ds, err := NewConstDataset(md, true, 2, "input")
	require.NoError(t, err)

	require.NoError(t, ds.AddBuffer("A", 2, 4, nil, DataOf(a)))
	require.NoError(t, ds.AddBuffer("B", Ragged, 3, []Idx{0, 1, 3}, DataOf(b)))

	assert.Equal(t, 2, ds.NComponents())
	assert.False(t, ds.Empty())
	assert.True(t, ds.ContainsComponent("A"))
	assert.False(t, ds.ContainsComponent("raw"))

	desc := ds.Description()
	require.Len(t, desc.ComponentInfo, 2)
	assert.Equal(t, "A", desc.ComponentInfo[0].Component.Name)
	assert.Equal(t, "B", desc.ComponentInfo[1].Component.Name)
	assert.True(t, desc.ComponentInfo[1].IsRagged())

	idx, err := ds.FindComponent("B", true)
	require.NoError(t, err)
	assert.Equal(t, Idx(1), idx)

	idx, err = ds.FindComponent("raw", false)
	require.NoError(t, err)
	assert.Equal(t, Idx(-1), idx)

	_, err = ds.FindComponent("raw", true)
	assert.ErrorIs(t, err, ErrDataset)

	info, err := ds.ComponentInfo("A")
	require.NoError(t, err)
	assert.Equal(t, Idx(2), info.ElementsPerScenario)
	assert.Equal(t, Idx(4), info.TotalElements)

	info, err = ds.ComponentInfoAt(1)
	require.NoError(t, err)
	assert.Equal(t, Idx(3), info.TotalElements)

	_, err = ds.ComponentInfo("raw")
	assert.ErrorIs(t, err, ErrDataset)
	_, err = ds.ComponentInfoAt(2)
	assert.ErrorIs(t, err, ErrDataset)

	buf, err := ds.Buffer("B")
	require.NoError(t, err)
	assert.Equal(t, []Idx{0, 1, 3}, buf.Indptr)
	assert.False(t, buf.IsColumnar())
}

func TestAddBufferErrors(t *testing.T) {
	md := testMetaData(t)
	a := make([]recA, 6)

	tests := []struct {
		name      string
		component string
		eps       Idx
		total     Idx
		indptr    []Idx
		data      Data
		target    error
		cause     error
	}{
		{"unknown component", "C", 1, 2, nil, DataOf(a), ErrSchema, nil},
		{"uniform mismatch", "A", 2, 5, nil, DataOf(a), ErrDataset, layout.ErrCardinality},
		{"negative elements", "A", -2, 0, nil, DataOf(a), ErrDataset, layout.ErrNegative},
		{"negative total", "A", Ragged, -1, []Idx{0, 0, 0}, DataOf(a), ErrDataset, layout.ErrNegative},
		{"ragged without indptr", "A", Ragged, 4, nil, DataOf(a), ErrDataset, layout.ErrIndptrMissing},
		{"uniform with indptr", "A", 2, 4, []Idx{0, 2, 4}, DataOf(a), ErrDataset, layout.ErrIndptrUnexpected},
		{"indptr not starting at zero", "A", Ragged, 5, []Idx{1, 3, 5}, DataOf(a), ErrDataset, layout.ErrIndptrBounds},
		{"indptr not ending at total", "A", Ragged, 5, []Idx{0, 3, 4}, DataOf(a), ErrDataset, layout.ErrIndptrBounds},
		{"indptr too short", "A", Ragged, 5, []Idx{0, 5}, DataOf(a), ErrDataset, layout.ErrIndptrLength},
		{"data too small", "A", 2, 4, nil, DataOf(a[:3]), ErrDataset, errDataTooSmall},
		{"byte length overflows", "A", Ragged, 1 << 60, []Idx{0, 0, 1 << 60}, DataOf(a), ErrDataset, layout.ErrCardinality},
		{"byte length overflows raw", "A", Ragged, 1 << 60, []Idx{0, 0, 1 << 60}, RawData(unsafe.Pointer(&a[0])), ErrDataset, layout.ErrCardinality},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ds, err := NewConstDataset(md, true, 2, "input")
			require.NoError(t, err)

			err = ds.AddBuffer(tc.component, tc.eps, tc.total, tc.indptr, tc.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.target)
			if tc.cause != nil {
				assert.ErrorIs(t, err, tc.cause)
			}
			assert.True(t, ds.Empty(), "failed attach must not change state")
		})
	}

	t.Run("uniform product wraps", func(t *testing.T) {
		ds, err := NewConstDataset(md, true, 4, "input")
		require.NoError(t, err)

		// (1<<62) * 4 wraps to 0 in int64.
		err = ds.AddBuffer("A", 1<<62, 0, nil, DataOf([]recA{}))
		assert.ErrorIs(t, err, ErrDataset)
		assert.ErrorIs(t, err, layout.ErrCardinality)
		assert.True(t, ds.Empty())
	})

	t.Run("duplicate", func(t *testing.T) {
		ds, err := NewMutableDataset(md, true, 2, "input")
		require.NoError(t, err)
		require.NoError(t, ds.AddBuffer("A", 2, 4, nil, DataOf(a)))

		err = ds.AddBuffer("A", 2, 4, nil, DataOf(a))
		assert.ErrorIs(t, err, ErrDataset)
		assert.ErrorIs(t, err, errDuplicate)
		assert.Equal(t, 1, ds.NComponents())

		var de *DatasetError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "A", de.Component)
		assert.Equal(t, "input", de.Dataset)
		assert.Equal(t, "add_buffer", de.Op)
	})

	t.Run("empty batch ragged", func(t *testing.T) {
		ds, err := NewConstDataset(md, true, 0, "input")
		require.NoError(t, err)
		assert.NoError(t, ds.AddBuffer("A", Ragged, 0, []Idx{0}, DataOf(a[:0])))
		assert.ErrorIs(t, ds.AddBuffer("B", Ragged, 3, []Idx{0}, RawData(nil)), ErrDataset)
	})
}

func TestRaggedCases(t *testing.T) {
	md := testMetaData(t)
	cases := [][]Idx{{}, {4}, {1, 1, 2}, {0, 2, 0, 1, 1, 0}, {2, 2}}

	for _, counts := range cases {
		batch := Idx(len(counts))
		indptr := make([]Idx, batch+1)
		for s, n := range counts {
			indptr[s+1] = indptr[s] + n
		}
		total := indptr[batch]
		data := make([]recB, total)
		for i := range data {
			data[i].ID = int32(i)
		}

		ds, err := NewConstDataset(md, true, batch, "input")
		require.NoError(t, err)
		require.NoError(t, ds.AddBuffer("B", Ragged, total, indptr, DataOf(data)))

		for s, n := range counts {
			span, err := ConstBufferSpan[recB](ds, "B", Idx(s))
			require.NoError(t, err)
			require.Equal(t, int(n), span.Len())
			for i := range span.Len() {
				assert.Equal(t, int32(indptr[s])+int32(i), span.At(i).ID)
			}
		}

		all, err := ConstBufferSpan[recB](ds, "B", AllScenarios)
		require.NoError(t, err)
		assert.Equal(t, int(total), all.Len())
	}
}

func TestWritableDataset(t *testing.T) {
	md := testMetaData(t)
	a := make([]recA, 4)
	b := make([]recB, 3)

	ds, err := NewWritableDataset(md, true, 2, "input")
	require.NoError(t, err)

	require.NoError(t, ds.AddComponentInfo("A", 2, 4))
	require.NoError(t, ds.AddComponentInfo("B", Ragged, 3))
	assert.ErrorIs(t, ds.AddComponentInfo("A", 2, 4), ErrDataset)
	assert.ErrorIs(t, ds.AddComponentInfo("C", 2, 4), ErrSchema)
	assert.ErrorIs(t, ds.AddComponentInfo("raw", 2, 3), ErrDataset)
	assert.ErrorIs(t, ds.AddComponentInfo("raw", Ragged, 1<<60), layout.ErrCardinality)

	_, err = BufferSpan[recA](ds, "A", 0)
	assert.ErrorIs(t, err, errBufferNotSet)
	assert.ErrorIs(t, ds.Validate(), errBufferNotSet)

	assert.ErrorIs(t, ds.SetBuffer("raw", nil, DataOf(a)), ErrDataset)
	assert.ErrorIs(t, ds.SetBuffer("A", []Idx{0, 2, 4}, DataOf(a)), ErrDataset)
	assert.ErrorIs(t, ds.SetBuffer("B", nil, DataOf(b)), ErrDataset)
	assert.ErrorIs(t, ds.SetBuffer("B", []Idx{0}, DataOf(b)), layout.ErrIndptrLength)

	require.NoError(t, ds.SetBuffer("A", nil, DataOf(a)))

	// contents are filled in after the buffer is set
	indptr := make([]Idx, 3)
	require.NoError(t, ds.SetBuffer("B", indptr, DataOf(b)))
	assert.ErrorIs(t, ds.SetBuffer("B", indptr, DataOf(b)), errBufferSet)

	got, err := ds.Indptr("B")
	require.NoError(t, err)
	assert.ErrorIs(t, ds.Validate(), layout.ErrIndptrBounds)

	got[1], got[2] = 4, 3
	err = ds.Validate()
	assert.ErrorIs(t, err, ErrDataset)
	assert.ErrorIs(t, err, layout.ErrNotMonotonic)
	_, err = ds.Const()
	assert.ErrorIs(t, err, layout.ErrNotMonotonic)

	got[1] = 1
	require.NoError(t, ds.Validate())

	span, err := BufferSpan[recB](ds, "B", 1)
	require.NoError(t, err)
	require.Len(t, span, 2)
	span[1].ID = 42
	assert.Equal(t, int32(42), b[2].ID)

	cds, err := ds.Const()
	require.NoError(t, err)
	cspan, err := ConstBufferSpan[recB](cds, "B", 1)
	require.NoError(t, err)
	assert.Equal(t, int32(42), cspan.At(1).ID)

	mds, err := ds.Mutable()
	require.NoError(t, err)
	mspan, err := BufferSpan[recA](mds, "A", 1)
	require.NoError(t, err)
	mspan[0].A1 = 1.5
	assert.Equal(t, 1.5, a[2].A1)

	_, err = ds.Indptr("raw")
	assert.ErrorIs(t, err, ErrDataset)
}

func TestWritableAcceptsAnyLayout(t *testing.T) {
	md := testMetaData(t)
	ds, err := NewWritableDataset(md, true, 0, "input")
	require.NoError(t, err)

	require.NoError(t, ds.AddComponentInfo("B", Ragged, 5))
	require.NoError(t, ds.SetBuffer("B", []Idx{0}, RawData(nil)))
	assert.ErrorIs(t, ds.Validate(), layout.ErrIndptrBounds)
}

func TestAddAttributeBuffer(t *testing.T) {
	md := testMetaData(t)
	ids := []int32{1, 2, 3, 4}
	a1 := []float64{0.1, 0.2, 0.3, 0.4}

	ds, err := NewConstDataset(md, true, 2, "input")
	require.NoError(t, err)
	require.NoError(t, ds.AddBuffer("A", 2, 4, nil, Data{}))
	require.NoError(t, ds.AddBuffer("B", 2, 4, nil, DataOf(make([]recB, 4))))

	columnarMode, err := ds.IsColumnar("A")
	require.NoError(t, err)
	assert.True(t, columnarMode)

	require.NoError(t, ds.AddAttributeBuffer("A", "id", DataOf(ids)))
	require.NoError(t, ds.AddAttributeBuffer("A", "a1", DataOf(a1)))

	assert.ErrorIs(t, ds.AddAttributeBuffer("A", "id", DataOf(ids)), errAttrDuplicate)
	assert.ErrorIs(t, ds.AddAttributeBuffer("A", "nope", DataOf(ids)), ErrSchema)
	assert.ErrorIs(t, ds.AddAttributeBuffer("B", "id", DataOf(ids)), errRowMode)
	assert.ErrorIs(t, ds.AddAttributeBuffer("raw", "id", DataOf(ids)), errMissing)

	buf, err := ds.Buffer("A")
	require.NoError(t, err)
	require.Len(t, buf.Attributes, 2)
	col, ok := buf.Attribute("a1")
	require.True(t, ok)
	assert.Equal(t, a1, unsafeSlice[float64](col.Data, 4))

	t.Run("short column", func(t *testing.T) {
		ds, err := NewConstDataset(md, true, 2, "input")
		require.NoError(t, err)
		require.NoError(t, ds.AddBuffer("A", 2, 4, nil, Data{}))
		assert.ErrorIs(t, ds.AddAttributeBuffer("A", "id", DataOf(ids[:3])), errDataTooSmall)
		assert.ErrorIs(t, ds.AddAttributeBuffer("A", "id", Data{}), errNilAttribute)
	})

	t.Run("writable before set", func(t *testing.T) {
		ds, err := NewWritableDataset(md, true, 2, "input")
		require.NoError(t, err)
		require.NoError(t, ds.AddComponentInfo("A", 2, 4))
		assert.ErrorIs(t, ds.AddAttributeBuffer("A", "id", DataOf(ids)), errBufferNotSet)

		require.NoError(t, ds.SetBuffer("A", nil, Data{}))
		assert.NoError(t, ds.AddAttributeBuffer("A", "id", DataOf(ids)))
	})
}

func TestDatasetMetrics(t *testing.T) {
	md := testMetaData(t)
	mc := &BasicMetricsCollector{}

	ds, err := NewConstDataset(md, true, 2, "input", WithMetricsCollector(mc), WithLogger(nil))
	require.NoError(t, err)

	require.NoError(t, ds.AddBuffer("A", 2, 4, nil, DataOf(make([]recA, 4))))
	require.Error(t, ds.AddBuffer("A", 2, 4, nil, DataOf(make([]recA, 4))))
	_, err = ds.IndividualScenario(0)
	require.NoError(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.AttachCount)
	assert.Equal(t, int64(1), stats.AttachErrors)
	assert.Equal(t, int64(1), stats.ViewCount)
	assert.Equal(t, int64(0), stats.ViewErrors)
}
