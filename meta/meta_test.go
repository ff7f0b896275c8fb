package meta

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type base struct {
	ID int32 `pgm:"id"`
}

type branch struct {
	base
	From   int32      `pgm:"from_node"`
	Status int8       `pgm:"from_status"`
	R      float64    `pgm:"r1"`
	I      [3]float64 `pgm:"i_from"`
	Note   int64      // untagged, ignored
	Skip   float64    `pgm:"-"`
}

func TestCType(t *testing.T) {
	tests := []struct {
		ct    CType
		name  string
		size  uintptr
		align uintptr
	}{
		{CTypeInt32, "int32", 4, 4},
		{CTypeInt8, "int8", 1, 1},
		{CTypeDouble, "double", 8, 8},
		{CTypeDouble3, "double3", 24, 8},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.name, tc.ct.String())
			assert.Equal(t, tc.size, tc.ct.Size())
			assert.Equal(t, tc.align, tc.ct.Alignment())
			assert.True(t, tc.ct.Valid())
		})
	}

	assert.False(t, CType(9).Valid())
	assert.Equal(t, "unknown", CType(9).String())

	type nodeID int32
	ct, ok := CTypeOf(reflect.TypeFor[nodeID]())
	require.True(t, ok)
	assert.Equal(t, CTypeInt32, ct)

	_, ok = CTypeOf(reflect.TypeFor[[2]float64]())
	assert.False(t, ok)
	_, ok = CTypeOf(reflect.TypeFor[string]())
	assert.False(t, ok)
}

func TestNewComponent(t *testing.T) {
	c, err := NewComponent[branch]("branch")
	require.NoError(t, err)

	assert.Equal(t, "branch", c.Name)
	assert.Equal(t, unsafe.Sizeof(branch{}), c.Size)
	assert.Equal(t, reflect.TypeFor[branch](), c.Type())

	names := make([]string, len(c.Attributes))
	for i, a := range c.Attributes {
		names[i] = a.Name
	}
	assert.Equal(t, []string{"id", "from_node", "from_status", "r1", "i_from"}, names)

	a, err := c.Attribute("r1")
	require.NoError(t, err)
	assert.Equal(t, CTypeDouble, a.CType)
	assert.Equal(t, unsafe.Offsetof(branch{}.R), a.Offset)

	a, err = c.Attribute("id")
	require.NoError(t, err)
	assert.Equal(t, uintptr(0), a.Offset)

	assert.Equal(t, -1, c.FindAttribute("note"))
	_, err = c.Attribute("note")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))

	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "attribute", se.Kind)
	assert.Equal(t, "branch", se.Scope)
}

func TestNewComponentErrors(t *testing.T) {
	type unsupported struct {
		Name string `pgm:"name"`
	}
	type duplicate struct {
		A int32 `pgm:"id"`
		B int32 `pgm:"id"`
	}

	_, err := NewComponent[unsupported]("x")
	assert.ErrorIs(t, err, ErrSchema)

	_, err = NewComponent[duplicate]("x")
	assert.ErrorIs(t, err, ErrSchema)
	assert.Contains(t, err.Error(), "duplicate")

	_, err = NewComponent[int32]("x")
	assert.ErrorIs(t, err, ErrSchema)

	_, err = NewComponent[branch]("")
	assert.ErrorIs(t, err, ErrSchema)

	assert.Panics(t, func() { MustComponent[unsupported]("x") })
}

func TestNewComponentFromAttributes(t *testing.T) {
	c, err := NewComponentFromAttributes("raw", 16, 8, []Attribute{
		{Name: "id", CType: CTypeInt32, Offset: 0},
		{Name: "u", CType: CTypeDouble, Offset: 8},
	})
	require.NoError(t, err)
	assert.Nil(t, c.Type())
	assert.Equal(t, uintptr(8), c.Attributes[1].Size)

	_, err = NewComponentFromAttributes("raw", 12, 8, []Attribute{
		{Name: "u", CType: CTypeDouble, Offset: 8},
	})
	assert.ErrorIs(t, err, ErrSchema)

	_, err = NewComponentFromAttributes("raw", 16, 8, []Attribute{
		{Name: "u", CType: CType(7)},
	})
	assert.ErrorIs(t, err, ErrSchema)

	_, err = NewComponentFromAttributes("raw", 16, 8, []Attribute{
		{Name: "u", CType: CTypeDouble, Size: 4},
	})
	assert.ErrorIs(t, err, ErrSchema)
}

func TestComponentSetNaN(t *testing.T) {
	c := MustComponent[branch]("branch")

	rows := make([]branch, 3)
	for i := range rows {
		rows[i] = branch{base: base{ID: 1}, From: 2, Status: 1, R: 0.5, Note: 7}
	}
	c.SetNaN(unsafe.Pointer(&rows[0]), 2)

	for i := 0; i < 2; i++ {
		assert.Equal(t, NaNInt32, rows[i].ID)
		assert.Equal(t, NaNInt32, rows[i].From)
		assert.Equal(t, NaNInt8, rows[i].Status)
		assert.True(t, math.IsNaN(rows[i].R))
		assert.True(t, math.IsNaN(rows[i].I[2]))
		for _, a := range c.Attributes {
			assert.True(t, a.IsNaN(unsafe.Pointer(&rows[i])), a.Name)
		}
	}
	assert.Equal(t, int32(1), rows[2].ID, "rows past n untouched")
}

func TestIsNaNTensor(t *testing.T) {
	v := [3]float64{math.NaN(), 1, math.NaN()}
	assert.False(t, CTypeDouble3.isNaN(unsafe.Pointer(&v)))
	v[1] = math.NaN()
	assert.True(t, CTypeDouble3.isNaN(unsafe.Pointer(&v)))
}

func TestRegistry(t *testing.T) {
	c := MustComponent[branch]("branch")
	d, err := NewDataset("input", c)
	require.NoError(t, err)

	md, err := New(d)
	require.NoError(t, err)

	got, err := md.Dataset("input")
	require.NoError(t, err)
	assert.Equal(t, 0, got.FindComponent("branch"))
	assert.Equal(t, -1, got.FindComponent("node"))

	comp, err := got.Component("branch")
	require.NoError(t, err)
	assert.Equal(t, c.Size, comp.Size)

	_, err = got.Component("node")
	assert.ErrorIs(t, err, ErrSchema)

	_, err = md.Dataset("update")
	assert.ErrorIs(t, err, ErrSchema)
	assert.Equal(t, -1, md.FindDataset("update"))

	_, err = NewDataset("input", c, c)
	assert.ErrorIs(t, err, ErrSchema)

	_, err = New(d, d)
	assert.ErrorIs(t, err, ErrSchema)
}
