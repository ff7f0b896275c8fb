package testutil

import (
	"testing"

	"github.com/hupe1980/gridbuf"
	"github.com/hupe1980/gridbuf/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndptr(t *testing.T) {
	rng := NewRNG(4711)
	indptr := rng.Indptr(50, 3)

	require.Len(t, indptr, 51)
	assert.Zero(t, indptr[0])
	for s := range 50 {
		n := indptr[s+1] - indptr[s]
		assert.GreaterOrEqual(t, n, gridbuf.Idx(0))
		assert.LessOrEqual(t, n, gridbuf.Idx(3))
	}
}

func TestReproducible(t *testing.T) {
	a := NewRNG(7).SymLoadUpdates(16, 4)
	b := NewRNG(7).SymLoadUpdates(16, 4)
	assert.Equal(t, a, b)
	assert.Equal(t, components.ID(5%4), a[5].ID)
}

func TestUpdateBatch(t *testing.T) {
	rng := NewRNG(4711)

	b, err := rng.UpdateBatch(10, 3, true)
	require.NoError(t, err)
	info, err := b.Dataset.ComponentInfo(components.SymLoad)
	require.NoError(t, err)
	assert.True(t, info.IsRagged())
	assert.Equal(t, b.Indptr[10], info.TotalElements)
	assert.Len(t, b.Updates, int(info.TotalElements))

	b, err = rng.UpdateBatch(10, 3, false)
	require.NoError(t, err)
	assert.Nil(t, b.Indptr)
	spans, err := gridbuf.ConstBufferSpanAllScenarios[components.SymLoadUpdate](b.Dataset, components.SymLoad)
	require.NoError(t, err)
	for _, s := range spans {
		assert.Equal(t, 3, s.Len())
	}
}
