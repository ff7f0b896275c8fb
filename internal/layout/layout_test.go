package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckUniform(t *testing.T) {
	tests := []struct {
		name             string
		eps, total, batch int64
		wantErr          bool
	}{
		{"match", 2, 6, 3, false},
		{"empty batch", 2, 0, 0, false},
		{"zero elements", 0, 0, 5, false},
		{"mismatch", 2, 5, 3, true},
		{"ragged ignored", Ragged, 17, 3, false},
		{"product wraps to total", 1 << 62, 0, 4, true},
		{"product wraps to small total", 1<<62 + 1, 1 << 62, 4, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckUniform(tc.eps, tc.total, tc.batch)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrCardinality)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckCardinality(t *testing.T) {
	assert.NoError(t, CheckCardinality(Ragged, 0))
	assert.ErrorIs(t, CheckCardinality(-2, 0), ErrNegative)
	assert.ErrorIs(t, CheckCardinality(1, -1), ErrNegative)
}

func TestCheckRaggedPresence(t *testing.T) {
	assert.NoError(t, CheckRaggedPresence(Ragged, true))
	assert.NoError(t, CheckRaggedPresence(3, false))
	assert.ErrorIs(t, CheckRaggedPresence(Ragged, false), ErrIndptrMissing)
	assert.ErrorIs(t, CheckRaggedPresence(0, true), ErrIndptrUnexpected)
}

func TestCheckRaggedContent(t *testing.T) {
	assert.NoError(t, CheckRaggedContent([]int64{0, 3, 5}, 2, 5))
	assert.NoError(t, CheckRaggedContent([]int64{0}, 0, 0))
	assert.ErrorIs(t, CheckRaggedContent([]int64{1, 3, 5}, 2, 5), ErrIndptrBounds)
	assert.ErrorIs(t, CheckRaggedContent([]int64{0, 3, 4}, 2, 5), ErrIndptrBounds)
	assert.ErrorIs(t, CheckRaggedContent([]int64{0}, 0, 3), ErrIndptrBounds)
	assert.ErrorIs(t, CheckRaggedContent([]int64{0, 3}, 2, 5), ErrIndptrLength)

	// interior is not inspected
	assert.NoError(t, CheckRaggedContent([]int64{0, 9, 5}, 2, 5))
	assert.ErrorIs(t, CheckMonotonic([]int64{0, 9, 5}, 2), ErrNotMonotonic)
	assert.NoError(t, CheckMonotonic([]int64{0, 2, 2, 5}, 3))
}

func TestScenarioRange(t *testing.T) {
	t.Run("uniform", func(t *testing.T) {
		lo, hi, err := ScenarioRange(2, nil, 6, 3, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), lo)
		assert.Equal(t, int64(4), hi)
	})

	t.Run("ragged", func(t *testing.T) {
		indptr := []int64{0, 3, 5}
		lo, hi, err := ScenarioRange(Ragged, indptr, 5, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, [2]int64{0, 3}, [2]int64{lo, hi})

		lo, hi, err = ScenarioRange(Ragged, indptr, 5, 2, 1)
		require.NoError(t, err)
		assert.Equal(t, [2]int64{3, 5}, [2]int64{lo, hi})
	})

	t.Run("all", func(t *testing.T) {
		lo, hi, err := ScenarioRange(Ragged, nil, 5, 2, All)
		require.NoError(t, err)
		assert.Equal(t, [2]int64{0, 5}, [2]int64{lo, hi})
	})

	t.Run("out of range", func(t *testing.T) {
		for _, s := range []int64{-2, 3, 100} {
			_, _, err := ScenarioRange(2, nil, 6, 3, s)
			assert.ErrorIs(t, err, ErrScenario, s)
		}
	})

	t.Run("corrupt pair", func(t *testing.T) {
		_, _, err := ScenarioRange(Ragged, []int64{0, 4, 2}, 5, 2, 0)
		assert.NoError(t, err)
		_, _, err = ScenarioRange(Ragged, []int64{0, 4, 2}, 5, 2, 1)
		assert.ErrorIs(t, err, ErrNotMonotonic)
		_, _, err = ScenarioRange(Ragged, []int64{0, 7, 9}, 5, 2, 0)
		assert.ErrorIs(t, err, ErrNotMonotonic)
	})

	n, err := ScenarioCount(Ragged, []int64{0, 0, 2, 2}, 2, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
