package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt64ToUint32(t *testing.T) {
	t.Run("valid zero", func(t *testing.T) {
		got, err := Int64ToUint32(0)
		assert.NoError(t, err)
		assert.Equal(t, uint32(0), got)
	})

	t.Run("valid max", func(t *testing.T) {
		got, err := Int64ToUint32(math.MaxUint32)
		assert.NoError(t, err)
		assert.Equal(t, uint32(math.MaxUint32), got)
	})

	t.Run("invalid negative", func(t *testing.T) {
		_, err := Int64ToUint32(-1)
		assert.Error(t, err)
	})

	t.Run("invalid too large", func(t *testing.T) {
		_, err := Int64ToUint32(math.MaxUint32 + 1)
		assert.Error(t, err)
	})
}

func TestInt64ToUint64(t *testing.T) {
	got, err := Int64ToUint64(42)
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), got)

	_, err = Int64ToUint64(-1)
	assert.Error(t, err)
}

func TestUint64ToInt64(t *testing.T) {
	got, err := Uint64ToInt64(math.MaxInt64)
	assert.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), got)

	_, err = Uint64ToInt64(math.MaxInt64 + 1)
	assert.Error(t, err)
}

func TestInt64ToInt(t *testing.T) {
	got, err := Int64ToInt(-7)
	assert.NoError(t, err)
	assert.Equal(t, -7, got)
}

func TestMulInt64(t *testing.T) {
	got, err := MulInt64(1<<31, 1<<31)
	assert.NoError(t, err)
	assert.Equal(t, int64(1)<<62, got)

	got, err = MulInt64(0, math.MaxInt64)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), got)

	// 2^62 * 4 wraps to 0 in int64.
	_, err = MulInt64(1<<62, 4)
	assert.Error(t, err)

	_, err = MulInt64(1<<32, 1<<31)
	assert.Error(t, err)

	_, err = MulInt64(-1, 2)
	assert.Error(t, err)
}

func TestMulUint64(t *testing.T) {
	got, err := MulUint64(1<<32, 1<<31)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1)<<63, got)

	_, err = MulUint64(1<<61, 24)
	assert.Error(t, err)
}

func TestByteLen(t *testing.T) {
	got, err := ByteLen(3, 24)
	assert.NoError(t, err)
	assert.Equal(t, uintptr(72), got)

	_, err = ByteLen(1<<61, 24)
	assert.Error(t, err)

	_, err = ByteLen(-1, 8)
	assert.Error(t, err)
}
