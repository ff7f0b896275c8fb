package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRC32C(t *testing.T) {
	// Known answer for the Castagnoli polynomial.
	assert.Equal(t, uint32(0xe3069283), CRC32C([]byte("123456789")))
	assert.Equal(t, uint32(0), CRC32C())
	assert.Equal(t, uint32(0), CRC32C(nil))
}

func TestCRC32CParts(t *testing.T) {
	data := []byte("indptr|rows|columns")
	assert.Equal(t, CRC32C(data), CRC32C(data[:7], nil, data[7:12], data[12:]))
}

func TestVerify(t *testing.T) {
	name, meta := []byte("go-json"), []byte(`{"dataset":"update"}`)
	sum := CRC32C(name, meta)

	require.NoError(t, Verify("manifest", sum, name, meta))

	err := Verify("manifest", sum^1, name, meta)
	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "manifest", mismatch.Region)
	assert.Equal(t, sum, mismatch.Got)
	assert.Equal(t, sum^1, mismatch.Want)
	assert.Contains(t, err.Error(), "manifest crc32c")
}
