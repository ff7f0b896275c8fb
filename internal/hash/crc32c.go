package hash

import (
	"fmt"
	"hash/crc32"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of the concatenated parts.
func CRC32C(parts ...[]byte) uint32 {
	var sum uint32
	for _, p := range parts {
		sum = crc32.Update(sum, castagnoli, p)
	}
	return sum
}

// MismatchError reports a region whose checksum differs from the recorded one.
type MismatchError struct {
	Region string
	Want   uint32
	Got    uint32
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s crc32c %08x, want %08x", e.Region, e.Got, e.Want)
}

// Verify checks the concatenated parts against want.
func Verify(region string, want uint32, parts ...[]byte) error {
	if got := CRC32C(parts...); got != want {
		return &MismatchError{Region: region, Want: want, Got: got}
	}
	return nil
}
