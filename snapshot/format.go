package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/hupe1980/gridbuf/internal/hash"
)

const (
	// Magic identifies snapshot files.
	Magic = "PGD1"
	// Version is the current format version.
	Version uint16 = 1
	// HeaderSize is the encoded size of Header.
	HeaderSize = 40
	// SectionAlignment is the minimum alignment of the body and of every
	// section within it.
	SectionAlignment = 8
)

var (
	ErrInvalidMagic   = errors.New("snapshot: invalid magic")
	ErrInvalidVersion = errors.New("snapshot: unsupported version")
	ErrChecksum       = errors.New("snapshot: checksum mismatch")
	ErrCorrupt        = errors.New("snapshot: corrupt")
	// ErrReadOnly is returned when a mutable view of a mapped snapshot is
	// requested.
	ErrReadOnly = errors.New("snapshot: dataset is read-only")
)

// Compression selects how the body is stored.
type Compression uint8

const (
	// CompressionNone stores the body as is. Only uncompressed snapshots
	// can be loaded without copying.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses Zstandard (better ratio).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// ParseCompression is the inverse of Compression.String.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "none", "":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("snapshot: unknown compression %q", s)
	}
}

// Header is the fixed-size little-endian prefix of a snapshot.
//
// It is followed by the codec name, the encoded Manifest and padding up to
// SectionAlignment, then the body.
type Header struct {
	Magic       [4]byte
	Version     uint16
	Compression Compression
	CodecLen    uint8
	MetaLen     uint32
	MetaCRC     uint32 // CRC32C of codec name and manifest
	BodyLen     uint64 // stored (possibly compressed) length
	BodyRawLen  uint64
	BodyCRC     uint32 // CRC32C of the stored body
	HeaderCRC   uint32 // CRC32C of the preceding header bytes
}

func (h *Header) bodyOffset() int {
	return alignUp(HeaderSize+int(h.CodecLen)+int(h.MetaLen), SectionAlignment)
}

func (h *Header) encode() []byte {
	b, err := binary.Append(make([]byte, 0, HeaderSize), binary.LittleEndian, h)
	if err != nil {
		panic(err)
	}
	binary.LittleEndian.PutUint32(b[HeaderSize-4:], hash.CRC32C(b[:HeaderSize-4]))
	return b
}

func decodeHeader(b []byte) (Header, error) {
	var h Header
	if len(b) < HeaderSize {
		return h, fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorrupt, len(b))
	}
	if string(b[:4]) != Magic {
		return h, fmt.Errorf("%w: got %q", ErrInvalidMagic, b[:4])
	}
	if _, err := binary.Decode(b[:HeaderSize], binary.LittleEndian, &h); err != nil {
		return h, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if h.Version != Version {
		return h, fmt.Errorf("%w: %d", ErrInvalidVersion, h.Version)
	}
	if err := hash.Verify("header", h.HeaderCRC, b[:HeaderSize-4]); err != nil {
		return h, fmt.Errorf("%w: %w", ErrChecksum, err)
	}
	return h, nil
}

// Section kinds.
const (
	SectionIndptr    = "indptr"
	SectionData      = "data"
	SectionAttribute = "attribute"
)

// Section locates one buffer inside the uncompressed body.
type Section struct {
	Kind      string `json:"kind" yaml:"kind" validate:"oneof=indptr data attribute"`
	Attribute string `json:"attribute,omitempty" yaml:"attribute,omitempty" validate:"required_if=Kind attribute"`
	Offset    uint64 `json:"offset" yaml:"offset"`
	Length    uint64 `json:"length" yaml:"length"`
}

// ComponentManifest describes one attached component.
type ComponentManifest struct {
	Name                string    `json:"name" yaml:"name" validate:"required"`
	ElementsPerScenario int64     `json:"elements_per_scenario" yaml:"elements_per_scenario" validate:"gte=-1"`
	TotalElements       int64     `json:"total_elements" yaml:"total_elements" validate:"gte=0"`
	Columnar            bool      `json:"columnar" yaml:"columnar"`
	Sections            []Section `json:"sections" yaml:"sections" validate:"dive"`
}

// Manifest describes the dataset stored in a snapshot.
type Manifest struct {
	ID         string              `json:"id" yaml:"id" validate:"required,uuid"`
	Dataset    string              `json:"dataset" yaml:"dataset" validate:"required"`
	IsBatch    bool                `json:"is_batch" yaml:"is_batch"`
	BatchSize  int64               `json:"batch_size" yaml:"batch_size" validate:"gte=0"`
	Components []ComponentManifest `json:"components" yaml:"components" validate:"dive"`
}

var validate = validator.New()

// Validate checks the manifest's structural constraints.
func (m *Manifest) Validate() error {
	if err := validate.Struct(m); err != nil {
		return err
	}
	if !m.IsBatch && m.BatchSize != 1 {
		return fmt.Errorf("non-batch dataset with batch size %d", m.BatchSize)
	}
	return nil
}

func alignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}
