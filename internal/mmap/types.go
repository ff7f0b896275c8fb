package mmap

import "errors"

// AccessPattern hints the kernel how mapped snapshot bytes will be read.
type AccessPattern int

const (
	// AccessDefault is the default access pattern (no specific advice).
	AccessDefault AccessPattern = iota
	// AccessSequential expects a front-to-back scan, as done by checksum
	// verification.
	AccessSequential
	// AccessRandom expects scattered reads, as done by span accessors.
	AccessRandom
	// AccessWillNeed expects the whole mapping to be read soon.
	AccessWillNeed
)

var (
	// ErrClosed is returned when attempting to access a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned when the file size is invalid.
	ErrInvalidSize = errors.New("mmap: invalid file size")
	// ErrInvalidOffset is returned for a negative read offset.
	ErrInvalidOffset = errors.New("mmap: invalid offset")
	// ErrNotRegular is returned when the path is a directory or device.
	ErrNotRegular = errors.New("mmap: not a regular file")
)
