package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// IsNotFoundCode reports whether code is an S3-protocol error code for a
// missing object or bucket key.
func IsNotFoundCode(code string) bool {
	switch code {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}

// MapNotFound translates a backend error into one satisfying
// errors.Is(err, ErrNotFound) when isNotFound recognizes it. The backend
// error stays in the chain. Other errors are returned unchanged.
func MapNotFound(err error, isNotFound func(error) bool) error {
	if err == nil || errors.Is(err, ErrNotFound) || !isNotFound(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrNotFound, err)
}

// IgnoreNotFound is MapNotFound for deletes: a missing object is success.
func IgnoreNotFound(err error, isNotFound func(error) bool) error {
	if err = MapNotFound(err, isNotFound); errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// RangeFunc opens a reader over n bytes of an object starting at off.
type RangeFunc func(ctx context.Context, off, n int64) (io.ReadCloser, error)

// ReadRange implements Blob.ReadAt for a remote object of the given size.
// Only the bytes inside the object are requested. A read that ends past the
// object returns the bytes read and io.EOF.
func ReadRange(ctx context.Context, p []byte, off, size int64, open RangeFunc) (int, error) {
	if off < 0 || off >= size {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	want := min(int64(len(p)), size-off)
	r, err := open(ctx, off, want)
	if err != nil {
		return 0, err
	}
	defer func() { _ = r.Close() }()

	n, err := io.ReadFull(r, p[:want])
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return n, io.EOF
		}
		return n, err
	}
	if want < int64(len(p)) {
		return n, io.EOF
	}
	return n, nil
}
