package gridbuf

import (
	"errors"
	"fmt"

	"github.com/hupe1980/gridbuf/meta"
)

var (
	// ErrDataset is the sentinel matched by every *DatasetError.
	ErrDataset = errors.New("dataset error")

	// ErrSchema is the sentinel matched by every *SchemaError.
	ErrSchema = meta.ErrSchema

	errDuplicate     = errors.New("component already attached")
	errMissing       = errors.New("component not attached")
	errBatch         = errors.New("non-batch dataset must have batch size 1")
	errNegativeBatch = errors.New("batch size must not be negative")
	errRowMode       = errors.New("component is attached in row mode")
	errColumnarMode  = errors.New("component is attached in columnar mode")
	errBufferSet     = errors.New("buffer already set")
	errBufferNotSet  = errors.New("buffer not set")
	errAttrDuplicate = errors.New("attribute buffer already attached")
	errNilAttribute  = errors.New("attribute buffer must not be null")
	errDataTooSmall  = errors.New("buffer smaller than total elements")
	errTypeMismatch  = errors.New("record type does not match component")
)

// SchemaError reports an unknown dataset kind, component or attribute.
type SchemaError = meta.SchemaError

// DatasetError reports a structural violation: duplicate or missing
// component, bad cardinality, bad offset index or bad scenario index.
//
// The underlying cause can be accessed via errors.Unwrap.
type DatasetError struct {
	Op        string
	Dataset   string
	Component string
	Err       error
}

func (e *DatasetError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("dataset %q: %s %q: %v", e.Dataset, e.Op, e.Component, e.Err)
	}
	return fmt.Sprintf("dataset %q: %s: %v", e.Dataset, e.Op, e.Err)
}

func (e *DatasetError) Unwrap() error { return e.Err }

// Is reports whether target is ErrDataset.
func (e *DatasetError) Is(target error) bool { return target == ErrDataset }
