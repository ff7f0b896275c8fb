package gridbuf

import (
	"iter"
	"reflect"
	"slices"
	"unsafe"

	"github.com/hupe1980/gridbuf/columnar"
	"github.com/hupe1980/gridbuf/meta"
)

// ConstSpan is a read-only view of contiguous records.
type ConstSpan[T any] struct {
	s []T
}

// Len returns the number of records.
func (s ConstSpan[T]) Len() int { return len(s.s) }

// At returns record i.
func (s ConstSpan[T]) At(i int) T { return s.s[i] }

// All yields every index with its record.
func (s ConstSpan[T]) All() iter.Seq2[int, T] { return slices.All(s.s) }

// Values yields every record.
func (s ConstSpan[T]) Values() iter.Seq[T] { return slices.Values(s.s) }

// Clone copies the records into a new slice.
func (s ConstSpan[T]) Clone() []T { return slices.Clone(s.s) }

// Pointer returns the address of the first record, or nil if empty.
func (s ConstSpan[T]) Pointer() unsafe.Pointer { return unsafe.Pointer(unsafe.SliceData(s.s)) }

// checkType verifies T against the component's registered record type.
func checkType[T any](h *handler, op string, comp *meta.Component) error {
	t := reflect.TypeFor[T]()
	if ct := comp.Type(); ct != nil {
		if ct != t {
			return h.fail(op, comp.Name, errTypeMismatch)
		}
		return nil
	}
	if t.Size() != comp.Size {
		return h.fail(op, comp.Name, errTypeMismatch)
	}
	return nil
}

// lookup resolves a component for a typed accessor.
func lookup[T any](h *handler, op, name string, columnarMode bool) (int, error) {
	i := h.find(name)
	if i < 0 {
		return -1, h.fail(op, name, errMissing)
	}
	if h.states[i] != bufferAttached {
		return -1, h.fail(op, name, errBufferNotSet)
	}
	comp := h.desc.ComponentInfo[i].Component
	if err := checkType[T](h, op, comp); err != nil {
		return -1, err
	}
	if h.buffers[i].IsColumnar() != columnarMode {
		if columnarMode {
			return -1, h.fail(op, name, errRowMode)
		}
		return -1, h.fail(op, name, errColumnarMode)
	}
	return i, nil
}

func rowSpan[T any](h *handler, op, name string, scenario Idx) ([]T, error) {
	i, err := lookup[T](h, op, name, false)
	if err != nil {
		return nil, err
	}
	return rowSlice[T](h, op, i, scenario)
}

func rowSlice[T any](h *handler, op string, i int, scenario Idx) ([]T, error) {
	lo, hi, err := h.scenarioRange(op, i, scenario)
	if err != nil {
		return nil, err
	}
	if hi == lo {
		return nil, nil
	}
	p := unsafe.Add(h.buffers[i].Data.Pointer(), uintptr(lo)*unsafe.Sizeof(*new(T)))
	return unsafe.Slice((*T)(p), hi-lo), nil
}

func columns(h *handler, i int) []columnar.Column {
	attrs := h.buffers[i].Attributes
	cols := make([]columnar.Column, len(attrs))
	for j, a := range attrs {
		cols[j] = columnar.Column{Attribute: a.Attribute, Data: a.Data.Pointer()}
	}
	return cols
}

func columnarRange[T any](h *handler, op string, i int, cols []columnar.Column, scenario Idx) (columnar.Range[T], error) {
	lo, hi, err := h.scenarioRange(op, i, scenario)
	if err != nil {
		return columnar.Range[T]{}, err
	}
	info := h.desc.ComponentInfo[i]
	return columnar.NewRange[T](info.Component, int(info.TotalElements), cols).Slice(int(lo), int(hi)), nil
}

// ConstBufferSpan returns the records of a row-mode component for one
// scenario, or for the whole batch when scenario is AllScenarios.
// T must be the component's record type.
func ConstBufferSpan[T any](r Reader, component string, scenario Idx) (ConstSpan[T], error) {
	s, err := rowSpan[T](r.base(), "get_buffer_span", component, scenario)
	return ConstSpan[T]{s: s}, err
}

// BufferSpan is like ConstBufferSpan but the records are writable.
func BufferSpan[T any](w Writer, component string, scenario Idx) ([]T, error) {
	return rowSpan[T](w.base(), "get_buffer_span", component, scenario)
}

// ConstBufferSpanAllScenarios returns one span per scenario, in order.
func ConstBufferSpanAllScenarios[T any](r Reader, component string) ([]ConstSpan[T], error) {
	const op = "get_buffer_span_all_scenarios"
	h := r.base()
	i, err := lookup[T](h, op, component, false)
	if err != nil {
		return nil, err
	}
	out := make([]ConstSpan[T], h.desc.BatchSize)
	for s := range out {
		span, err := rowSlice[T](h, op, i, Idx(s))
		if err != nil {
			return nil, err
		}
		out[s] = ConstSpan[T]{s: span}
	}
	return out, nil
}

// BufferSpanAllScenarios returns one writable span per scenario, in order.
func BufferSpanAllScenarios[T any](w Writer, component string) ([][]T, error) {
	const op = "get_buffer_span_all_scenarios"
	h := w.base()
	i, err := lookup[T](h, op, component, false)
	if err != nil {
		return nil, err
	}
	out := make([][]T, h.desc.BatchSize)
	for s := range out {
		if out[s], err = rowSlice[T](h, op, i, Idx(s)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ConstColumnarSpan returns a columnar component as a read-only range of
// records for one scenario, or for the whole batch when scenario is
// AllScenarios. Indices are relative to the scenario start.
func ConstColumnarSpan[T any](r Reader, component string, scenario Idx) (columnar.ConstRange[T], error) {
	const op = "get_columnar_buffer_span"
	h := r.base()
	i, err := lookup[T](h, op, component, true)
	if err != nil {
		return columnar.ConstRange[T]{}, err
	}
	rng, err := columnarRange[T](h, op, i, columns(h, i), scenario)
	return rng.Const(), err
}

// ColumnarSpan is like ConstColumnarSpan but the range is writable.
func ColumnarSpan[T any](w Writer, component string, scenario Idx) (columnar.Range[T], error) {
	const op = "get_columnar_buffer_span"
	h := w.base()
	i, err := lookup[T](h, op, component, true)
	if err != nil {
		return columnar.Range[T]{}, err
	}
	return columnarRange[T](h, op, i, columns(h, i), scenario)
}

// ConstColumnarSpanAllScenarios returns one read-only range per scenario.
func ConstColumnarSpanAllScenarios[T any](r Reader, component string) ([]columnar.ConstRange[T], error) {
	const op = "get_columnar_buffer_span_all_scenarios"
	h := r.base()
	i, err := lookup[T](h, op, component, true)
	if err != nil {
		return nil, err
	}
	cols := columns(h, i)
	out := make([]columnar.ConstRange[T], h.desc.BatchSize)
	for s := range out {
		rng, err := columnarRange[T](h, op, i, cols, Idx(s))
		if err != nil {
			return nil, err
		}
		out[s] = rng.Const()
	}
	return out, nil
}

// ColumnarSpanAllScenarios returns one writable range per scenario.
func ColumnarSpanAllScenarios[T any](w Writer, component string) ([]columnar.Range[T], error) {
	const op = "get_columnar_buffer_span_all_scenarios"
	h := w.base()
	i, err := lookup[T](h, op, component, true)
	if err != nil {
		return nil, err
	}
	cols := columns(h, i)
	out := make([]columnar.Range[T], h.desc.BatchSize)
	for s := range out {
		if out[s], err = columnarRange[T](h, op, i, cols, Idx(s)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
