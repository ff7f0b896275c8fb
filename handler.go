package gridbuf

import (
	"fmt"
	"time"

	"github.com/hupe1980/gridbuf/internal/conv"
	"github.com/hupe1980/gridbuf/internal/layout"
	"github.com/hupe1980/gridbuf/meta"
)

type attachState uint8

const (
	infoAttached attachState = iota + 1
	bufferAttached
)

// handler is the state shared by every capability variant.
type handler struct {
	md      *meta.MetaData
	desc    Description
	buffers []Buffer
	states  []attachState

	logger  *Logger
	metrics MetricsCollector
}

func newHandler(op string, md *meta.MetaData, isBatch bool, batchSize Idx, dataset string, optFns []Option) (*handler, error) {
	if !isBatch && batchSize != 1 {
		return nil, &DatasetError{Op: op, Dataset: dataset, Err: errBatch}
	}
	if batchSize < 0 {
		return nil, &DatasetError{Op: op, Dataset: dataset, Err: errNegativeBatch}
	}
	ds, err := md.Dataset(dataset)
	if err != nil {
		return nil, err
	}
	o := applyOptions(optFns)
	return &handler{
		md: md,
		desc: Description{
			IsBatch:   isBatch,
			BatchSize: batchSize,
			Dataset:   ds,
		},
		logger:  o.logger.WithDataset(dataset, batchSize),
		metrics: o.metricsCollector,
	}, nil
}

// clone copies the bookkeeping. Caller memory is shared.
func (h *handler) clone() *handler {
	c := *h
	c.desc.ComponentInfo = append([]ComponentInfo(nil), h.desc.ComponentInfo...)
	c.buffers = make([]Buffer, len(h.buffers))
	for i := range h.buffers {
		c.buffers[i] = h.buffers[i].clone()
	}
	c.states = append([]attachState(nil), h.states...)
	return &c
}

func (h *handler) base() *handler { return h }

func (h *handler) fail(op, component string, err error) error {
	return &DatasetError{Op: op, Dataset: h.desc.Dataset.Name, Component: component, Err: err}
}

// Name returns the dataset kind name.
func (h *handler) Name() string { return h.desc.Dataset.Name }

// IsBatch reports whether the dataset is a batch.
func (h *handler) IsBatch() bool { return h.desc.IsBatch }

// BatchSize returns the number of scenarios.
func (h *handler) BatchSize() Idx { return h.desc.BatchSize }

// Dataset returns the dataset kind.
func (h *handler) Dataset() *meta.Dataset { return h.desc.Dataset }

// MetaData returns the registry the handler was built against.
func (h *handler) MetaData() *meta.MetaData { return h.md }

// Description returns a copy of the dataset shape.
func (h *handler) Description() Description {
	d := h.desc
	d.ComponentInfo = append([]ComponentInfo(nil), h.desc.ComponentInfo...)
	return d
}

// NComponents returns the number of attached components.
func (h *handler) NComponents() int { return len(h.desc.ComponentInfo) }

// Empty reports whether no component is attached.
func (h *handler) Empty() bool { return h.NComponents() == 0 }

// ContainsComponent reports whether the named component is attached.
func (h *handler) ContainsComponent(name string) bool { return h.find(name) >= 0 }

func (h *handler) find(name string) int {
	for i := range h.desc.ComponentInfo {
		if h.desc.ComponentInfo[i].Component.Name == name {
			return i
		}
	}
	return -1
}

// FindComponent returns the attach index of the named component, or -1.
// With required set, a missing component is a *DatasetError.
func (h *handler) FindComponent(name string, required bool) (Idx, error) {
	i := h.find(name)
	if i < 0 && required {
		return -1, h.fail("find_component", name, errMissing)
	}
	return Idx(i), nil
}

// ComponentInfo returns the cardinality of the named component.
func (h *handler) ComponentInfo(name string) (ComponentInfo, error) {
	i := h.find(name)
	if i < 0 {
		return ComponentInfo{}, h.fail("get_component_info", name, errMissing)
	}
	return h.desc.ComponentInfo[i], nil
}

// ComponentInfoAt returns the cardinality of the component at attach index i.
func (h *handler) ComponentInfoAt(i Idx) (ComponentInfo, error) {
	if i < 0 || i >= Idx(len(h.desc.ComponentInfo)) {
		return ComponentInfo{}, h.fail("get_component_info", "", errMissing)
	}
	return h.desc.ComponentInfo[i], nil
}

// IsColumnar reports whether the named component is attached in columnar
// mode.
func (h *handler) IsColumnar(name string) (bool, error) {
	i := h.find(name)
	if i < 0 {
		return false, h.fail("is_columnar", name, errMissing)
	}
	return h.buffers[i].IsColumnar(), nil
}

// Buffer returns the memory attached for the named component.
func (h *handler) Buffer(name string) (Buffer, error) {
	i := h.find(name)
	if i < 0 {
		return Buffer{}, h.fail("get_buffer", name, errMissing)
	}
	return h.buffers[i].clone(), nil
}

// checkInfo validates a new component's cardinality without changing state.
func (h *handler) checkInfo(op, name string, eps, total Idx) (*meta.Component, error) {
	if h.find(name) >= 0 {
		return nil, h.fail(op, name, errDuplicate)
	}
	comp, err := h.desc.Dataset.Component(name)
	if err != nil {
		return nil, err
	}
	if err := layout.CheckCardinality(eps, total); err != nil {
		return nil, h.fail(op, name, err)
	}
	if err := layout.CheckUniform(eps, total, h.desc.BatchSize); err != nil {
		return nil, h.fail(op, name, err)
	}
	if _, err := byteLen(total, comp.Size); err != nil {
		return nil, h.fail(op, name, err)
	}
	return comp, nil
}

// byteLen is the size in bytes of total elements of size bytes each.
func byteLen(total Idx, size uintptr) (uintptr, error) {
	n, err := conv.ByteLen(total, size)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", layout.ErrCardinality, err)
	}
	return n, nil
}

// checkBuffer validates memory for a component with the given cardinality.
// Offset-index contents are checked only when content is set.
func (h *handler) checkBuffer(op string, info ComponentInfo, indptr []Idx, data Data, content bool) error {
	name := info.Component.Name
	if err := layout.CheckRaggedPresence(info.ElementsPerScenario, indptr != nil); err != nil {
		return h.fail(op, name, err)
	}
	if info.IsRagged() {
		check := layout.CheckIndptrLength(indptr, h.desc.BatchSize)
		if content {
			check = layout.CheckRaggedContent(indptr, h.desc.BatchSize, info.TotalElements)
		}
		if check != nil {
			return h.fail(op, name, check)
		}
	}
	n, err := byteLen(info.TotalElements, info.Component.Size)
	if err != nil {
		return h.fail(op, name, err)
	}
	if !data.fits(n) {
		return h.fail(op, name, errDataTooSmall)
	}
	return nil
}

func (h *handler) commit(info ComponentInfo, buf Buffer, state attachState) {
	h.desc.ComponentInfo = append(h.desc.ComponentInfo, info)
	h.buffers = append(h.buffers, buf)
	h.states = append(h.states, state)
}

func (h *handler) observeAttach(op, name string, eps, total Idx, err error) {
	h.logger.LogAttach(op, name, eps, total, err)
	h.metrics.RecordAttach(name, err)
}

func (h *handler) addBuffer(name string, eps, total Idx, indptr []Idx, data Data) (err error) {
	const op = "add_buffer"
	defer func() { h.observeAttach(op, name, eps, total, err) }()

	comp, err := h.checkInfo(op, name, eps, total)
	if err != nil {
		return err
	}
	info := ComponentInfo{Component: comp, ElementsPerScenario: eps, TotalElements: total}
	if err := h.checkBuffer(op, info, indptr, data, true); err != nil {
		return err
	}
	h.commit(info, Buffer{Data: data, Indptr: indptr}, bufferAttached)
	return nil
}

// AddAttributeBuffer attaches one column of a columnar component.
func (h *handler) AddAttributeBuffer(component, attribute string, data Data) (err error) {
	const op = "add_attribute_buffer"
	i := h.find(component)
	defer func() {
		var info ComponentInfo
		if i >= 0 {
			info = h.desc.ComponentInfo[i]
		}
		h.observeAttach(op, component+"."+attribute, info.ElementsPerScenario, info.TotalElements, err)
	}()

	if i < 0 {
		return h.fail(op, component, errMissing)
	}
	info := h.desc.ComponentInfo[i]
	attr, err := info.Component.Attribute(attribute)
	if err != nil {
		return err
	}
	if h.states[i] != bufferAttached {
		return h.fail(op, component, errBufferNotSet)
	}
	buf := &h.buffers[i]
	if !buf.IsColumnar() {
		return h.fail(op, component, errRowMode)
	}
	if _, dup := buf.Attribute(attribute); dup {
		return h.fail(op, component, errAttrDuplicate)
	}
	if data.IsNull() {
		return h.fail(op, component, errNilAttribute)
	}
	n, err := byteLen(info.TotalElements, attr.Size)
	if err != nil {
		return h.fail(op, component, err)
	}
	if !data.fits(n) {
		return h.fail(op, component, errDataTooSmall)
	}
	buf.Attributes = append(buf.Attributes, AttributeBuffer{Attribute: attr, Data: data})
	return nil
}

// scenarioRange returns the element range of scenario s for component i.
func (h *handler) scenarioRange(op string, i int, s Idx) (lo, hi Idx, err error) {
	info := h.desc.ComponentInfo[i]
	lo, hi, err = layout.ScenarioRange(info.ElementsPerScenario, h.buffers[i].Indptr, info.TotalElements, h.desc.BatchSize, s)
	if err != nil {
		return 0, 0, h.fail(op, info.Component.Name, err)
	}
	return lo, hi, nil
}

// individual builds a non-batch view of scenario s sharing caller memory.
func (h *handler) individual(s Idx) (view *handler, err error) {
	const op = "get_individual_scenario"
	start := time.Now()
	defer func() {
		h.logger.LogScenarioView(s, err)
		h.metrics.RecordScenarioView(time.Since(start), err)
	}()

	if s < 0 || s >= h.desc.BatchSize {
		return nil, h.fail(op, "", layout.ErrScenario)
	}
	view = &handler{
		md: h.md,
		desc: Description{
			IsBatch:       false,
			BatchSize:     1,
			Dataset:       h.desc.Dataset,
			ComponentInfo: make([]ComponentInfo, 0, len(h.desc.ComponentInfo)),
		},
		buffers: make([]Buffer, 0, len(h.buffers)),
		states:  make([]attachState, 0, len(h.states)),
		logger:  h.logger.WithScenario(s),
		metrics: h.metrics,
	}
	for i, info := range h.desc.ComponentInfo {
		if h.states[i] != bufferAttached {
			return nil, h.fail(op, info.Component.Name, errBufferNotSet)
		}
		lo, hi, err := h.scenarioRange(op, i, s)
		if err != nil {
			return nil, err
		}
		n := hi - lo
		src := h.buffers[i]
		buf := Buffer{Data: src.Data.advance(uintptr(lo)*info.Component.Size, uintptr(n)*info.Component.Size)}
		if len(src.Attributes) > 0 {
			buf.Attributes = make([]AttributeBuffer, len(src.Attributes))
			for j, a := range src.Attributes {
				buf.Attributes[j] = AttributeBuffer{
					Attribute: a.Attribute,
					Data:      a.Data.advance(uintptr(lo)*a.Attribute.Size, uintptr(n)*a.Attribute.Size),
				}
			}
		}
		view.commit(ComponentInfo{Component: info.Component, ElementsPerScenario: n, TotalElements: n}, buf, bufferAttached)
	}
	return view, nil
}
