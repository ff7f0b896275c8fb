package gridbuf

import (
	"github.com/hupe1980/gridbuf/internal/layout"
	"github.com/hupe1980/gridbuf/meta"
)

// Reader is the read contract shared by every handler.
// It is implemented only by *ConstDataset, *MutableDataset and
// *WritableDataset.
type Reader interface {
	Name() string
	IsBatch() bool
	BatchSize() Idx
	Dataset() *meta.Dataset
	MetaData() *meta.MetaData
	Description() Description
	NComponents() int
	Empty() bool
	ContainsComponent(name string) bool
	FindComponent(name string, required bool) (Idx, error)
	ComponentInfo(name string) (ComponentInfo, error)
	ComponentInfoAt(i Idx) (ComponentInfo, error)
	IsColumnar(name string) (bool, error)
	Buffer(name string) (Buffer, error)

	base() *handler
}

// Writer is the write contract for element data. It is implemented only by
// *MutableDataset and *WritableDataset.
type Writer interface {
	Reader
	mutable()
}

var (
	_ Reader = (*ConstDataset)(nil)
	_ Writer = (*MutableDataset)(nil)
	_ Writer = (*WritableDataset)(nil)
)

// ConstDataset exposes caller memory read-only.
type ConstDataset struct {
	*handler
}

// NewConstDataset creates an empty read-only handler.
func NewConstDataset(md *meta.MetaData, isBatch bool, batchSize Idx, dataset string, optFns ...Option) (*ConstDataset, error) {
	h, err := newHandler("construct", md, isBatch, batchSize, dataset, optFns)
	if err != nil {
		return nil, err
	}
	return &ConstDataset{h}, nil
}

// AddBuffer attaches a component and its memory in one step. A null data
// selects columnar mode; columns are then added with AddAttributeBuffer.
// For ragged components (elementsPerScenario == Ragged) indptr must have
// BatchSize+1 entries, start at 0 and end at totalElements.
func (d *ConstDataset) AddBuffer(component string, elementsPerScenario, totalElements Idx, indptr []Idx, data Data) error {
	return d.addBuffer(component, elementsPerScenario, totalElements, indptr, data)
}

// IndividualScenario returns a non-batch view of scenario s sharing memory.
func (d *ConstDataset) IndividualScenario(s Idx) (*ConstDataset, error) {
	h, err := d.individual(s)
	if err != nil {
		return nil, err
	}
	return &ConstDataset{h}, nil
}

// MutableDataset exposes caller element data read-write.
type MutableDataset struct {
	*handler
}

// NewMutableDataset creates an empty handler with writable element data.
func NewMutableDataset(md *meta.MetaData, isBatch bool, batchSize Idx, dataset string, optFns ...Option) (*MutableDataset, error) {
	h, err := newHandler("construct", md, isBatch, batchSize, dataset, optFns)
	if err != nil {
		return nil, err
	}
	return &MutableDataset{h}, nil
}

func (*MutableDataset) mutable() {}

// AddBuffer attaches a component and its memory in one step.
// See ConstDataset.AddBuffer.
func (d *MutableDataset) AddBuffer(component string, elementsPerScenario, totalElements Idx, indptr []Idx, data Data) error {
	return d.addBuffer(component, elementsPerScenario, totalElements, indptr, data)
}

// IndividualScenario returns a non-batch view of scenario s sharing memory.
func (d *MutableDataset) IndividualScenario(s Idx) (*MutableDataset, error) {
	h, err := d.individual(s)
	if err != nil {
		return nil, err
	}
	return &MutableDataset{h}, nil
}

// Const returns a read-only view sharing memory.
func (d *MutableDataset) Const() *ConstDataset {
	return &ConstDataset{d.clone()}
}

// WritableDataset lets a producer fix the layout before the memory exists.
// Components are registered with AddComponentInfo and receive memory later
// through SetBuffer.
type WritableDataset struct {
	*handler
}

// NewWritableDataset creates an empty handler with writable element data and
// offset index.
func NewWritableDataset(md *meta.MetaData, isBatch bool, batchSize Idx, dataset string, optFns ...Option) (*WritableDataset, error) {
	h, err := newHandler("construct", md, isBatch, batchSize, dataset, optFns)
	if err != nil {
		return nil, err
	}
	return &WritableDataset{h}, nil
}

func (*WritableDataset) mutable() {}

// AddComponentInfo registers a component's cardinality without memory.
func (d *WritableDataset) AddComponentInfo(component string, elementsPerScenario, totalElements Idx) (err error) {
	const op = "add_component_info"
	defer func() { d.observeAttach(op, component, elementsPerScenario, totalElements, err) }()

	comp, err := d.checkInfo(op, component, elementsPerScenario, totalElements)
	if err != nil {
		return err
	}
	d.commit(ComponentInfo{Component: comp, ElementsPerScenario: elementsPerScenario, TotalElements: totalElements}, Buffer{}, infoAttached)
	return nil
}

// SetBuffer supplies memory for a component registered with
// AddComponentInfo. Only presence and length of indptr are checked here;
// its contents are validated by Validate, Const and Mutable.
func (d *WritableDataset) SetBuffer(component string, indptr []Idx, data Data) (err error) {
	const op = "set_buffer"
	i := d.find(component)
	defer func() {
		var info ComponentInfo
		if i >= 0 {
			info = d.desc.ComponentInfo[i]
		}
		d.observeAttach(op, component, info.ElementsPerScenario, info.TotalElements, err)
	}()

	if i < 0 {
		return d.fail(op, component, errMissing)
	}
	if d.states[i] == bufferAttached {
		return d.fail(op, component, errBufferSet)
	}
	if err := d.checkBuffer(op, d.desc.ComponentInfo[i], indptr, data, false); err != nil {
		return err
	}
	d.buffers[i] = Buffer{Data: data, Indptr: indptr}
	d.states[i] = bufferAttached
	return nil
}

// Indptr returns the offset index supplied by SetBuffer for writing.
func (d *WritableDataset) Indptr(component string) ([]Idx, error) {
	i := d.find(component)
	if i < 0 {
		return nil, d.fail("get_indptr", component, errMissing)
	}
	if d.states[i] != bufferAttached {
		return nil, d.fail("get_indptr", component, errBufferNotSet)
	}
	return d.buffers[i].Indptr, nil
}

// Validate checks that every component has memory and that every offset
// index starts at 0, ends at the total and never decreases.
func (d *WritableDataset) Validate() error {
	const op = "validate"
	for i, info := range d.desc.ComponentInfo {
		name := info.Component.Name
		if d.states[i] != bufferAttached {
			return d.fail(op, name, errBufferNotSet)
		}
		if !info.IsRagged() {
			continue
		}
		indptr := d.buffers[i].Indptr
		if err := layout.CheckRaggedContent(indptr, d.desc.BatchSize, info.TotalElements); err != nil {
			return d.fail(op, name, err)
		}
		if err := layout.CheckMonotonic(indptr, d.desc.BatchSize); err != nil {
			return d.fail(op, name, err)
		}
	}
	return nil
}

// Const validates the dataset and returns a read-only view sharing memory.
func (d *WritableDataset) Const() (*ConstDataset, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &ConstDataset{d.clone()}, nil
}

// Mutable validates the dataset and returns a view with a fixed offset index
// sharing memory.
func (d *WritableDataset) Mutable() (*MutableDataset, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &MutableDataset{d.clone()}, nil
}
