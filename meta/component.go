package meta

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Attribute describes one scalar field of a component's native row.
type Attribute struct {
	Name   string
	CType  CType
	Offset uintptr // byte offset within the native row
	Size   uintptr // byte size, equal to CType.Size()
}

// SetNaN writes the not-a-value encoding of this attribute into the row at p.
func (a *Attribute) SetNaN(row unsafe.Pointer) {
	a.CType.setNaN(unsafe.Add(row, a.Offset))
}

// IsNaN reports whether this attribute of the row at p holds not-a-value.
func (a *Attribute) IsNaN(row unsafe.Pointer) bool {
	return a.CType.isNaN(unsafe.Add(row, a.Offset))
}

// Component describes a record type: an ordered attribute list and the
// native row stride.
type Component struct {
	Name       string
	Size       uintptr // row stride in bytes
	Alignment  uintptr
	Attributes []Attribute

	typ    reflect.Type // nil when declared from raw attributes
	lookup map[string]int
	nanRow []uint64 // Size bytes of not-a-value template, word-aligned
}

// NewComponentFromAttributes declares a component without a Go record type,
// e.g. for a layout defined across a C boundary. Attributes must fit within
// size and must not share a name.
func NewComponentFromAttributes(name string, size, alignment uintptr, attributes []Attribute) (Component, error) {
	if name == "" {
		return Component{}, invalid("component", name, "", "empty name")
	}
	if alignment == 0 {
		alignment = 1
	}
	attrs := make([]Attribute, len(attributes))
	copy(attrs, attributes)
	for i := range attrs {
		a := &attrs[i]
		if !a.CType.Valid() {
			return Component{}, invalid("attribute", a.Name, name, fmt.Sprintf("unknown type tag %d", a.CType))
		}
		if a.Size == 0 {
			a.Size = a.CType.Size()
		}
		if a.Size != a.CType.Size() {
			return Component{}, invalid("attribute", a.Name, name,
				fmt.Sprintf("size %d does not match %s", a.Size, a.CType))
		}
		if a.Offset+a.Size > size {
			return Component{}, invalid("attribute", a.Name, name,
				fmt.Sprintf("offset %d exceeds row size %d", a.Offset, size))
		}
	}
	return newComponent(name, size, alignment, attrs, nil)
}

func newComponent(name string, size, alignment uintptr, attrs []Attribute, typ reflect.Type) (Component, error) {
	c := Component{
		Name:       name,
		Size:       size,
		Alignment:  alignment,
		Attributes: attrs,
		typ:        typ,
		lookup:     make(map[string]int, len(attrs)),
		nanRow:     make([]uint64, (size+7)/8),
	}
	for i := range attrs {
		if attrs[i].Name == "" {
			return Component{}, invalid("attribute", "", name, "empty name")
		}
		if _, dup := c.lookup[attrs[i].Name]; dup {
			return Component{}, invalid("attribute", attrs[i].Name, name, "duplicate name")
		}
		c.lookup[attrs[i].Name] = i
	}
	if size > 0 {
		base := unsafe.Pointer(&c.nanRow[0])
		for i := range attrs {
			attrs[i].SetNaN(base)
		}
	}
	return c, nil
}

// Type returns the Go record type the component was reflected from, or nil.
func (c *Component) Type() reflect.Type { return c.typ }

// FindAttribute returns the index of the named attribute, or -1.
func (c *Component) FindAttribute(name string) int {
	if i, ok := c.lookup[name]; ok {
		return i
	}
	return -1
}

// Attribute returns the named attribute.
func (c *Component) Attribute(name string) (*Attribute, error) {
	i := c.FindAttribute(name)
	if i < 0 {
		return nil, unknown("attribute", name, c.Name)
	}
	return &c.Attributes[i], nil
}

// SetNaN fills n consecutive rows starting at p with not-a-value for every
// attribute. Bytes not covered by an attribute are zeroed.
func (c *Component) SetNaN(p unsafe.Pointer, n int) {
	if c.Size == 0 || n <= 0 {
		return
	}
	tmpl := unsafe.Slice((*byte)(unsafe.Pointer(&c.nanRow[0])), c.Size)
	for i := 0; i < n; i++ {
		row := unsafe.Slice((*byte)(unsafe.Add(p, uintptr(i)*c.Size)), c.Size)
		copy(row, tmpl)
	}
}
