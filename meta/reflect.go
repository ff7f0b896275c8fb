package meta

import (
	"fmt"
	"reflect"
)

// TagName is the struct tag key that marks a field as an attribute.
const TagName = "pgm"

// NewComponent reflects a component from the record type T.
func NewComponent[T any](name string) (Component, error) {
	return ComponentOf(name, reflect.TypeFor[T]())
}

// MustComponent is like NewComponent but panics on error. Intended for
// package-level registry definitions.
func MustComponent[T any](name string) Component {
	c, err := NewComponent[T](name)
	if err != nil {
		panic(err)
	}
	return c
}

// ComponentOf reflects a component from the struct type t.
//
// Fields tagged `pgm:"<name>"` become attributes in declaration order.
// Untagged anonymous struct fields are flattened; all other untagged fields
// and fields tagged `pgm:"-"` are ignored.
func ComponentOf(name string, t reflect.Type) (Component, error) {
	if name == "" {
		return Component{}, invalid("component", name, "", "empty name")
	}
	if t == nil || t.Kind() != reflect.Struct {
		return Component{}, invalid("component", name, "", fmt.Sprintf("record type %v is not a struct", t))
	}
	var attrs []Attribute
	if err := collectAttributes(name, t, 0, &attrs); err != nil {
		return Component{}, err
	}
	return newComponent(name, t.Size(), uintptr(t.Align()), attrs, t)
}

func collectAttributes(component string, t reflect.Type, base uintptr, out *[]Attribute) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, tagged := f.Tag.Lookup(TagName)
		if tag == "-" {
			continue
		}
		if !tagged {
			if f.Anonymous && f.Type.Kind() == reflect.Struct {
				if err := collectAttributes(component, f.Type, base+f.Offset, out); err != nil {
					return err
				}
			}
			continue
		}
		ct, ok := CTypeOf(f.Type)
		if !ok {
			return invalid("attribute", tag, component, fmt.Sprintf("unsupported field type %v", f.Type))
		}
		*out = append(*out, Attribute{
			Name:   tag,
			CType:  ct,
			Offset: base + f.Offset,
			Size:   ct.Size(),
		})
	}
	return nil
}
