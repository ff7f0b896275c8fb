// Package meta provides the self-describing schema registry of gridbuf.
//
// A registry ([MetaData]) lists dataset kinds ("input", "update",
// "sym_output", ...). Each dataset kind lists the components it may contain
// and each component lists its attributes with their scalar type tag
// ([CType]), byte offset within the native row and byte size.
//
// # Building a Registry
//
// Components are usually reflected from Go record types. Every field tagged
// with `pgm:"<name>"` becomes an attribute; untagged embedded structs are
// flattened:
//
//	type NodeInput struct {
//	    ID      int32   `pgm:"id"`
//	    URated  float64 `pgm:"u_rated"`
//	}
//
//	node, _ := meta.NewComponent[NodeInput]("node")
//	input, _ := meta.NewDataset("input", node)
//	md, _ := meta.New(input)
//
// # Lookups
//
//	ds, err := md.Dataset("input")      // *SchemaError if unknown
//	comp, err := ds.Component("node")
//	attr, err := comp.Attribute("u_rated")
//
// # Thread Safety
//
// A registry is immutable after construction and safe for concurrent use.
// It is constructed once at process start and passed by pointer to every
// dataset handler.
package meta
