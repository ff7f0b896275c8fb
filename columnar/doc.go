// Package columnar presents independently allocated per-attribute arrays as
// one random-access sequence of records.
//
// A Range gathers a record on read by copying each attached attribute out of
// its column; fields without a column read as not-a-value. Writing through a
// Range scatters only the attached fields and leaves the rest untouched.
//
//	r := columnar.NewRange[components.NodeInput](comp, n, cols)
//	for i, p := range r.All() {
//		v := p.Get()
//		v.URated *= 1.05
//		p.Set(v)
//	}
//
// Ranges never own the column memory. They are safe for concurrent readers.
package columnar
