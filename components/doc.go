// Package components defines the built-in power-grid record types and the
// default schema registry built from them.
//
// Every record type is a plain Go struct whose `pgm` tags name its attributes.
// Output records are generic over the phase representation: Sym (float64) for
// symmetric results and Asym ([3]float64) for three-phase results.
//
//	md := components.MustMetaData()
//	ds, _ := gridbuf.NewConstDataset(md, false, 1, components.Input)
//	_ = ds.AddBuffer(components.Node, 2, 2, nil, gridbuf.DataOf(nodes))
package components
