// Package gridbuf describes, validates and exposes batched collections of
// typed power-grid records without copying caller-owned memory.
//
// # Overview
//
// A dataset handler is built against a schema registry (see package meta)
// for one dataset kind, a batch flag and a batch size. Components are then
// attached exactly once each, either in row mode (one array of native
// records) or in columnar mode (one array per attribute), with a uniform
// or ragged per-scenario cardinality.
//
//	md := components.MustMetaData()
//	ds, err := gridbuf.NewConstDataset(md, true, 3, components.Update)
//	err = ds.AddBuffer(components.SymLoad, 2, 6, nil, gridbuf.DataOf(loads))
//	span, err := gridbuf.ConstBufferSpan[components.SymLoadUpdate](ds, components.SymLoad, 1)
//
// # Capabilities
//
// Three handler types differ only in what the handler may write:
//
//   - ConstDataset: element data and offset index are read-only.
//   - MutableDataset: element data is writable through BufferSpan.
//   - WritableDataset: element data and offset index are writable; the
//     layout is fixed first with AddComponentInfo and the memory is
//     supplied later with SetBuffer.
//
// Write accessors take a Writer, which only *MutableDataset and
// *WritableDataset implement, so misuse fails at compile time.
//
// # Ragged layouts
//
// A component with ElementsPerScenario == -1 carries an offset index of
// BatchSize+1 entries. Scenario s spans [indptr[s], indptr[s+1]).
//
// # Ownership
//
// Handlers never own element or offset-index memory. The caller keeps it
// alive for as long as the handler and any span or scenario view derived
// from it are in use.
//
// # Concurrency
//
// Attaching components is not safe for concurrent use. Once attached,
// concurrent read-only access is safe.
package gridbuf
