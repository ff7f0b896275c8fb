package testutil

import (
	"math/rand/v2"
	"sync"

	"github.com/hupe1980/gridbuf"
	"github.com/hupe1980/gridbuf/components"
)

// RNG is a seeded, thread-safe random source.
type RNG struct {
	mu   sync.Mutex
	rand *rand.Rand
	seed uint64
}

// NewRNG creates an RNG with the given seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), seed: seed}
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 { return r.seed }

// IntN returns a number in [0,n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

// Float64 returns a number in [0,1).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Indptr returns a valid offset index for batch scenarios of at most
// maxPerScenario elements each. Scenarios may be empty.
func (r *RNG) Indptr(batch, maxPerScenario int) []gridbuf.Idx {
	indptr := make([]gridbuf.Idx, batch+1)
	for s := range batch {
		indptr[s+1] = indptr[s] + gridbuf.Idx(r.IntN(maxPerScenario+1))
	}
	return indptr
}

// SymLoadUpdates returns n updates with random setpoints. IDs repeat every
// nLoads records.
func (r *RNG) SymLoadUpdates(n, nLoads int) []components.SymLoadUpdate {
	out := make([]components.SymLoadUpdate, n)
	for i := range out {
		out[i] = components.SymLoadUpdate{
			Base:       components.Base{ID: components.ID(i % max(nLoads, 1))},
			Status:     int8(r.IntN(2)),
			PSpecified: r.Float64() * 1e6,
			QSpecified: r.Float64() * 1e5,
		}
	}
	return out
}

// Batch is a randomly generated update batch and the memory backing it.
type Batch struct {
	Dataset *gridbuf.ConstDataset
	// Indptr is nil for uniform batches.
	Indptr  []gridbuf.Idx
	Updates []components.SymLoadUpdate
}

// UpdateBatch builds a sym_load update batch. Ragged batches draw up to
// maxPerScenario updates per scenario, uniform ones exactly maxPerScenario.
func (r *RNG) UpdateBatch(batch, maxPerScenario int, ragged bool) (*Batch, error) {
	md, err := components.NewMetaData()
	if err != nil {
		return nil, err
	}
	ds, err := gridbuf.NewConstDataset(md, true, gridbuf.Idx(batch), components.Update)
	if err != nil {
		return nil, err
	}

	b := &Batch{Dataset: ds}
	eps := gridbuf.Idx(maxPerScenario)
	total := batch * maxPerScenario
	if ragged {
		b.Indptr = r.Indptr(batch, maxPerScenario)
		eps = gridbuf.Ragged
		total = int(b.Indptr[batch])
	}
	b.Updates = r.SymLoadUpdates(total, maxPerScenario)
	if err := ds.AddBuffer(components.SymLoad, eps, gridbuf.Idx(total), b.Indptr, gridbuf.DataOf(b.Updates)); err != nil {
		return nil, err
	}
	return b, nil
}
