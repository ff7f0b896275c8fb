package scenario

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/gridbuf"
)

// ErrBatchTooLarge is returned by Run for batches whose scenario indices do
// not fit in 32 bits.
var ErrBatchTooLarge = errors.New("scenario: batch size exceeds 2^32 scenarios")

// ScenarioError attributes a failure to one scenario.
type ScenarioError struct {
	Scenario gridbuf.Idx
	Err      error
}

func (e *ScenarioError) Error() string {
	return fmt.Sprintf("scenario %d: %v", e.Scenario, e.Err)
}

func (e *ScenarioError) Unwrap() error { return e.Err }

// BatchError reports every scenario that failed during a run.
type BatchError struct {
	// Failed holds the indices of the failed scenarios.
	Failed *roaring.Bitmap
	// Errors maps each failed scenario to its error.
	Errors map[gridbuf.Idx]error
}

func (e *BatchError) Error() string {
	first := e.Failed.Minimum()
	return fmt.Sprintf("%d scenario(s) failed, first %d: %v", e.Failed.GetCardinality(), first, e.Errors[gridbuf.Idx(first)])
}

// Unwrap returns the scenario errors in scenario order.
func (e *BatchError) Unwrap() []error {
	out := make([]error, 0, len(e.Errors))
	for _, s := range slices.Sorted(maps.Keys(e.Errors)) {
		out = append(out, &ScenarioError{Scenario: s, Err: e.Errors[s]})
	}
	return out
}

// Scenarios returns the failed scenario indices in ascending order.
func (e *BatchError) Scenarios() []gridbuf.Idx {
	out := make([]gridbuf.Idx, 0, e.Failed.GetCardinality())
	it := e.Failed.Iterator()
	for it.HasNext() {
		out = append(out, gridbuf.Idx(it.Next()))
	}
	return out
}
