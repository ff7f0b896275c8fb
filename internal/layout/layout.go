// Package layout holds the uniform and ragged cardinality rules shared by
// every dataset handler. All functions are pure.
package layout

import (
	"errors"
	"fmt"

	"github.com/hupe1980/gridbuf/internal/conv"
)

// Ragged is the elements-per-scenario marker of a ragged component.
const Ragged int64 = -1

// All selects the whole batch in ScenarioRange.
const All int64 = -1

var (
	ErrCardinality      = errors.New("total elements do not match elements per scenario times batch size")
	ErrIndptrMissing    = errors.New("ragged component requires an offset index")
	ErrIndptrUnexpected = errors.New("uniform component must not have an offset index")
	ErrIndptrLength     = errors.New("offset index too short")
	ErrIndptrBounds     = errors.New("offset index must start at 0 and end at total elements")
	ErrNotMonotonic     = errors.New("offset index is not monotonically non-decreasing")
	ErrScenario         = errors.New("scenario index out of range")
	ErrNegative         = errors.New("negative cardinality")
)

// CheckCardinality rejects element counts that cannot describe any layout.
func CheckCardinality(eps, total int64) error {
	if eps < Ragged {
		return fmt.Errorf("%w: elements per scenario %d", ErrNegative, eps)
	}
	if total < 0 {
		return fmt.Errorf("%w: total elements %d", ErrNegative, total)
	}
	return nil
}

// CheckUniform enforces total == eps*batch for uniform components.
// A product that overflows int64 never matches.
func CheckUniform(eps, total, batch int64) error {
	if eps < 0 {
		return nil
	}
	want, err := conv.MulInt64(eps, batch)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCardinality, err)
	}
	if total != want {
		return fmt.Errorf("%w: %d != %d * %d", ErrCardinality, total, eps, batch)
	}
	return nil
}

// CheckRaggedPresence requires an offset index exactly when eps is Ragged.
func CheckRaggedPresence(eps int64, hasIndptr bool) error {
	switch {
	case eps == Ragged && !hasIndptr:
		return ErrIndptrMissing
	case eps >= 0 && hasIndptr:
		return ErrIndptrUnexpected
	}
	return nil
}

// CheckIndptrLength requires at least batch+1 entries.
func CheckIndptrLength(indptr []int64, batch int64) error {
	if int64(len(indptr)) < batch+1 {
		return fmt.Errorf("%w: have %d entries, need %d", ErrIndptrLength, len(indptr), batch+1)
	}
	return nil
}

// CheckRaggedContent enforces indptr[0] == 0 and indptr[batch] == total.
// The interior is not inspected.
func CheckRaggedContent(indptr []int64, batch, total int64) error {
	if err := CheckIndptrLength(indptr, batch); err != nil {
		return err
	}
	if indptr[0] != 0 || indptr[batch] != total {
		return fmt.Errorf("%w: got [%d ... %d], total %d", ErrIndptrBounds, indptr[0], indptr[batch], total)
	}
	return nil
}

// CheckMonotonic verifies indptr[0..batch] never decreases.
func CheckMonotonic(indptr []int64, batch int64) error {
	if err := CheckIndptrLength(indptr, batch); err != nil {
		return err
	}
	for s := int64(0); s < batch; s++ {
		if indptr[s] > indptr[s+1] {
			return fmt.Errorf("%w: indptr[%d]=%d > indptr[%d]=%d", ErrNotMonotonic, s, indptr[s], s+1, indptr[s+1])
		}
	}
	return nil
}

// ScenarioRange returns the half-open element range [lo, hi) of scenario s.
// s == All yields [0, total). For ragged components the local pair
// 0 <= indptr[s] <= indptr[s+1] <= total is verified so the result is
// always safe to slice.
func ScenarioRange(eps int64, indptr []int64, total, batch, s int64) (lo, hi int64, err error) {
	if s == All {
		return 0, total, nil
	}
	if s < 0 || s >= batch {
		return 0, 0, fmt.Errorf("%w: %d not in [0, %d)", ErrScenario, s, batch)
	}
	if eps >= 0 {
		return s * eps, (s + 1) * eps, nil
	}
	if int64(len(indptr)) < s+2 {
		return 0, 0, fmt.Errorf("%w: have %d entries, need %d", ErrIndptrLength, len(indptr), s+2)
	}
	lo, hi = indptr[s], indptr[s+1]
	if lo < 0 || lo > hi || hi > total {
		return 0, 0, fmt.Errorf("%w: scenario %d spans [%d, %d) of %d", ErrNotMonotonic, s, lo, hi, total)
	}
	return lo, hi, nil
}

// ScenarioCount returns the number of elements in scenario s.
func ScenarioCount(eps int64, indptr []int64, total, batch, s int64) (int64, error) {
	lo, hi, err := ScenarioRange(eps, indptr, total, batch, s)
	return hi - lo, err
}
