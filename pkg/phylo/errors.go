package phylo

import (
	"fmt"
	"strings"
)

// Reason describes how a character broke the partition.
type Reason int

const (
	// ReasonStraddle means the ones set intersects more than one block.
	ReasonStraddle Reason = iota
	// ReasonPartialOverlap means the ones set touches a single block but is
	// not contained in it.
	ReasonPartialOverlap
)

func (r Reason) String() string {
	switch r {
	case ReasonStraddle:
		return "intersects multiple clades"
	case ReasonPartialOverlap:
		return "not contained in a single clade"
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// ConflictError reports that the matrix is not a perfect phylogeny. It is an
// expected analysis outcome, not a failure of the engine.
type ConflictError struct {
	// Characters names the witness; currently always the single first
	// character that could not be placed.
	Characters []string
	Reason     Reason
	// Sort is the full column ordering. Set by [Run]; nil when the error
	// comes straight from [Refine].
	Sort *SortResult
	// Splits holds every clade recorded up to and including the witness.
	Splits *SplitMap
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict at character %s (%s)", strings.Join(e.Characters, ","), e.Reason)
}

// InvariantViolationError reports an internal defect: a non-empty character
// touched no block. Active blocks always cover every taxon, so only corrupted
// refiner state can produce it.
type InvariantViolationError struct {
	Character string
	Splits    *SplitMap
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("internal error: character %s touches no block", e.Character)
}
