package phylo

import (
	"errors"
	"fmt"

	"github.com/Nir-David-Duani/pp-linear/pkg/tree"
)

// Result is the outcome of [Run]. Exactly one of Tree and Conflict is set.
type Result struct {
	Taxa []string
	Sort *SortResult
	// Splits holds every recorded clade; on conflict, those recorded up to
	// and including the witness.
	Splits *SplitMap
	Tree   *tree.Tree
	// Conflict is the witness when the matrix is not a perfect phylogeny.
	Conflict *ConflictError
}

// Run sorts the columns of cells and refines them into a tree.
//
// Run distinguishes three outcomes. A perfect phylogeny yields a Result with
// Tree set. An incompatible matrix yields a Result with Conflict set, carrying
// the witness, the full sort result and the partial splits; this is not an
// error. Invalid input (no rows, mismatched shapes) and internal invariant
// violations are returned as errors.
func Run(taxa, characters []string, cells [][]int) (*Result, error) {
	sr, err := SortColumns(cells, characters)
	if err != nil {
		return nil, err
	}

	t, splits, err := Refine(sr, taxa)
	var conflict *ConflictError
	switch {
	case errors.As(err, &conflict):
		conflict.Sort = sr
		return &Result{Taxa: taxa, Sort: sr, Splits: conflict.Splits, Conflict: conflict}, nil
	case err != nil:
		return nil, fmt.Errorf("refine: %w", err)
	}
	return &Result{Taxa: taxa, Sort: sr, Splits: splits, Tree: t}, nil
}

// Perfect reports whether the matrix admits a perfect phylogeny.
func (r *Result) Perfect() bool { return r.Conflict == nil }

// Err returns the conflict as an error, or nil for a perfect phylogeny.
func (r *Result) Err() error {
	if r.Conflict == nil {
		return nil
	}
	return r.Conflict
}

// Anchor returns the anchor/prefer pair chosen for canonical rendering.
func (r *Result) Anchor() tree.Anchor {
	return tree.SelectAnchor(r.Splits.Clades(), len(r.Taxa))
}

// Newick returns the anchored canonical Newick string, or "" on conflict.
func (r *Result) Newick() string {
	if r.Tree == nil {
		return ""
	}
	a := r.Anchor()
	return r.Tree.AnchoredNewick(a.Character, a.Prefer)
}

// Witness describes the outcome in one line: "OK" for a perfect phylogeny,
// otherwise the conflict message.
func (r *Result) Witness() string {
	if r.Conflict == nil {
		return "OK"
	}
	return r.Conflict.Error()
}
