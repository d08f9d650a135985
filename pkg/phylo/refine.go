package phylo

import (
	"fmt"
	"slices"

	"github.com/Nir-David-Duani/pp-linear/pkg/tree"
)

// block is one cell of the current partition, addressed by its arena index.
type block struct {
	taxa []int // ascending taxon indices
	node int   // tree node currently representing the block
}

type refiner struct {
	taxa    []string
	blocks  []block // arena; retired entries are never reused
	active  []int   // live block ids
	blockOf []int   // taxon -> live block id
	inOnes  []bool  // scratch membership of the current ones set

	nodes    [][]int
	edges    []tree.Edge
	incident [][]int // node -> edge ids
	splits   *SplitMap
}

// Refine builds the tree for a column-sorted matrix by partition refinement.
//
// Columns are processed left to right. An empty column is skipped. Otherwise
// its clade is recorded in the split map and compared against the live
// blocks:
//
//   - touching two or more blocks, or a single block without being contained
//     in it, is a conflict reported as *ConflictError;
//   - equal to a block whose node has exactly one edge, the character
//     co-labels that edge, which already separates the block from the rest
//     of the tree; equal to the whole taxon set it has no structural effect;
//     equal to a block whose node has several edges, the block's taxa move to
//     a new pendant node so that one edge separates them;
//   - a proper subset of a block splits it: the block's node keeps the rest
//     of its taxa and its edges, and a new node joined by a new edge takes
//     the clade.
//
// A character touching no block is reported as *InvariantViolationError.
// Both error types carry the splits recorded so far; the SplitMap return
// value is nil on error.
func Refine(sr *SortResult, taxa []string) (*tree.Tree, *SplitMap, error) {
	if len(sr.Matrix) == 0 {
		return nil, nil, ErrEmptyMatrix
	}
	if len(taxa) != len(sr.Matrix) {
		return nil, nil, fmt.Errorf("%w: %d taxon names for %d rows", ErrShapeMismatch, len(taxa), len(sr.Matrix))
	}

	r := newRefiner(taxa)
	for k, name := range sr.Characters {
		ones := sr.ones(k)
		if len(ones) == 0 {
			continue
		}
		if err := r.apply(name, ones); err != nil {
			return nil, nil, err
		}
	}

	t, err := tree.New(taxa, r.nodes, r.edges)
	if err != nil {
		return nil, nil, fmt.Errorf("assemble tree: %w", err)
	}
	return t, r.splits, nil
}

func newRefiner(taxa []string) *refiner {
	n := len(taxa)
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	return &refiner{
		taxa:     taxa,
		blocks:   []block{{taxa: all, node: 0}},
		active:   []int{0},
		blockOf:  make([]int, n),
		inOnes:   make([]bool, n),
		nodes:    [][]int{slices.Clone(all)},
		incident: [][]int{nil},
		splits:   &SplitMap{},
	}
}

func (r *refiner) apply(name string, ones []int) error {
	r.splits.Set(name, r.names(ones))

	for _, x := range ones {
		r.inOnes[x] = true
	}
	defer func() {
		for _, x := range ones {
			r.inOnes[x] = false
		}
	}()

	var touched []int
	for _, id := range r.active {
		if !r.disjoint(id, ones) {
			touched = append(touched, id)
		}
	}

	switch {
	case len(touched) == 0:
		return &InvariantViolationError{Character: name, Splits: r.splits.Clone()}
	case len(touched) > 1:
		return r.conflict(name, ReasonStraddle)
	}

	id := touched[0]
	for _, x := range ones {
		if r.blockOf[x] != id {
			return r.conflict(name, ReasonPartialOverlap)
		}
	}

	b := r.blocks[id]
	if len(ones) < len(b.taxa) {
		r.split(id, name, ones)
		return nil
	}
	switch edges := r.incident[b.node]; len(edges) {
	case 0:
	case 1:
		r.edges[edges[0]].Labels = append(r.edges[edges[0]].Labels, name)
	default:
		r.detach(id, name)
	}
	return nil
}

// disjoint reports whether block id shares no taxon with ones, iterating the
// smaller of the two sets.
func (r *refiner) disjoint(id int, ones []int) bool {
	members := r.blocks[id].taxa
	if len(ones) <= len(members) {
		for _, x := range ones {
			if r.blockOf[x] == id {
				return false
			}
		}
		return true
	}
	for _, x := range members {
		if r.inOnes[x] {
			return false
		}
	}
	return true
}

func (r *refiner) split(id int, name string, ones []int) {
	b := &r.blocks[id]
	rest := make([]int, 0, len(b.taxa)-len(ones))
	for _, x := range b.taxa {
		if !r.inOnes[x] {
			rest = append(rest, x)
		}
	}

	r.nodes[b.node] = rest
	b.taxa = rest
	child := r.link(b.node, name, ones)

	cid := len(r.blocks)
	r.blocks = append(r.blocks, block{taxa: slices.Clone(ones), node: child})
	for _, x := range ones {
		r.blockOf[x] = cid
	}

	r.active = slices.DeleteFunc(r.active, func(a int) bool { return a == id })
	r.active = append(r.active, id, cid)
}

// detach moves every taxon of block id from its node to a new pendant node.
// The old node keeps its edges and no taxa.
func (r *refiner) detach(id int, name string) {
	b := &r.blocks[id]
	old := b.node
	b.node = r.link(old, name, b.taxa)
	r.nodes[old] = nil
}

// link adds a node holding taxa and an edge labeled name from parent to it,
// returning the new node id.
func (r *refiner) link(parent int, name string, taxa []int) int {
	child := len(r.nodes)
	eid := len(r.edges)
	r.nodes = append(r.nodes, slices.Clone(taxa))
	r.incident = append(r.incident, []int{eid})
	r.incident[parent] = append(r.incident[parent], eid)
	r.edges = append(r.edges, tree.Edge{U: parent, V: child, Labels: []string{name}})
	return child
}

func (r *refiner) conflict(name string, reason Reason) error {
	return &ConflictError{
		Characters: []string{name},
		Reason:     reason,
		Splits:     r.splits.Clone(),
	}
}

func (r *refiner) names(idx []int) []string {
	out := make([]string, len(idx))
	for i, x := range idx {
		out[i] = r.taxa[x]
	}
	return out
}
