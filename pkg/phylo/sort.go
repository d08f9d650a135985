package phylo

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMatrix is returned when the matrix has no taxon rows.
	ErrEmptyMatrix = errors.New("empty matrix")

	// ErrShapeMismatch is returned when rows have different lengths or the
	// number of names does not match the matrix dimensions.
	ErrShapeMismatch = errors.New("matrix shape mismatch")
)

// SortResult is the canonical column order of a matrix.
type SortResult struct {
	// Order maps sorted position to original column: Order[k] is the original
	// index of sorted column k.
	Order []int
	// Matrix is the n×m matrix with columns permuted by Order.
	Matrix [][]int
	// Characters are the character names in sorted order.
	Characters []string
}

// SortColumns returns the canonical left-to-right processing order of the
// columns of cells.
//
// It runs one stable counting pass per row, from the last row to the first.
// Each pass moves columns with a 1 in that row ahead of columns with a 0 and
// preserves the relative order inside each bucket. The final order is the
// lexicographic order of the columns' top-to-bottom bit strings with 1 ranked
// before 0, so a column whose ones set is a superset of another's always
// sorts to its left.
//
// cells must have at least one row; it may have zero columns. Inputs are not
// modified.
func SortColumns(cells [][]int, characters []string) (*SortResult, error) {
	n := len(cells)
	if n == 0 {
		return nil, ErrEmptyMatrix
	}
	m := len(cells[0])
	for i, row := range cells {
		if len(row) != m {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrShapeMismatch, i, len(row), m)
		}
	}
	if len(characters) != m {
		return nil, fmt.Errorf("%w: %d character names for %d columns", ErrShapeMismatch, len(characters), m)
	}

	order := make([]int, m)
	for j := range order {
		order[j] = j
	}
	next := make([]int, m)
	for row := n - 1; row >= 0; row-- {
		ones := 0
		for _, col := range order {
			if cells[row][col] == 1 {
				ones++
			}
		}
		pos1, pos0 := 0, ones
		for _, col := range order {
			if cells[row][col] == 1 {
				next[pos1] = col
				pos1++
			} else {
				next[pos0] = col
				pos0++
			}
		}
		order, next = next, order
	}

	sr := &SortResult{
		Order:      order,
		Matrix:     make([][]int, n),
		Characters: make([]string, m),
	}
	for k, src := range order {
		sr.Characters[k] = characters[src]
	}
	for i, row := range cells {
		sorted := make([]int, m)
		for k, src := range order {
			sorted[k] = row[src]
		}
		sr.Matrix[i] = sorted
	}
	return sr, nil
}

// ones returns the ascending taxon indices with state 1 in sorted column k.
func (sr *SortResult) ones(k int) []int {
	var out []int
	for i, row := range sr.Matrix {
		if row[k] == 1 {
			out = append(out, i)
		}
	}
	return out
}
